package testhelpers

import (
	applystore "jobmarket-backend/lib/job-apply/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type ApplyStore struct {
	mu      sync.Mutex
	applies map[string]dbmodels.JobApply
	// Referrals если задан, при найме завершается связанная рекомендация
	Referrals *ReferralStore
}

var _ applystore.Provider = (*ApplyStore)(nil)

func NewApplyStore(referrals *ReferralStore) *ApplyStore {
	return &ApplyStore{
		applies:   map[string]dbmodels.JobApply{},
		Referrals: referrals,
	}
}

func (s *ApplyStore) Create(rec dbmodels.JobApply) (*dbmodels.JobApply, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existed := range s.applies {
		if existed.JobID == rec.JobID && existed.TalentID == rec.TalentID {
			return nil, apperrors.Conflict("кандидат уже откликнулся на вакансию")
		}
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = nextTimestamp()
	rec.UpdatedAt = rec.CreatedAt
	s.applies[rec.ID] = rec
	return &rec, nil
}

func (s *ApplyStore) GetByID(id string) (*dbmodels.JobApply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.applies[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *ApplyStore) GetByJobAndTalent(jobID, talentID string) (*dbmodels.JobApply, error) {
	list := s.list(func(rec dbmodels.JobApply) bool { return rec.JobID == jobID && rec.TalentID == talentID })
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *ApplyStore) ListByJob(jobID string) ([]dbmodels.JobApply, error) {
	return s.list(func(rec dbmodels.JobApply) bool { return rec.JobID == jobID }), nil
}

func (s *ApplyStore) ListByTalent(talentID string) ([]dbmodels.JobApply, error) {
	return s.list(func(rec dbmodels.JobApply) bool { return rec.TalentID == talentID }), nil
}

func (s *ApplyStore) UpdateStatus(id string, from, to models.JobApplyStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.applies[id]
	if !ok || rec.Status != from {
		return false, nil
	}
	rec.Status = to
	rec.UpdatedAt = nextTimestamp()
	s.applies[id] = rec
	if to == models.JobApplyStatusHired && rec.JobReferralID != nil && s.Referrals != nil {
		s.Referrals.Complete(*rec.JobReferralID)
	}
	return true, nil
}

func (s *ApplyStore) ExistsByReferralLink(linkID string, status models.JobApplyStatus) (bool, error) {
	list := s.list(func(rec dbmodels.JobApply) bool {
		return rec.ReferralLinkID != nil && *rec.ReferralLinkID == linkID && rec.Status == status
	})
	return len(list) != 0, nil
}

// SetStatus выставляет статус без проверок, для подготовки данных
func (s *ApplyStore) SetStatus(id string, status models.JobApplyStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.applies[id]
	rec.Status = status
	s.applies[id] = rec
}

func (s *ApplyStore) list(match func(rec dbmodels.JobApply) bool) []dbmodels.JobApply {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.JobApply{}
	for _, rec := range s.applies {
		if match(rec) {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].CreatedAt.After(list[b].CreatedAt) })
	return list
}
