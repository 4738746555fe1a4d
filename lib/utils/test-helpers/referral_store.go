package testhelpers

import (
	referrallinkstore "jobmarket-backend/lib/referral/link-store"
	referralstore "jobmarket-backend/lib/referral/store"
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ReferralStore struct {
	mu        sync.Mutex
	referrals map[string]dbmodels.JobReferral
}

var _ referralstore.Provider = (*ReferralStore)(nil)

func NewReferralStore() *ReferralStore {
	return &ReferralStore{
		referrals: map[string]dbmodels.JobReferral{},
	}
}

func (s *ReferralStore) Create(rec dbmodels.JobReferral) (*dbmodels.JobReferral, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = nextTimestamp()
	rec.UpdatedAt = rec.CreatedAt
	s.referrals[rec.ID] = rec
	return &rec, nil
}

func (s *ReferralStore) GetByID(id string) (*dbmodels.JobReferral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.referrals[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *ReferralStore) ListByReferrer(referrerID string) ([]dbmodels.JobReferral, error) {
	return s.list(func(rec dbmodels.JobReferral) bool { return rec.ReferrerID == referrerID }), nil
}

func (s *ReferralStore) ListByJob(jobID string) ([]dbmodels.JobReferral, error) {
	return s.list(func(rec dbmodels.JobReferral) bool { return rec.JobID == jobID }), nil
}

func (s *ReferralStore) ExistsCompleted(jobID, referrerID string) (bool, error) {
	list := s.list(func(rec dbmodels.JobReferral) bool {
		return rec.JobID == jobID && rec.ReferrerID == referrerID && rec.Status == models.JobReferralStatusCompleted
	})
	return len(list) != 0, nil
}

// Complete переводит рекомендацию pending -> completed
func (s *ReferralStore) Complete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.referrals[id]
	if !ok || !rec.Status.CanMoveTo(models.JobReferralStatusCompleted) {
		return
	}
	rec.Status = models.JobReferralStatusCompleted
	s.referrals[id] = rec
}

func (s *ReferralStore) list(match func(rec dbmodels.JobReferral) bool) []dbmodels.JobReferral {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.JobReferral{}
	for _, rec := range s.referrals {
		if match(rec) {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].CreatedAt.After(list[b].CreatedAt) })
	return list
}

type LinkStore struct {
	mu    sync.Mutex
	links map[string]dbmodels.ReferralLink
	// Inserts количество созданных ссылок
	Inserts int
}

var _ referrallinkstore.Provider = (*LinkStore)(nil)

func NewLinkStore() *LinkStore {
	return &LinkStore{
		links: map[string]dbmodels.ReferralLink{},
	}
}

func (s *LinkStore) FindOrCreate(jobID, referrerID string) (*dbmodels.ReferralLink, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.links {
		if rec.JobID == jobID && rec.ReferrerID == referrerID {
			return &rec, false, nil
		}
	}
	rec := dbmodels.ReferralLink{
		JobID:      jobID,
		ReferrerID: referrerID,
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = nextTimestamp()
	s.links[rec.ID] = rec
	s.Inserts++
	return &rec, true, nil
}

func (s *LinkStore) GetByID(id string) (*dbmodels.ReferralLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.links[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *LinkStore) GetByJobAndReferrer(jobID, referrerID string) (*dbmodels.ReferralLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.links {
		if rec.JobID == jobID && rec.ReferrerID == referrerID {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *LinkStore) ListByReferrer(referrerID string) ([]dbmodels.ReferralLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.ReferralLink{}
	for _, rec := range s.links {
		if rec.ReferrerID == referrerID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].CreatedAt.After(list[b].CreatedAt) })
	return list, nil
}

var (
	clockMu sync.Mutex
	clock   = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

// nextTimestamp строго возрастающее время создания, чтобы сортировка в фейках была детерминированной
func nextTimestamp() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clock = clock.Add(time.Second)
	return clock
}
