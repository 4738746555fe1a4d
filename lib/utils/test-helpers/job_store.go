package testhelpers

import (
	jobstore "jobmarket-backend/lib/job/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	jobapimodels "jobmarket-backend/models/api/job"
	dbmodels "jobmarket-backend/models/db"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// JobStore хранилище вакансий в памяти с той же семантикой, что и jobstore на postgres
type JobStore struct {
	mu         sync.Mutex
	jobs       map[string]dbmodels.Job
	tombstones map[int64]string
	// FailCreate эмулирует ошибку вставки после выдачи номера
	FailCreate error
}

var _ jobstore.Provider = (*JobStore)(nil)

func NewJobStore() *JobStore {
	return &JobStore{
		jobs:       map[string]dbmodels.Job{},
		tombstones: map[int64]string{},
	}
}

// Put кладет вакансию как есть, номер выдается, если не задан
func (s *JobStore) Put(rec dbmodels.Job) dbmodels.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.JobNumber == 0 {
		rec.JobNumber = s.nextNumber()
	}
	s.jobs[rec.ID] = rec
	return rec
}

func (s *JobStore) nextNumber() int64 {
	var maxNumber int64
	for _, rec := range s.jobs {
		if rec.JobNumber > maxNumber {
			maxNumber = rec.JobNumber
		}
	}
	for number := range s.tombstones {
		if number > maxNumber {
			maxNumber = number
		}
	}
	return maxNumber + 1
}

func (s *JobStore) Create(rec dbmodels.Job) (*dbmodels.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.JobNumber = s.nextNumber()
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if s.FailCreate != nil {
		return nil, s.FailCreate
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	s.jobs[rec.ID] = rec
	return &rec, nil
}

func (s *JobStore) GetByID(id string) (*dbmodels.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok || rec.DeletedAt.Valid {
		return nil, nil
	}
	return &rec, nil
}

func (s *JobStore) GetByIDUnscoped(id string) (*dbmodels.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *JobStore) Update(id string, updMap map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok || rec.DeletedAt.Valid {
		return apperrors.NotFound("вакансия не найдена")
	}
	s.jobs[id] = applyJobUpdate(rec, updMap)
	return nil
}

func (s *JobStore) UpdateIfStatusIn(id string, statuses []models.JobStatus, updMap map[string]interface{}) (bool, error) {
	return s.updateIf(id, updMap, func(status models.JobStatus) bool {
		return containsStatus(statuses, status)
	})
}

func (s *JobStore) UpdateIfStatusNotIn(id string, statuses []models.JobStatus, updMap map[string]interface{}) (bool, error) {
	return s.updateIf(id, updMap, func(status models.JobStatus) bool {
		return !containsStatus(statuses, status)
	})
}

func (s *JobStore) updateIf(id string, updMap map[string]interface{}, predicate func(models.JobStatus) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok || rec.DeletedAt.Valid || !predicate(rec.Status) {
		return false, nil
	}
	s.jobs[id] = applyJobUpdate(rec, updMap)
	return true, nil
}

func (s *JobStore) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok || rec.DeletedAt.Valid {
		return apperrors.NotFound("вакансия не найдена")
	}
	rec.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	s.jobs[id] = rec
	return nil
}

func (s *JobStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok {
		return apperrors.NotFound("вакансия не найдена")
	}
	s.tombstones[rec.JobNumber] = rec.ID
	delete(s.jobs, id)
	return nil
}

func (s *JobStore) Restore(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok || !rec.DeletedAt.Valid {
		return false, nil
	}
	rec.DeletedAt = gorm.DeletedAt{}
	s.jobs[id] = rec
	return true, nil
}

func (s *JobStore) ListPublished(filter jobapimodels.JobFilter) ([]dbmodels.Job, error) {
	list := s.published(filter)
	page, limit := filter.GetPage()
	return paginate(list, (page-1)*limit, limit), nil
}

func (s *JobStore) CountPublished(filter jobapimodels.JobFilter) (int64, error) {
	return int64(len(s.published(filter))), nil
}

func (s *JobStore) ListSimilar(jobID, specialityID string, limit int) ([]dbmodels.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Job{}
	for _, rec := range s.jobs {
		if rec.DeletedAt.Valid || rec.ID == jobID || rec.Status != models.JobStatusPublished {
			continue
		}
		if rec.SpecialityID == nil || *rec.SpecialityID != specialityID {
			continue
		}
		list = append(list, rec)
	}
	sortNewestFirst(list)
	return paginate(list, 0, limit), nil
}

func (s *JobStore) ListByCreator(userID string, offset, limit int) ([]dbmodels.Job, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Job{}
	for _, rec := range s.jobs {
		if !rec.DeletedAt.Valid && rec.CreatedBy == userID {
			list = append(list, rec)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].JobNumber > list[b].JobNumber })
	return paginate(list, offset, limit), int64(len(list)), nil
}

func (s *JobStore) ListToExpire(now time.Time) ([]dbmodels.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Job{}
	for _, rec := range s.jobs {
		if !rec.DeletedAt.Valid && rec.Status == models.JobStatusPublished && rec.ExpiredDate.Before(now) {
			list = append(list, rec)
		}
	}
	return list, nil
}

// Numbers все выданные номера, включая удаленные
func (s *JobStore) Numbers() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []int64{}
	for _, rec := range s.jobs {
		result = append(result, rec.JobNumber)
	}
	for number := range s.tombstones {
		result = append(result, number)
	}
	sort.Slice(result, func(a, b int) bool { return result[a] < result[b] })
	return result
}

func (s *JobStore) published(filter jobapimodels.JobFilter) []dbmodels.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := []dbmodels.Job{}
	for _, rec := range s.jobs {
		if rec.DeletedAt.Valid || rec.Status != models.JobStatusPublished {
			continue
		}
		if matchFilter(rec, filter) {
			list = append(list, rec)
		}
	}
	sortNewestFirst(list)
	return list
}

func matchFilter(rec dbmodels.Job, filter jobapimodels.JobFilter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(rec.Title), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.LocationID != "" && (rec.LocationID == nil || *rec.LocationID != filter.LocationID) {
		return false
	}
	if filter.ExperienceLevel != "" && rec.ExperienceLevel != filter.ExperienceLevel {
		return false
	}
	if filter.ManagementLevel != "" && rec.ManagementLevel != filter.ManagementLevel {
		return false
	}
	if filter.JobType != "" && rec.JobType != filter.JobType {
		return false
	}
	if filter.SalaryFrom > 0 && rec.Salary.To != 0 && rec.Salary.To < filter.SalaryFrom {
		return false
	}
	if filter.SalaryTo > 0 && rec.Salary.From > filter.SalaryTo {
		return false
	}
	for _, tag := range filter.Tags {
		found := false
		for _, jobTag := range rec.Tags {
			if jobTag == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func applyJobUpdate(rec dbmodels.Job, updMap map[string]interface{}) dbmodels.Job {
	for key, value := range updMap {
		switch key {
		case "Status":
			rec.Status = value.(models.JobStatus)
		case "UpdatedBy":
			rec.UpdatedBy = value.(string)
		case "Title":
			rec.Title = value.(string)
		case "Description":
			rec.Description = value.(string)
		case "OrganizationID":
			rec.OrganizationID = value.(*string)
		case "SpecialityID":
			rec.SpecialityID = value.(*string)
		case "LocationID":
			rec.LocationID = value.(*string)
		case "ExperienceLevel":
			rec.ExperienceLevel = value.(models.ExperienceLevel)
		case "ManagementLevel":
			rec.ManagementLevel = value.(models.ManagementLevel)
		case "JobType":
			rec.JobType = value.(models.JobType)
		case "salary_from":
			rec.Salary.From = value.(int64)
		case "salary_to":
			rec.Salary.To = value.(int64)
		case "bounty_amount":
			rec.Bounty.Amount = value.(int64)
		case "bounty_currency":
			rec.Bounty.Currency = value.(string)
		case "Tags":
			rec.Tags = toStrings(value)
		}
	}
	rec.UpdatedAt = time.Now()
	return rec
}

func toStrings(value interface{}) []string {
	switch v := value.(type) {
	case pq.StringArray:
		return v
	case []string:
		return v
	}
	return nil
}

func containsStatus(statuses []models.JobStatus, status models.JobStatus) bool {
	for _, item := range statuses {
		if item == status {
			return true
		}
	}
	return false
}

func sortNewestFirst(list []dbmodels.Job) {
	sort.Slice(list, func(a, b int) bool {
		if !list[a].PostedDate.Equal(list[b].PostedDate) {
			return list[a].PostedDate.After(list[b].PostedDate)
		}
		return list[a].JobNumber > list[b].JobNumber
	})
}

func paginate[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
