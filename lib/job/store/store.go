package jobstore

import (
	jobsequence "jobmarket-backend/lib/job/sequence"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	jobapimodels "jobmarket-backend/models/api/job"
	dbmodels "jobmarket-backend/models/db"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// Create присваивает номер и сохраняет вакансию в одной транзакции
	Create(rec dbmodels.Job) (*dbmodels.Job, error)
	GetByID(id string) (*dbmodels.Job, error)
	// GetByIDUnscoped возвращает в том числе мягко удаленную вакансию
	GetByIDUnscoped(id string) (*dbmodels.Job, error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateIfStatusIn обновляет запись, только если на момент записи ее статус входит в statuses
	UpdateIfStatusIn(id string, statuses []models.JobStatus, updMap map[string]interface{}) (updated bool, err error)
	// UpdateIfStatusNotIn обновляет запись, только если на момент записи ее статус не входит в statuses
	UpdateIfStatusNotIn(id string, statuses []models.JobStatus, updMap map[string]interface{}) (updated bool, err error)
	SoftDelete(id string) error
	Delete(id string) error
	Restore(id string) (restored bool, err error)
	ListPublished(filter jobapimodels.JobFilter) (list []dbmodels.Job, err error)
	CountPublished(filter jobapimodels.JobFilter) (count int64, err error)
	ListSimilar(jobID, specialityID string, limit int) (list []dbmodels.Job, err error)
	ListByCreator(userID string, offset, limit int) (list []dbmodels.Job, count int64, err error)
	ListToExpire(now time.Time) (list []dbmodels.Job, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db:       DB,
		sequence: jobsequence.NewInstance(),
	}
}

type impl struct {
	db       *gorm.DB
	sequence jobsequence.Provider
}

func (i impl) Create(rec dbmodels.Job) (*dbmodels.Job, error) {
	err := i.db.Transaction(func(tx *gorm.DB) error {
		number, err := i.sequence.Next(tx)
		if err != nil {
			return err
		}
		rec.JobNumber = number
		if err = rec.Validate(); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).
			Create(&rec).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.Job, error) {
	return i.get(i.db, id)
}

func (i impl) GetByIDUnscoped(id string) (*dbmodels.Job, error) {
	return i.get(i.db.Unscoped(), id)
}

func (i impl) get(db *gorm.DB, id string) (*dbmodels.Job, error) {
	rec := dbmodels.Job{}
	err := db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		Updates(updMap)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return apperrors.NotFound("вакансия не найдена")
	}
	return nil
}

func (i impl) UpdateIfStatusIn(id string, statuses []models.JobStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		Where("status in (?)", statuses).
		Updates(updMap)
	if err := tx.Error; err != nil {
		return false, err
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) UpdateIfStatusNotIn(id string, statuses []models.JobStatus, updMap map[string]interface{}) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		Where("status not in (?)", statuses).
		Updates(updMap)
	if err := tx.Error; err != nil {
		return false, err
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) SoftDelete(id string) error {
	tx := i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Job{})
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return apperrors.NotFound("вакансия не найдена")
	}
	return nil
}

// Delete удаляет вакансию физически, номер вакансии остается занятым
func (i impl) Delete(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		rec := dbmodels.Job{}
		err := tx.Unscoped().
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&rec).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("вакансия не найдена")
			}
			return err
		}
		tombstone := dbmodels.JobNumberTombstone{
			JobNumber: rec.JobNumber,
			JobID:     rec.ID,
			DeletedAt: time.Now(),
		}
		if err = tx.Create(&tombstone).Error; err != nil {
			return errors.Wrap(err, "ошибка резервирования номера удаляемой вакансии")
		}
		return tx.Unscoped().
			Where("id = ?", id).
			Delete(&dbmodels.Job{}).
			Error
	})
}

func (i impl) Restore(id string) (bool, error) {
	tx := i.db.
		Unscoped().
		Model(&dbmodels.Job{}).
		Where("id = ?", id).
		Where("deleted_at is not null").
		Update("deleted_at", nil)
	if err := tx.Error; err != nil {
		return false, err
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) ListPublished(filter jobapimodels.JobFilter) ([]dbmodels.Job, error) {
	list := []dbmodels.Job{}
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("status = ?", models.JobStatusPublished)
	i.addFilter(tx, filter)
	_, limit := filter.GetPage()
	err := tx.
		Order("posted_date desc").
		Order("job_number desc").
		Limit(limit).
		Offset(filter.GetOffset()).
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка вакансий")
	}
	return list, nil
}

func (i impl) CountPublished(filter jobapimodels.JobFilter) (int64, error) {
	var rowCount int64
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("status = ?", models.JobStatusPublished)
	i.addFilter(tx, filter)
	if err := tx.Count(&rowCount).Error; err != nil {
		return 0, errors.Wrap(err, "ошибка получения общего количества вакансий")
	}
	return rowCount, nil
}

func (i impl) ListSimilar(jobID, specialityID string, limit int) ([]dbmodels.Job, error) {
	list := []dbmodels.Job{}
	err := i.db.
		Model(&dbmodels.Job{}).
		Where("status = ?", models.JobStatusPublished).
		Where("speciality_id = ?", specialityID).
		Where("id <> ?", jobID).
		Order("posted_date desc").
		Order("job_number desc").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения похожих вакансий")
	}
	return list, nil
}

func (i impl) ListByCreator(userID string, offset, limit int) ([]dbmodels.Job, int64, error) {
	list := []dbmodels.Job{}
	var rowCount int64
	tx := i.db.
		Model(&dbmodels.Job{}).
		Where("created_by = ?", userID)
	if err := tx.Count(&rowCount).Error; err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения количества вакансий автора")
	}
	err := tx.
		Order("job_number desc").
		Limit(limit).
		Offset(offset).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения вакансий автора")
	}
	return list, rowCount, nil
}

func (i impl) ListToExpire(now time.Time) ([]dbmodels.Job, error) {
	list := []dbmodels.Job{}
	err := i.db.
		Model(&dbmodels.Job{}).
		Where("status = ?", models.JobStatusPublished).
		Where("expired_date < ?", now).
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения просроченных вакансий")
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter jobapimodels.JobFilter) {
	if filter.Search != "" {
		tx.Where("LOWER(title) like ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.LocationID != "" {
		tx.Where("location_id = ?", filter.LocationID)
	}
	if filter.ExperienceLevel != "" {
		tx.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.ManagementLevel != "" {
		tx.Where("management_level = ?", filter.ManagementLevel)
	}
	if filter.JobType != "" {
		tx.Where("job_type = ?", filter.JobType)
	}
	// salary_to = 0 открытая верхняя граница
	if filter.SalaryFrom > 0 {
		tx.Where("(salary_to = 0 OR salary_to >= ?)", filter.SalaryFrom)
	}
	if filter.SalaryTo > 0 {
		tx.Where("salary_from <= ?", filter.SalaryTo)
	}
	if len(filter.Tags) != 0 {
		tx.Where("tags @> ?", pq.StringArray(filter.Tags))
	}
}
