package referralstore

import (
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.JobReferral) (*dbmodels.JobReferral, error)
	GetByID(id string) (*dbmodels.JobReferral, error)
	ListByReferrer(referrerID string) ([]dbmodels.JobReferral, error)
	ListByJob(jobID string) ([]dbmodels.JobReferral, error)
	// ExistsCompleted есть ли у рекомендателя завершенная (приведшая к найму) рекомендация на вакансию
	ExistsCompleted(jobID, referrerID string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.JobReferral) (*dbmodels.JobReferral, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	err := i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.JobReferral, error) {
	rec := dbmodels.JobReferral{}
	err := i.db.
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

func (i impl) ListByReferrer(referrerID string) ([]dbmodels.JobReferral, error) {
	list := []dbmodels.JobReferral{}
	err := i.db.
		Model(&dbmodels.JobReferral{}).
		Where("referrer_id = ?", referrerID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения рекомендаций")
	}
	return list, nil
}

func (i impl) ListByJob(jobID string) ([]dbmodels.JobReferral, error) {
	list := []dbmodels.JobReferral{}
	err := i.db.
		Model(&dbmodels.JobReferral{}).
		Where("job_id = ?", jobID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения рекомендаций по вакансии")
	}
	return list, nil
}

func (i impl) ExistsCompleted(jobID, referrerID string) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.JobReferral{}).
		Where("job_id = ?", jobID).
		Where("referrer_id = ?", referrerID).
		Where("status = ?", models.JobReferralStatusCompleted).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count != 0, nil
}
