package applystore

import (
	apperrors "jobmarket-backend/lib/utils/app-errors"
	pgerrors "jobmarket-backend/lib/utils/pg-errors"
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// Create Conflict если отклик кандидата на вакансию уже есть
	Create(rec dbmodels.JobApply) (*dbmodels.JobApply, error)
	GetByID(id string) (*dbmodels.JobApply, error)
	GetByJobAndTalent(jobID, talentID string) (*dbmodels.JobApply, error)
	ListByJob(jobID string) ([]dbmodels.JobApply, error)
	ListByTalent(talentID string) ([]dbmodels.JobApply, error)
	// UpdateStatus меняет статус, только если текущий статус равен from.
	// При переходе в hired связанная рекомендация завершается в той же транзакции.
	UpdateStatus(id string, from, to models.JobApplyStatus) (updated bool, err error)
	// ExistsByReferralLink есть ли отклик в статусе status, пришедший по реферальной ссылке
	ExistsByReferralLink(linkID string, status models.JobApplyStatus) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.JobApply) (*dbmodels.JobApply, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	err := i.db.
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("кандидат уже откликнулся на вакансию")
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByID(id string) (*dbmodels.JobApply, error) {
	rec := dbmodels.JobApply{}
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

func (i impl) GetByJobAndTalent(jobID, talentID string) (*dbmodels.JobApply, error) {
	rec := dbmodels.JobApply{}
	err := i.db.
		Where("job_id = ?", jobID).
		Where("talent_id = ?", talentID).
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

func (i impl) ListByJob(jobID string) ([]dbmodels.JobApply, error) {
	list := []dbmodels.JobApply{}
	err := i.db.
		Model(&dbmodels.JobApply{}).
		Where("job_id = ?", jobID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения откликов по вакансии")
	}
	return list, nil
}

func (i impl) ListByTalent(talentID string) ([]dbmodels.JobApply, error) {
	list := []dbmodels.JobApply{}
	err := i.db.
		Model(&dbmodels.JobApply{}).
		Where("talent_id = ?", talentID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения откликов кандидата")
	}
	return list, nil
}

func (i impl) UpdateStatus(id string, from, to models.JobApplyStatus) (bool, error) {
	updated := false
	err := i.db.Transaction(func(tx *gorm.DB) error {
		rec := dbmodels.JobApply{}
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Where("status = ?", from).
			First(&rec).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		err = tx.
			Model(&dbmodels.JobApply{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"Status":    to,
				"UpdatedAt": time.Now(),
			}).
			Error
		if err != nil {
			return err
		}
		if to == models.JobApplyStatusHired && rec.JobReferralID != nil {
			err = tx.
				Model(&dbmodels.JobReferral{}).
				Where("id = ?", *rec.JobReferralID).
				Where("status = ?", models.JobReferralStatusPending).
				Update("status", models.JobReferralStatusCompleted).
				Error
			if err != nil {
				return errors.Wrap(err, "ошибка завершения рекомендации")
			}
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

func (i impl) ExistsByReferralLink(linkID string, status models.JobApplyStatus) (bool, error) {
	var count int64
	err := i.db.
		Model(&dbmodels.JobApply{}).
		Where("referral_link_id = ?", linkID).
		Where("status = ?", status).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count != 0, nil
}
