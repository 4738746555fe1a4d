package referrallinkstore

import (
	pgerrors "jobmarket-backend/lib/utils/pg-errors"
	dbmodels "jobmarket-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	// FindOrCreate возвращает существующую ссылку или создает новую, created=true если создана сейчас
	FindOrCreate(jobID, referrerID string) (rec *dbmodels.ReferralLink, created bool, err error)
	GetByID(id string) (*dbmodels.ReferralLink, error)
	GetByJobAndReferrer(jobID, referrerID string) (*dbmodels.ReferralLink, error)
	ListByReferrer(referrerID string) ([]dbmodels.ReferralLink, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) FindOrCreate(jobID, referrerID string) (*dbmodels.ReferralLink, bool, error) {
	rec, err := i.GetByJobAndReferrer(jobID, referrerID)
	if err != nil {
		return nil, false, err
	}
	if rec != nil {
		return rec, false, nil
	}
	newRec := dbmodels.ReferralLink{
		JobID:      jobID,
		ReferrerID: referrerID,
	}
	err = i.db.Create(&newRec).Error
	if err == nil {
		return &newRec, true, nil
	}
	if !pgerrors.IsUniqueViolation(err) {
		return nil, false, errors.Wrap(err, "ошибка создания реферальной ссылки")
	}
	// ссылку параллельно создал другой запрос
	rec, err = i.GetByJobAndReferrer(jobID, referrerID)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, errors.New("реферальная ссылка не найдена после конфликта вставки")
	}
	return rec, false, nil
}

func (i impl) GetByID(id string) (*dbmodels.ReferralLink, error) {
	rec := dbmodels.ReferralLink{}
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

func (i impl) GetByJobAndReferrer(jobID, referrerID string) (*dbmodels.ReferralLink, error) {
	rec := dbmodels.ReferralLink{}
	err := i.db.
		Where("job_id = ?", jobID).
		Where("referrer_id = ?", referrerID).
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

func (i impl) ListByReferrer(referrerID string) ([]dbmodels.ReferralLink, error) {
	list := []dbmodels.ReferralLink{}
	err := i.db.
		Model(&dbmodels.ReferralLink{}).
		Where("referrer_id = ?", referrerID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения реферальных ссылок")
	}
	return list, nil
}
