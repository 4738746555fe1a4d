package dbmodels

import (
	"jobmarket-backend/models"

	"github.com/pkg/errors"
)

type JobReferral struct {
	BaseModel
	JobID          string                   `gorm:"type:varchar(36);not null;index"`
	ReferrerID     string                   `gorm:"type:varchar(36);not null;index"`
	CandidateName  string                   `gorm:"type:varchar(255)"`
	CandidateEmail string                   `gorm:"type:varchar(255)"`
	CandidatePhone string                   `gorm:"type:varchar(50)"`
	Recommendation string
	Status         models.JobReferralStatus `gorm:"type:varchar(50)"`
	ReferralSignature
}

// ReferralSignature подпись рекомендации для web3 аттестации, хранится как есть
type ReferralSignature struct {
	SignerAddress string `gorm:"type:varchar(42)"`
	Signature     string
	SignedMessage string
	ChainID       int64
}

func (r JobReferral) Validate() error {
	if r.JobID == "" {
		return errors.New("не указана вакансия")
	}
	if r.ReferrerID == "" {
		return errors.New("не указан автор рекомендации")
	}
	return r.Status.Validate()
}

// ReferralLink ссылка рекомендателя на вакансию, ID записи является токеном ссылки
type ReferralLink struct {
	BaseModel
	JobID      string `gorm:"type:varchar(36);not null;uniqueIndex:idx_referral_link_job_referrer"`
	ReferrerID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_referral_link_job_referrer;index"`
}
