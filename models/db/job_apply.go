package dbmodels

import (
	"jobmarket-backend/models"

	"github.com/pkg/errors"
)

type JobApply struct {
	BaseModel
	JobID          string                `gorm:"type:varchar(36);not null;uniqueIndex:idx_job_apply_job_talent"`
	TalentID       string                `gorm:"type:varchar(36);not null;uniqueIndex:idx_job_apply_job_talent;index"`
	Status         models.JobApplyStatus `gorm:"type:varchar(50)"`
	JobReferralID  *string               `gorm:"type:varchar(36);index"`
	ReferralLinkID *string               `gorm:"type:varchar(36);index"`
	ResumeID       *string               `gorm:"type:varchar(36)"`
	CoverLetter    string
}

func (a JobApply) Validate() error {
	if a.JobID == "" {
		return errors.New("не указана вакансия")
	}
	if a.TalentID == "" {
		return errors.New("не указан кандидат")
	}
	return a.Status.Validate()
}
