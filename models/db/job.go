package dbmodels

import (
	"jobmarket-backend/models"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Job struct {
	BaseModel
	JobNumber       int64                  `gorm:"uniqueIndex;not null;<-:create"`
	Title           string                 `gorm:"type:varchar(255)"`
	Description     string
	Status          models.JobStatus       `gorm:"type:varchar(50);index"`
	PostedDate      time.Time
	ExpiredDate     time.Time              `gorm:"index"`
	CreatedBy       string                 `gorm:"type:varchar(36);index"`
	UpdatedBy       string                 `gorm:"type:varchar(36)"`
	OrganizationID  *string                `gorm:"type:varchar(36);index"`
	SpecialityID    *string                `gorm:"type:varchar(36);index"`
	LocationID      *string                `gorm:"type:varchar(36)"`
	ExperienceLevel models.ExperienceLevel `gorm:"type:varchar(50)"`
	ManagementLevel models.ManagementLevel `gorm:"type:varchar(50)"`
	JobType         models.JobType         `gorm:"type:varchar(50)"`
	Salary
	Bounty
	Tags      pq.StringArray `gorm:"type:text[]"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Salary struct {
	From int64 `gorm:"column:salary_from"`
	To   int64 `gorm:"column:salary_to"`
}

// Bounty вознаграждение за рекомендацию/закрытие вакансии, сумма в центах
type Bounty struct {
	Amount   int64  `gorm:"column:bounty_amount"`
	Currency string `gorm:"column:bounty_currency;type:varchar(10)"`
}

func (j Job) Validate() error {
	if j.Title == "" {
		return errors.New("не указано название вакансии")
	}
	if j.CreatedBy == "" {
		return errors.New("не указан автор вакансии")
	}
	if j.JobNumber <= 0 {
		return errors.New("не присвоен номер вакансии")
	}
	return nil
}

func (j Job) IsOwner(userID string) bool {
	return userID != "" && j.CreatedBy == userID
}

func (j Job) IsPublished() bool {
	return j.Status == models.JobStatusPublished
}

// JobNumberTombstone номер жестко удаленной вакансии, не выдается повторно
type JobNumberTombstone struct {
	JobNumber int64  `gorm:"primaryKey;autoIncrement:false"`
	JobID     string `gorm:"type:varchar(36)"`
	DeletedAt time.Time
}
