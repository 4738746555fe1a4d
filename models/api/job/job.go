package jobapimodels

import (
	"jobmarket-backend/lib/utils/helpers"
	"jobmarket-backend/models"
	apimodels "jobmarket-backend/models/api"
	dbmodels "jobmarket-backend/models/db"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type JobData struct {
	Title           string                 `json:"title"`            // название вакансии
	Description     string                 `json:"description"`      // описание
	OrganizationID  string                 `json:"organization_id"`  // ид организации
	SpecialityID    string                 `json:"speciality_id"`    // ид специализации
	LocationID      string                 `json:"location_id"`      // ид локации
	ExperienceLevel models.ExperienceLevel `json:"experience_level"` // требуемый опыт
	ManagementLevel models.ManagementLevel `json:"management_level"` // уровень управления
	JobType         models.JobType         `json:"job_type"`         // тип занятости
	Salary          Salary                 `json:"salary"`           // вилка зп
	Bounty          Bounty                 `json:"bounty"`           // вознаграждение за рекомендацию
	Tags            []string               `json:"tags"`             // навыки/теги
}

type Salary struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type Bounty struct {
	Amount   int64  `json:"amount"`   // в центах
	Currency string `json:"currency"` // код валюты
}

func (j JobData) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("не указано название вакансии")
	}
	if j.Salary.From < 0 || j.Salary.To < 0 {
		return errors.New("зарплата не может быть отрицательной")
	}
	if j.Salary.To != 0 && j.Salary.From > j.Salary.To {
		return errors.New("зарплата 'от' больше зарплаты 'до'")
	}
	if j.Bounty.Amount < 0 {
		return errors.New("вознаграждение не может быть отрицательным")
	}
	if j.Bounty.Amount > 0 && j.Bounty.Currency == "" {
		return errors.New("не указана валюта вознаграждения")
	}
	if err := j.ExperienceLevel.Validate(); err != nil {
		return err
	}
	if err := j.ManagementLevel.Validate(); err != nil {
		return err
	}
	if err := j.JobType.Validate(); err != nil {
		return err
	}
	return nil
}

// ToUpdateMap поля вакансии, доступные для изменения автором
func (j JobData) ToUpdateMap() map[string]interface{} {
	return map[string]interface{}{
		"Title":           j.Title,
		"Description":     j.Description,
		"OrganizationID":  helpers.Optional(j.OrganizationID),
		"SpecialityID":    helpers.Optional(j.SpecialityID),
		"LocationID":      helpers.Optional(j.LocationID),
		"ExperienceLevel": j.ExperienceLevel,
		"ManagementLevel": j.ManagementLevel,
		"JobType":         j.JobType,
		"salary_from":     j.Salary.From,
		"salary_to":       j.Salary.To,
		"bounty_amount":   j.Bounty.Amount,
		"bounty_currency": j.Bounty.Currency,
		"Tags":            pq.StringArray(j.Tags),
	}
}

type CloseRequest struct {
	CloseType models.JobStatus `json:"close_type"` // closed/hired/expired/cancelled
}

func (c CloseRequest) Validate() error {
	if c.CloseType == "" {
		return errors.New("не указан статус закрытия")
	}
	return c.CloseType.ValidateCloseType()
}

type JobView struct {
	JobData
	ID          string           `json:"id"`
	JobNumber   int64            `json:"job_number"`
	Status      models.JobStatus `json:"status"`
	StatusName  string           `json:"status_name"`
	PostedDate  time.Time        `json:"posted_date"`
	ExpiredDate time.Time        `json:"expired_date"`
	CreatedBy   string           `json:"created_by"`
	Deleted     bool             `json:"deleted,omitempty"`
}

func JobConvert(rec dbmodels.Job) JobView {
	return JobView{
		JobData: JobData{
			Title:           rec.Title,
			Description:     rec.Description,
			OrganizationID:  helpers.Deref(rec.OrganizationID),
			SpecialityID:    helpers.Deref(rec.SpecialityID),
			LocationID:      helpers.Deref(rec.LocationID),
			ExperienceLevel: rec.ExperienceLevel,
			ManagementLevel: rec.ManagementLevel,
			JobType:         rec.JobType,
			Salary: Salary{
				From: rec.Salary.From,
				To:   rec.Salary.To,
			},
			Bounty: Bounty{
				Amount:   rec.Bounty.Amount,
				Currency: rec.Bounty.Currency,
			},
			Tags: rec.Tags,
		},
		ID:          rec.ID,
		JobNumber:   rec.JobNumber,
		Status:      rec.Status,
		StatusName:  rec.Status.ToHuman(),
		PostedDate:  rec.PostedDate,
		ExpiredDate: rec.ExpiredDate,
		CreatedBy:   rec.CreatedBy,
		Deleted:     rec.DeletedAt.Valid,
	}
}

// JobFilter фильтр опубликованных вакансий, условия объединяются через AND
type JobFilter struct {
	apimodels.Pagination
	Search          string                 `json:"search"`
	LocationID      string                 `json:"location_id"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level"`
	ManagementLevel models.ManagementLevel `json:"management_level"`
	JobType         models.JobType         `json:"job_type"`
	SalaryFrom      int64                  `json:"salary_from"` // вилка вакансии должна пересекаться с [salary_from, salary_to]
	SalaryTo        int64                  `json:"salary_to"`
	Tags            []string               `json:"tags"` // вакансия должна содержать все теги
}

func (f JobFilter) Validate() error {
	if err := f.Pagination.Validate(); err != nil {
		return err
	}
	if f.SalaryFrom < 0 || f.SalaryTo < 0 {
		return errors.New("зарплата не может быть отрицательной")
	}
	if f.SalaryTo != 0 && f.SalaryFrom > f.SalaryTo {
		return errors.New("зарплата 'от' больше зарплаты 'до'")
	}
	if err := f.ExperienceLevel.Validate(); err != nil {
		return err
	}
	if err := f.ManagementLevel.Validate(); err != nil {
		return err
	}
	return f.JobType.Validate()
}
