package models

import "github.com/pkg/errors"

type JobStatus string

const (
	JobStatusPendingToReview JobStatus = "pending_to_review"
	JobStatusPublished       JobStatus = "published"
	JobStatusClosed          JobStatus = "closed"
	JobStatusExpired         JobStatus = "expired"
	JobStatusHired           JobStatus = "hired"
	JobStatusCancelled       JobStatus = "cancelled"
)

// JobFinishedStatuses статусы, после которых вакансию нельзя закрыть повторно,
// откликнуться на неё или порекомендовать кандидата
var JobFinishedStatuses = []JobStatus{
	JobStatusHired,
	JobStatusClosed,
	JobStatusExpired,
	JobStatusCancelled,
}

var jobStatusHumanName = map[JobStatus]string{
	JobStatusPendingToReview: "На проверке",
	JobStatusPublished:       "Опубликована",
	JobStatusClosed:          "Закрыта",
	JobStatusExpired:         "Истек срок",
	JobStatusHired:           "Кандидат нанят",
	JobStatusCancelled:       "Отменена",
}

func (s JobStatus) ToHuman() string {
	if human, exist := jobStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s JobStatus) Validate() error {
	if _, exist := jobStatusHumanName[s]; !exist {
		return errors.Errorf("неизвестный статус вакансии: %v", s)
	}
	return nil
}

func (s JobStatus) IsFinished() bool {
	for _, status := range JobFinishedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidateCloseType проверяет, что статус закрытия относится к завершающим
func (s JobStatus) ValidateCloseType() error {
	if !s.IsFinished() {
		return errors.Errorf("статус %v не является статусом закрытия вакансии", s)
	}
	return nil
}

type ExperienceLevel string

const (
	ExperienceLevelIntern ExperienceLevel = "intern"
	ExperienceLevelJunior ExperienceLevel = "junior"
	ExperienceLevelMiddle ExperienceLevel = "middle"
	ExperienceLevelSenior ExperienceLevel = "senior"
	ExperienceLevelLead   ExperienceLevel = "lead"
)

func (e ExperienceLevel) Validate() error {
	switch e {
	case "", ExperienceLevelIntern, ExperienceLevelJunior, ExperienceLevelMiddle, ExperienceLevelSenior, ExperienceLevelLead:
		return nil
	}
	return errors.Errorf("неизвестный уровень опыта: %v", e)
}

type ManagementLevel string

const (
	ManagementLevelNone      ManagementLevel = "individual_contributor"
	ManagementLevelTeamLead  ManagementLevel = "team_lead"
	ManagementLevelManager   ManagementLevel = "manager"
	ManagementLevelDirector  ManagementLevel = "director"
	ManagementLevelExecutive ManagementLevel = "executive"
)

func (m ManagementLevel) Validate() error {
	switch m {
	case "", ManagementLevelNone, ManagementLevelTeamLead, ManagementLevelManager, ManagementLevelDirector, ManagementLevelExecutive:
		return nil
	}
	return errors.Errorf("неизвестный уровень управления: %v", m)
}

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

func (j JobType) Validate() error {
	switch j {
	case "", JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return nil
	}
	return errors.Errorf("неизвестный тип занятости: %v", j)
}
