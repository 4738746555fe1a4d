package models

import "github.com/pkg/errors"

type JobApplyStatus string

const (
	JobApplyStatusNew          JobApplyStatus = "new"
	JobApplyStatusEmailSent    JobApplyStatus = "email_sent"
	JobApplyStatusUnderReview  JobApplyStatus = "under_review"
	JobApplyStatusInterviewing JobApplyStatus = "interviewing"
	JobApplyStatusOffering     JobApplyStatus = "offering"
	JobApplyStatusHired        JobApplyStatus = "hired"
	JobApplyStatusRejected     JobApplyStatus = "rejected"
)

// порядок прохождения отклика, статус может двигаться только вперед
var jobApplyStatusOrder = map[JobApplyStatus]int{
	JobApplyStatusNew:          0,
	JobApplyStatusEmailSent:    1,
	JobApplyStatusUnderReview:  2,
	JobApplyStatusInterviewing: 3,
	JobApplyStatusOffering:     4,
	JobApplyStatusHired:        5,
	JobApplyStatusRejected:     5,
}

func (s JobApplyStatus) Validate() error {
	if _, exist := jobApplyStatusOrder[s]; !exist {
		return errors.Errorf("неизвестный статус отклика: %v", s)
	}
	return nil
}

func (s JobApplyStatus) IsTerminal() bool {
	return s == JobApplyStatusHired || s == JobApplyStatusRejected
}

// CanMoveTo проверка перехода статуса отклика
func (s JobApplyStatus) CanMoveTo(newStatus JobApplyStatus) bool {
	if s.IsTerminal() {
		return false
	}
	current, ok := jobApplyStatusOrder[s]
	if !ok {
		return false
	}
	next, ok := jobApplyStatusOrder[newStatus]
	if !ok {
		return false
	}
	if newStatus == JobApplyStatusRejected {
		return true
	}
	return next > current
}

type JobReferralStatus string

const (
	JobReferralStatusPending   JobReferralStatus = "pending"
	JobReferralStatusCompleted JobReferralStatus = "completed"
)

func (s JobReferralStatus) Validate() error {
	if s != JobReferralStatusPending && s != JobReferralStatusCompleted {
		return errors.Errorf("неизвестный статус рекомендации: %v", s)
	}
	return nil
}

func (s JobReferralStatus) CanMoveTo(newStatus JobReferralStatus) bool {
	return s == JobReferralStatusPending && newStatus == JobReferralStatusCompleted
}
