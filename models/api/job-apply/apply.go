package applyapimodels

import (
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"time"
)

type ApplyData struct {
	ResumeID      string `json:"resume_id"`
	CoverLetter   string `json:"cover_letter"`
	JobReferralID string `json:"job_referral_id"` // рекомендация, по которой откликается кандидат
	ReferralToken string `json:"referral_token"`  // токен реферальной ссылки
}

type ApplyView struct {
	ID             string                `json:"id"`
	JobID          string                `json:"job_id"`
	TalentID       string                `json:"talent_id"`
	Status         models.JobApplyStatus `json:"status"`
	JobReferralID  string                `json:"job_referral_id,omitempty"`
	ReferralLinkID string                `json:"referral_link_id,omitempty"`
	ResumeID       string                `json:"resume_id,omitempty"`
	CoverLetter    string                `json:"cover_letter,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type StatusChange struct {
	Status models.JobApplyStatus `json:"status"`
}

func (s StatusChange) Validate() error {
	return s.Status.Validate()
}

func ApplyConvert(rec dbmodels.JobApply) ApplyView {
	result := ApplyView{
		ID:          rec.ID,
		JobID:       rec.JobID,
		TalentID:    rec.TalentID,
		Status:      rec.Status,
		CoverLetter: rec.CoverLetter,
		CreatedAt:   rec.CreatedAt,
	}
	if rec.JobReferralID != nil {
		result.JobReferralID = *rec.JobReferralID
	}
	if rec.ReferralLinkID != nil {
		result.ReferralLinkID = *rec.ReferralLinkID
	}
	if rec.ResumeID != nil {
		result.ResumeID = *rec.ResumeID
	}
	return result
}

func ApplyListConvert(list []dbmodels.JobApply) []ApplyView {
	result := make([]ApplyView, 0, len(list))
	for _, rec := range list {
		result = append(result, ApplyConvert(rec))
	}
	return result
}
