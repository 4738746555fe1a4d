package applyhandler

import (
	"context"
	"jobmarket-backend/db"
	"jobmarket-backend/lib/events"
	jobhandler "jobmarket-backend/lib/job"
	applystore "jobmarket-backend/lib/job-apply/store"
	referrallinkstore "jobmarket-backend/lib/referral/link-store"
	referralstore "jobmarket-backend/lib/referral/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/lib/utils/helpers"
	"jobmarket-backend/models"
	applyapimodels "jobmarket-backend/models/api/job-apply"
	dbmodels "jobmarket-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Apply(jobID, talentID string, data applyapimodels.ApplyData) (item applyapimodels.ApplyView, err error)
	FindByJobAndTalent(jobID, talentID string) (item applyapimodels.ApplyView, err error)
	// FindByJob отклики на вакансию, доступны только автору вакансии
	FindByJob(jobID, userID string) (list []applyapimodels.ApplyView, err error)
	FindByTalent(talentID string) (list []applyapimodels.ApplyView, err error)
	// UpdateStatus продвигает отклик по воронке, доступно только автору вакансии
	UpdateStatus(id, userID string, status models.JobApplyStatus) error
}

var Instance Provider

func NewHandler() {
	Instance = NewProvider(
		jobhandler.Instance,
		applystore.NewInstance(db.DB),
		referralstore.NewInstance(db.DB),
		referrallinkstore.NewInstance(db.DB),
		events.Instance,
	)
}

func NewProvider(jobs jobhandler.Provider, store applystore.Provider, referralStore referralstore.Provider,
	linkStore referrallinkstore.Provider, publisher events.Publisher) Provider {
	return impl{
		jobs:          jobs,
		store:         store,
		referralStore: referralStore,
		linkStore:     linkStore,
		publisher:     publisher,
	}
}

type impl struct {
	jobs          jobhandler.Provider
	store         applystore.Provider
	referralStore referralstore.Provider
	linkStore     referrallinkstore.Provider
	publisher     events.Publisher
}

func (i impl) getLogger(jobID, talentID string) *log.Entry {
	logger := log.WithField("module", "job_apply")
	if jobID != "" {
		logger = logger.WithField("job_id", jobID)
	}
	if talentID != "" {
		logger = logger.WithField("talent_id", talentID)
	}
	return logger
}

func (i impl) Apply(jobID, talentID string, data applyapimodels.ApplyData) (applyapimodels.ApplyView, error) {
	logger := i.getLogger(jobID, talentID)
	if talentID == "" {
		return applyapimodels.ApplyView{}, apperrors.Unauthorized("откликнуться может только кандидат")
	}
	_, err := i.jobs.RequirePublished(jobID)
	if err != nil {
		return applyapimodels.ApplyView{}, err
	}
	existed, err := i.store.GetByJobAndTalent(jobID, talentID)
	if err != nil {
		return applyapimodels.ApplyView{}, errors.Wrap(err, "ошибка поиска отклика")
	}
	if existed != nil {
		return applyapimodels.ApplyView{}, apperrors.Conflict("кандидат уже откликнулся на вакансию")
	}
	rec := dbmodels.JobApply{
		JobID:       jobID,
		TalentID:    talentID,
		Status:      models.JobApplyStatusNew,
		ResumeID:    helpers.Optional(data.ResumeID),
		CoverLetter: data.CoverLetter,
	}
	if data.ReferralToken != "" {
		linkID, err := i.checkReferralLink(jobID, talentID, data.ReferralToken)
		if err != nil {
			return applyapimodels.ApplyView{}, err
		}
		rec.ReferralLinkID = &linkID
	}
	if data.JobReferralID != "" {
		referralID, err := i.checkReferral(jobID, data.JobReferralID)
		if err != nil {
			return applyapimodels.ApplyView{}, err
		}
		rec.JobReferralID = &referralID
	}
	created, err := i.store.Create(rec)
	if err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return applyapimodels.ApplyView{}, err
		}
		return applyapimodels.ApplyView{}, errors.Wrap(err, "ошибка создания отклика")
	}
	logger.WithField("apply_id", created.ID).Info("создан отклик на вакансию")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeApplicationCreated,
		EntityID: created.ID,
		JobID:    jobID,
		ActorID:  talentID,
		Status:   string(created.Status),
	})
	return applyapimodels.ApplyConvert(*created), nil
}

func (i impl) checkReferralLink(jobID, talentID, token string) (string, error) {
	if !helpers.IsUUID(token) {
		return "", apperrors.BadRequest("некорректная реферальная ссылка")
	}
	link, err := i.linkStore.GetByID(token)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения реферальной ссылки")
	}
	if link == nil || link.JobID != jobID {
		return "", apperrors.BadRequest("реферальная ссылка не относится к вакансии")
	}
	if link.ReferrerID == talentID {
		return "", apperrors.BadRequest("нельзя откликнуться по собственной реферальной ссылке")
	}
	return link.ID, nil
}

func (i impl) checkReferral(jobID, referralID string) (string, error) {
	if !helpers.IsUUID(referralID) {
		return "", apperrors.BadRequest("некорректный идентификатор рекомендации")
	}
	referral, err := i.referralStore.GetByID(referralID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения рекомендации")
	}
	if referral == nil || referral.JobID != jobID {
		return "", apperrors.BadRequest("рекомендация не относится к вакансии")
	}
	return referral.ID, nil
}

func (i impl) FindByJobAndTalent(jobID, talentID string) (applyapimodels.ApplyView, error) {
	rec, err := i.store.GetByJobAndTalent(jobID, talentID)
	if err != nil {
		return applyapimodels.ApplyView{}, errors.Wrap(err, "ошибка поиска отклика")
	}
	if rec == nil {
		return applyapimodels.ApplyView{}, apperrors.NotFound("отклик не найден")
	}
	return applyapimodels.ApplyConvert(*rec), nil
}

func (i impl) FindByJob(jobID, userID string) ([]applyapimodels.ApplyView, error) {
	job, err := i.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwner(userID) {
		return nil, apperrors.Unauthorized("отклики доступны только автору вакансии")
	}
	list, err := i.store.ListByJob(jobID)
	if err != nil {
		return nil, err
	}
	return applyapimodels.ApplyListConvert(list), nil
}

func (i impl) FindByTalent(talentID string) ([]applyapimodels.ApplyView, error) {
	list, err := i.store.ListByTalent(talentID)
	if err != nil {
		return nil, err
	}
	return applyapimodels.ApplyListConvert(list), nil
}

func (i impl) UpdateStatus(id, userID string, status models.JobApplyStatus) error {
	if err := status.Validate(); err != nil {
		return apperrors.Validation(err)
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения отклика")
	}
	if rec == nil {
		return apperrors.NotFound("отклик не найден")
	}
	job, err := i.jobs.GetJob(rec.JobID)
	if err != nil {
		return err
	}
	if !job.IsOwner(userID) {
		return apperrors.Unauthorized("менять статус отклика может только автор вакансии")
	}
	if !rec.Status.CanMoveTo(status) {
		return apperrors.InvalidState("переход отклика из статуса %v в %v запрещен", rec.Status, status)
	}
	updated, err := i.store.UpdateStatus(id, rec.Status, status)
	if err != nil {
		return errors.Wrap(err, "ошибка изменения статуса отклика")
	}
	if !updated {
		return apperrors.InvalidState("статус отклика был изменен параллельно")
	}
	i.getLogger(rec.JobID, rec.TalentID).
		WithField("apply_id", id).
		WithField("status", status).
		Info("изменен статус отклика")
	return nil
}
