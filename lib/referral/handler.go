package referralhandler

import (
	"context"
	"jobmarket-backend/db"
	"jobmarket-backend/lib/events"
	jobhandler "jobmarket-backend/lib/job"
	referrallinkcache "jobmarket-backend/lib/referral/link-cache"
	referrallinkstore "jobmarket-backend/lib/referral/link-store"
	referralstore "jobmarket-backend/lib/referral/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/lib/utils/helpers"
	"jobmarket-backend/models"
	referralapimodels "jobmarket-backend/models/api/referral"
	dbmodels "jobmarket-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// GenerateReferralLink идемпотентна: для пары (вакансия, рекомендатель) всегда одна ссылка
	GenerateReferralLink(ctx context.Context, jobID, referrerID string) (link referralapimodels.LinkView, err error)
	ReferCandidate(jobID, referrerID string, data referralapimodels.ReferralData) (item referralapimodels.ReferralView, err error)
	GetLink(token string) (link referralapimodels.LinkView, err error)
	ListByReferrer(referrerID string) (list []referralapimodels.ReferralView, err error)
	ListLinksByReferrer(referrerID string) (list []referralapimodels.LinkView, err error)
	// ListByJob рекомендации по вакансии, доступны только автору вакансии
	ListByJob(jobID, userID string) (list []referralapimodels.ReferralView, err error)
}

var Instance Provider

func NewHandler(cache referrallinkcache.Provider) {
	Instance = NewProvider(
		jobhandler.Instance,
		referralstore.NewInstance(db.DB),
		referrallinkstore.NewInstance(db.DB),
		cache,
		events.Instance,
	)
}

func NewProvider(jobs jobhandler.Provider, store referralstore.Provider, linkStore referrallinkstore.Provider,
	cache referrallinkcache.Provider, publisher events.Publisher) Provider {
	if cache == nil {
		cache = referrallinkcache.NewNoop()
	}
	return impl{
		jobs:      jobs,
		store:     store,
		linkStore: linkStore,
		cache:     cache,
		publisher: publisher,
	}
}

type impl struct {
	jobs      jobhandler.Provider
	store     referralstore.Provider
	linkStore referrallinkstore.Provider
	cache     referrallinkcache.Provider
	publisher events.Publisher
}

func (i impl) getLogger(jobID, referrerID string) *log.Entry {
	logger := log.WithField("module", "referral")
	if jobID != "" {
		logger = logger.WithField("job_id", jobID)
	}
	if referrerID != "" {
		logger = logger.WithField("referrer_id", referrerID)
	}
	return logger
}

func (i impl) GenerateReferralLink(ctx context.Context, jobID, referrerID string) (referralapimodels.LinkView, error) {
	logger := i.getLogger(jobID, referrerID)
	if referrerID == "" {
		return referralapimodels.LinkView{}, apperrors.Unauthorized("не указан рекомендатель")
	}
	_, err := i.jobs.RequirePublished(jobID)
	if err != nil {
		return referralapimodels.LinkView{}, err
	}
	token, found, err := i.cache.Get(ctx, jobID, referrerID)
	if err != nil {
		logger.WithError(err).Warn("ошибка чтения кэша реферальных ссылок")
	}
	if found {
		return referralapimodels.LinkView{
			Token:      token,
			JobID:      jobID,
			ReferrerID: referrerID,
		}, nil
	}
	rec, created, err := i.linkStore.FindOrCreate(jobID, referrerID)
	if err != nil {
		return referralapimodels.LinkView{}, errors.Wrap(err, "ошибка получения реферальной ссылки")
	}
	if created {
		logger.WithField("token", rec.ID).Info("создана реферальная ссылка")
	}
	if err = i.cache.Set(ctx, jobID, referrerID, rec.ID); err != nil {
		logger.WithError(err).Warn("ошибка записи кэша реферальных ссылок")
	}
	return referralapimodels.LinkConvert(*rec), nil
}

func (i impl) ReferCandidate(jobID, referrerID string, data referralapimodels.ReferralData) (referralapimodels.ReferralView, error) {
	if referrerID == "" {
		return referralapimodels.ReferralView{}, apperrors.Unauthorized("не указан рекомендатель")
	}
	_, err := i.jobs.RequirePublished(jobID)
	if err != nil {
		return referralapimodels.ReferralView{}, err
	}
	if err = data.Validate(); err != nil {
		return referralapimodels.ReferralView{}, apperrors.Validation(err)
	}
	rec := dbmodels.JobReferral{
		JobID:          jobID,
		ReferrerID:     referrerID,
		CandidateName:  data.CandidateName,
		CandidateEmail: data.CandidateEmail,
		CandidatePhone: data.CandidatePhone,
		Recommendation: data.Recommendation,
		Status:         models.JobReferralStatusPending,
		ReferralSignature: dbmodels.ReferralSignature{
			SignerAddress: data.Signature.NormalizedSignerAddress(),
			Signature:     data.Signature.Signature,
			SignedMessage: data.Signature.SignedMessage,
			ChainID:       data.Signature.ChainID,
		},
	}
	created, err := i.store.Create(rec)
	if err != nil {
		return referralapimodels.ReferralView{}, errors.Wrap(err, "ошибка создания рекомендации")
	}
	i.getLogger(jobID, referrerID).
		WithField("referral_id", created.ID).
		Info("создана рекомендация кандидата")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeReferralCreated,
		EntityID: created.ID,
		JobID:    jobID,
		ActorID:  referrerID,
		Status:   string(created.Status),
	})
	return referralapimodels.ReferralConvert(*created), nil
}

func (i impl) GetLink(token string) (referralapimodels.LinkView, error) {
	if !helpers.IsUUID(token) {
		return referralapimodels.LinkView{}, apperrors.NotFound("реферальная ссылка не найдена")
	}
	rec, err := i.linkStore.GetByID(token)
	if err != nil {
		return referralapimodels.LinkView{}, errors.Wrap(err, "ошибка получения реферальной ссылки")
	}
	if rec == nil {
		return referralapimodels.LinkView{}, apperrors.NotFound("реферальная ссылка не найдена")
	}
	return referralapimodels.LinkConvert(*rec), nil
}

func (i impl) ListByReferrer(referrerID string) ([]referralapimodels.ReferralView, error) {
	list, err := i.store.ListByReferrer(referrerID)
	if err != nil {
		return nil, err
	}
	return referralapimodels.ReferralListConvert(list), nil
}

func (i impl) ListLinksByReferrer(referrerID string) ([]referralapimodels.LinkView, error) {
	list, err := i.linkStore.ListByReferrer(referrerID)
	if err != nil {
		return nil, err
	}
	result := make([]referralapimodels.LinkView, 0, len(list))
	for _, rec := range list {
		result = append(result, referralapimodels.LinkConvert(rec))
	}
	return result, nil
}

func (i impl) ListByJob(jobID, userID string) ([]referralapimodels.ReferralView, error) {
	job, err := i.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwner(userID) {
		return nil, apperrors.Unauthorized("рекомендации доступны только автору вакансии")
	}
	list, err := i.store.ListByJob(jobID)
	if err != nil {
		return nil, err
	}
	return referralapimodels.ReferralListConvert(list), nil
}
