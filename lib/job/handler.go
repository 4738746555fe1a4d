package jobhandler

import (
	"context"
	"jobmarket-backend/config"
	"jobmarket-backend/db"
	"jobmarket-backend/lib/events"
	jobstore "jobmarket-backend/lib/job/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/lib/utils/helpers"
	"jobmarket-backend/models"
	apimodels "jobmarket-backend/models/api"
	jobapimodels "jobmarket-backend/models/api/job"
	dbmodels "jobmarket-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultLifetime = 90 * 24 * time.Hour

type Provider interface {
	Create(userID string, data jobapimodels.JobData) (item jobapimodels.JobView, err error)
	GetByID(id string) (item jobapimodels.JobView, err error)
	// GetJob вакансия для других модулей, NotFound если ее нет
	GetJob(id string) (rec *dbmodels.Job, err error)
	// RequirePublished NotFound если вакансии нет или она не опубликована
	RequirePublished(id string) (rec *dbmodels.Job, err error)
	Update(id, userID string, data jobapimodels.JobData) error
	Publish(id, userID string) error
	Close(id, userID string, closeType models.JobStatus) error
	Delete(id, userID string) error
	SoftDelete(id, userID string) error
	Restore(id string) error
	FindPublished(filter jobapimodels.JobFilter) (list []jobapimodels.JobView, rowCount int64, err error)
	FindSimilar(id string, limit int) (list []jobapimodels.JobView, err error)
	ListByCreator(userID string, pagination apimodels.Pagination) (list []jobapimodels.JobView, rowCount int64, err error)
	// ExpirePublished переводит просроченные опубликованные вакансии в expired
	ExpirePublished(now time.Time) (expired int, err error)
}

var Instance Provider

func NewHandler() {
	Instance = NewProvider(jobstore.NewInstance(db.DB), events.Instance)
}

func NewProvider(store jobstore.Provider, publisher events.Publisher) Provider {
	return impl{
		store:     store,
		publisher: publisher,
		lifetime:  lifetime(),
		now:       time.Now,
	}
}

func lifetime() time.Duration {
	if config.Conf != nil && config.Conf.Job.LifetimeDays > 0 {
		return time.Duration(config.Conf.Job.LifetimeDays) * 24 * time.Hour
	}
	return defaultLifetime
}

type impl struct {
	store     jobstore.Provider
	publisher events.Publisher
	lifetime  time.Duration
	now       func() time.Time
}

func (i impl) getLogger(jobID, userID string) *log.Entry {
	logger := log.WithField("module", "job")
	if jobID != "" {
		logger = logger.WithField("job_id", jobID)
	}
	if userID != "" {
		logger = logger.WithField("user_id", userID)
	}
	return logger
}

func (i impl) Create(userID string, data jobapimodels.JobData) (jobapimodels.JobView, error) {
	if userID == "" {
		return jobapimodels.JobView{}, apperrors.Unauthorized("не указан автор вакансии")
	}
	if err := data.Validate(); err != nil {
		return jobapimodels.JobView{}, apperrors.Validation(err)
	}
	now := i.now()
	rec := dbmodels.Job{
		Title:           data.Title,
		Description:     data.Description,
		Status:          models.JobStatusPendingToReview,
		PostedDate:      now,
		ExpiredDate:     now.Add(i.lifetime),
		CreatedBy:       userID,
		UpdatedBy:       userID,
		OrganizationID:  helpers.Optional(data.OrganizationID),
		SpecialityID:    helpers.Optional(data.SpecialityID),
		LocationID:      helpers.Optional(data.LocationID),
		ExperienceLevel: data.ExperienceLevel,
		ManagementLevel: data.ManagementLevel,
		JobType:         data.JobType,
		Salary: dbmodels.Salary{
			From: data.Salary.From,
			To:   data.Salary.To,
		},
		Bounty: dbmodels.Bounty{
			Amount:   data.Bounty.Amount,
			Currency: data.Bounty.Currency,
		},
		Tags: data.Tags,
	}
	created, err := i.store.Create(rec)
	if err != nil {
		return jobapimodels.JobView{}, errors.Wrap(err, "ошибка создания вакансии")
	}
	i.getLogger(created.ID, userID).
		WithField("job_number", created.JobNumber).
		Info("создана вакансия")
	return jobapimodels.JobConvert(*created), nil
}

func (i impl) GetByID(id string) (jobapimodels.JobView, error) {
	rec, err := i.GetJob(id)
	if err != nil {
		return jobapimodels.JobView{}, err
	}
	return jobapimodels.JobConvert(*rec), nil
}

func (i impl) GetJob(id string) (*dbmodels.Job, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения вакансии")
	}
	if rec == nil {
		return nil, apperrors.NotFound("вакансия не найдена")
	}
	return rec, nil
}

func (i impl) RequirePublished(id string) (*dbmodels.Job, error) {
	rec, err := i.GetJob(id)
	if err != nil {
		return nil, err
	}
	if !rec.IsPublished() {
		return nil, apperrors.NotFound("вакансия не опубликована")
	}
	return rec, nil
}

// getOwned вакансия, которую может изменять только ее автор
func (i impl) getOwned(id, userID string) (*dbmodels.Job, error) {
	rec, err := i.GetJob(id)
	if err != nil {
		return nil, err
	}
	if !rec.IsOwner(userID) {
		return nil, apperrors.Unauthorized("изменять вакансию может только ее автор")
	}
	return rec, nil
}

func (i impl) Update(id, userID string, data jobapimodels.JobData) error {
	_, err := i.getOwned(id, userID)
	if err != nil {
		return err
	}
	if err = data.Validate(); err != nil {
		return apperrors.Validation(err)
	}
	updMap := data.ToUpdateMap()
	updMap["UpdatedBy"] = userID
	err = i.store.Update(id, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка изменения вакансии")
	}
	return nil
}

func (i impl) Publish(id, userID string) error {
	_, err := i.getOwned(id, userID)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"Status":    models.JobStatusPublished,
		"UpdatedBy": userID,
	}
	updated, err := i.store.UpdateIfStatusIn(id, []models.JobStatus{models.JobStatusPendingToReview}, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка публикации вакансии")
	}
	if !updated {
		return apperrors.InvalidState("опубликовать можно только вакансию на проверке")
	}
	i.getLogger(id, userID).Info("вакансия опубликована")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeJobPublished,
		EntityID: id,
		JobID:    id,
		ActorID:  userID,
		Status:   string(models.JobStatusPublished),
	})
	return nil
}

func (i impl) Close(id, userID string, closeType models.JobStatus) error {
	rec, err := i.getOwned(id, userID)
	if err != nil {
		return err
	}
	if err = closeType.ValidateCloseType(); err != nil {
		return apperrors.Validation(err)
	}
	if rec.Status.IsFinished() {
		return apperrors.InvalidState("вакансия уже закрыта (%v)", rec.Status.ToHuman())
	}
	updMap := map[string]interface{}{
		"Status":    closeType,
		"UpdatedBy": userID,
	}
	// статус перепроверяется в момент записи, параллельное закрытие не перетрет результат
	updated, err := i.store.UpdateIfStatusNotIn(id, models.JobFinishedStatuses, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка закрытия вакансии")
	}
	if !updated {
		return apperrors.InvalidState("вакансия уже закрыта")
	}
	i.getLogger(id, userID).
		WithField("close_type", closeType).
		Info("вакансия закрыта")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeJobClosed,
		EntityID: id,
		JobID:    id,
		ActorID:  userID,
		Status:   string(closeType),
	})
	return nil
}

func (i impl) Delete(id, userID string) error {
	_, err := i.getOwnedUnscoped(id, userID)
	if err != nil {
		return err
	}
	err = i.store.Delete(id)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления вакансии")
	}
	i.getLogger(id, userID).Info("вакансия удалена")
	return nil
}

func (i impl) SoftDelete(id, userID string) error {
	_, err := i.getOwned(id, userID)
	if err != nil {
		return err
	}
	err = i.store.SoftDelete(id)
	if err != nil {
		return errors.Wrap(err, "ошибка удаления вакансии")
	}
	i.getLogger(id, userID).Info("вакансия перемещена в корзину")
	return nil
}

func (i impl) Restore(id string) error {
	rec, err := i.store.GetByIDUnscoped(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения вакансии")
	}
	if rec == nil {
		return apperrors.NotFound("вакансия не найдена")
	}
	if !rec.DeletedAt.Valid {
		return nil
	}
	_, err = i.store.Restore(id)
	if err != nil {
		return errors.Wrap(err, "ошибка восстановления вакансии")
	}
	i.getLogger(id, "").Info("вакансия восстановлена")
	return nil
}

func (i impl) getOwnedUnscoped(id, userID string) (*dbmodels.Job, error) {
	rec, err := i.store.GetByIDUnscoped(id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения вакансии")
	}
	if rec == nil {
		return nil, apperrors.NotFound("вакансия не найдена")
	}
	if !rec.IsOwner(userID) {
		return nil, apperrors.Unauthorized("удалить вакансию может только ее автор")
	}
	return rec, nil
}

func (i impl) FindPublished(filter jobapimodels.JobFilter) ([]jobapimodels.JobView, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, apperrors.Validation(err)
	}
	rowCount, err := i.store.CountPublished(filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := i.store.ListPublished(filter)
	if err != nil {
		return nil, 0, err
	}
	return convertList(list), rowCount, nil
}

func (i impl) FindSimilar(id string, limit int) ([]jobapimodels.JobView, error) {
	rec, err := i.GetJob(id)
	if err != nil {
		return nil, err
	}
	if rec.SpecialityID == nil || *rec.SpecialityID == "" {
		return []jobapimodels.JobView{}, nil
	}
	if limit <= 0 {
		limit = similarLimit()
	}
	list, err := i.store.ListSimilar(rec.ID, *rec.SpecialityID, limit)
	if err != nil {
		return nil, err
	}
	return convertList(list), nil
}

func similarLimit() int {
	if config.Conf != nil && config.Conf.Job.SimilarLimit > 0 {
		return config.Conf.Job.SimilarLimit
	}
	return 5
}

func (i impl) ListByCreator(userID string, pagination apimodels.Pagination) ([]jobapimodels.JobView, int64, error) {
	if err := pagination.Validate(); err != nil {
		return nil, 0, apperrors.Validation(err)
	}
	_, limit := pagination.GetPage()
	list, rowCount, err := i.store.ListByCreator(userID, pagination.GetOffset(), limit)
	if err != nil {
		return nil, 0, err
	}
	return convertList(list), rowCount, nil
}

func (i impl) ExpirePublished(now time.Time) (int, error) {
	list, err := i.store.ListToExpire(now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, rec := range list {
		logger := i.getLogger(rec.ID, "")
		updMap := map[string]interface{}{
			"Status": models.JobStatusExpired,
		}
		updated, err := i.store.UpdateIfStatusIn(rec.ID, []models.JobStatus{models.JobStatusPublished}, updMap)
		if err != nil {
			logger.WithError(err).Error("ошибка перевода вакансии в статус 'Истек срок'")
			continue
		}
		if !updated {
			continue
		}
		expired++
		logger.Info("истек срок вакансии")
		events.Send(context.Background(), i.publisher, events.Event{
			Type:     events.TypeJobClosed,
			EntityID: rec.ID,
			JobID:    rec.ID,
			Status:   string(models.JobStatusExpired),
		})
	}
	return expired, nil
}

func convertList(list []dbmodels.Job) []jobapimodels.JobView {
	result := make([]jobapimodels.JobView, 0, len(list))
	for _, rec := range list {
		result = append(result, jobapimodels.JobConvert(rec))
	}
	return result
}
