package jobhandler

import (
	"jobmarket-backend/lib/events"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	testhelpers "jobmarket-backend/lib/utils/test-helpers"
	"jobmarket-backend/models"
	apimodels "jobmarket-backend/models/api"
	jobapimodels "jobmarket-backend/models/api/job"
	dbmodels "jobmarket-backend/models/db"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	ownerID    = "user-owner"
	strangerID = "user-stranger"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler() (impl, *testhelpers.JobStore, *testhelpers.Publisher) {
	store := testhelpers.NewJobStore()
	publisher := testhelpers.NewPublisher()
	return impl{
		store:     store,
		publisher: publisher,
		lifetime:  defaultLifetime,
		now:       func() time.Time { return fixedNow },
	}, store, publisher
}

func jobData(title string) jobapimodels.JobData {
	return jobapimodels.JobData{
		Title:        title,
		SpecialityID: "spec-go",
		Salary:       jobapimodels.Salary{From: 1000, To: 2000},
	}
}

func TestCreate(t *testing.T) {
	h, _, _ := newTestHandler()

	first, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)
	require.EqualValues(t, 1, first.JobNumber)
	require.Equal(t, models.JobStatusPendingToReview, first.Status)
	require.Equal(t, ownerID, first.CreatedBy)
	require.Equal(t, fixedNow, first.PostedDate)
	require.Equal(t, fixedNow.Add(90*24*time.Hour), first.ExpiredDate)

	second, err := h.Create(ownerID, jobData("QA"))
	require.NoError(t, err)
	require.EqualValues(t, 2, second.JobNumber)

	_, err = h.Create(ownerID, jobData(""))
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestCreateConcurrentNumbersAreUnique(t *testing.T) {
	h, store, _ := newTestHandler()
	const total = 50

	var mu sync.Mutex
	numbers := make([]int64, 0, total)
	var g errgroup.Group
	for n := 0; n < total; n++ {
		g.Go(func() error {
			view, err := h.Create(ownerID, jobData("concurrent"))
			if err != nil {
				return err
			}
			mu.Lock()
			numbers = append(numbers, view.JobNumber)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	sort.Slice(numbers, func(a, b int) bool { return numbers[a] < numbers[b] })
	for idx, number := range numbers {
		require.EqualValues(t, idx+1, number)
	}
	require.Len(t, store.Numbers(), total)
}

func TestCreateFailureDoesNotConsumeNumber(t *testing.T) {
	h, store, _ := newTestHandler()
	store.FailCreate = errors.New("insert failed")
	_, err := h.Create(ownerID, jobData("broken"))
	require.Error(t, err)

	store.FailCreate = nil
	view, err := h.Create(ownerID, jobData("ok"))
	require.NoError(t, err)
	require.EqualValues(t, 1, view.JobNumber)
}

func TestDeletedNumberIsNotReused(t *testing.T) {
	h, _, _ := newTestHandler()
	first, err := h.Create(ownerID, jobData("first"))
	require.NoError(t, err)
	second, err := h.Create(ownerID, jobData("second"))
	require.NoError(t, err)

	require.NoError(t, h.Delete(second.ID, ownerID))
	require.NoError(t, h.SoftDelete(first.ID, ownerID))

	third, err := h.Create(ownerID, jobData("third"))
	require.NoError(t, err)
	require.EqualValues(t, 3, third.JobNumber)
}

func TestUpdateOwnership(t *testing.T) {
	h, _, _ := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)

	err = h.Update(view.ID, strangerID, jobData("hijacked"))
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	err = h.Update("missing", ownerID, jobData("x"))
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))

	updated := jobData("Senior Go developer")
	updated.Tags = []string{"go", "postgres"}
	require.NoError(t, h.Update(view.ID, ownerID, updated))

	got, err := h.GetByID(view.ID)
	require.NoError(t, err)
	require.Equal(t, "Senior Go developer", got.Title)
	require.Equal(t, []string{"go", "postgres"}, got.Tags)
	require.Equal(t, view.JobNumber, got.JobNumber)
}

func TestPublish(t *testing.T) {
	h, _, publisher := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)

	require.True(t, apperrors.Is(h.Publish(view.ID, strangerID), apperrors.KindUnauthorized))
	require.NoError(t, h.Publish(view.ID, ownerID))
	require.True(t, apperrors.Is(h.Publish(view.ID, ownerID), apperrors.KindInvalidState))

	_, err = h.RequirePublished(view.ID)
	require.NoError(t, err)
	require.Equal(t, []events.Type{events.TypeJobPublished}, publisher.Types())
}

func TestRequirePublishedOnPendingJob(t *testing.T) {
	h, _, _ := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)

	_, err = h.RequirePublished(view.ID)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestClose(t *testing.T) {
	h, _, publisher := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)
	require.NoError(t, h.Publish(view.ID, ownerID))

	err = h.Close(view.ID, strangerID, models.JobStatusClosed)
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	err = h.Close(view.ID, ownerID, models.JobStatusPublished)
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	require.NoError(t, h.Close(view.ID, ownerID, models.JobStatusHired))
	got, err := h.GetByID(view.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusHired, got.Status)

	for _, closeType := range models.JobFinishedStatuses {
		err = h.Close(view.ID, ownerID, closeType)
		require.True(t, apperrors.Is(err, apperrors.KindInvalidState), "close type %v", closeType)
	}
	require.Equal(t, []events.Type{events.TypeJobPublished, events.TypeJobClosed}, publisher.Types())
}

func TestCloseConcurrentOnlyOneWins(t *testing.T) {
	h, _, _ := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)

	var mu sync.Mutex
	succeeded := 0
	invalidState := 0
	var g errgroup.Group
	for n := 0; n < 10; n++ {
		g.Go(func() error {
			err := h.Close(view.ID, ownerID, models.JobStatusCancelled)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.Is(err, apperrors.KindInvalidState):
				invalidState++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, succeeded)
	require.Equal(t, 9, invalidState)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	h, _, _ := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)
	require.NoError(t, h.Close(view.ID, ownerID, models.JobStatusClosed))

	require.True(t, apperrors.Is(h.SoftDelete(view.ID, strangerID), apperrors.KindUnauthorized))
	require.NoError(t, h.SoftDelete(view.ID, ownerID))

	_, err = h.GetByID(view.ID)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))

	// восстановление доступно не только автору и не меняет статус
	require.NoError(t, h.Restore(view.ID))
	got, err := h.GetByID(view.ID)
	require.NoError(t, err)
	require.Equal(t, models.JobStatusClosed, got.Status)
	require.False(t, got.Deleted)

	require.True(t, apperrors.Is(h.Restore("missing"), apperrors.KindNotFound))
}

func TestDeleteOwnership(t *testing.T) {
	h, _, _ := newTestHandler()
	view, err := h.Create(ownerID, jobData("Go developer"))
	require.NoError(t, err)

	require.True(t, apperrors.Is(h.Delete(view.ID, strangerID), apperrors.KindUnauthorized))
	require.NoError(t, h.Delete(view.ID, ownerID))
	require.True(t, apperrors.Is(h.Delete(view.ID, ownerID), apperrors.KindNotFound))
}

func TestFindPublished(t *testing.T) {
	h, store, _ := newTestHandler()
	location := "loc-msk"
	store.Put(dbmodels.Job{Title: "Go developer", Status: models.JobStatusPublished, CreatedBy: ownerID,
		LocationID: &location, ExperienceLevel: models.ExperienceLevelSenior, JobType: models.JobTypeFullTime,
		Salary: dbmodels.Salary{From: 3000, To: 5000}, Tags: []string{"go", "k8s"}, PostedDate: fixedNow.Add(-time.Hour)})
	store.Put(dbmodels.Job{Title: "Junior Go developer", Status: models.JobStatusPublished, CreatedBy: ownerID,
		LocationID: &location, ExperienceLevel: models.ExperienceLevelJunior, JobType: models.JobTypeFullTime,
		Salary: dbmodels.Salary{From: 1000, To: 1500}, Tags: []string{"go"}, PostedDate: fixedNow})
	store.Put(dbmodels.Job{Title: "Go developer draft", Status: models.JobStatusPendingToReview, CreatedBy: ownerID,
		LocationID: &location, PostedDate: fixedNow})

	list, rowCount, err := h.FindPublished(jobapimodels.JobFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, rowCount)
	require.Equal(t, "Junior Go developer", list[0].Title)

	list, rowCount, err = h.FindPublished(jobapimodels.JobFilter{
		LocationID:      location,
		ExperienceLevel: models.ExperienceLevelSenior,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, rowCount)
	require.Equal(t, "Go developer", list[0].Title)

	// вилки пересекаются с запросом
	_, rowCount, err = h.FindPublished(jobapimodels.JobFilter{SalaryFrom: 1400, SalaryTo: 3500})
	require.NoError(t, err)
	require.EqualValues(t, 2, rowCount)

	_, rowCount, err = h.FindPublished(jobapimodels.JobFilter{SalaryFrom: 6000})
	require.NoError(t, err)
	require.EqualValues(t, 0, rowCount)

	list, _, err = h.FindPublished(jobapimodels.JobFilter{Tags: []string{"go", "k8s"}, Search: "GO"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, rowCount, err = h.FindPublished(jobapimodels.JobFilter{Pagination: apimodels.Pagination{Page: 2, Limit: 1}})
	require.NoError(t, err)
	require.EqualValues(t, 2, rowCount)
	require.Len(t, list, 1)
	require.Equal(t, "Go developer", list[0].Title)

	// вилка без верхней границы
	store.Put(dbmodels.Job{Title: "Staff Go developer", Status: models.JobStatusPublished, CreatedBy: ownerID,
		Salary: dbmodels.Salary{From: 5500}, PostedDate: fixedNow.Add(-2 * time.Hour)})
	list, rowCount, err = h.FindPublished(jobapimodels.JobFilter{SalaryFrom: 6000})
	require.NoError(t, err)
	require.EqualValues(t, 1, rowCount)
	require.Equal(t, "Staff Go developer", list[0].Title)

	_, rowCount, err = h.FindPublished(jobapimodels.JobFilter{SalaryTo: 5000})
	require.NoError(t, err)
	require.EqualValues(t, 2, rowCount)

	_, _, err = h.FindPublished(jobapimodels.JobFilter{ExperienceLevel: "guru"})
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestFindSimilar(t *testing.T) {
	h, store, _ := newTestHandler()
	goSpec := "spec-go"
	qaSpec := "spec-qa"
	source := store.Put(dbmodels.Job{Title: "source", Status: models.JobStatusPublished, CreatedBy: ownerID,
		SpecialityID: &goSpec, PostedDate: fixedNow})
	store.Put(dbmodels.Job{Title: "older", Status: models.JobStatusPublished, CreatedBy: ownerID,
		SpecialityID: &goSpec, PostedDate: fixedNow.Add(-2 * time.Hour)})
	store.Put(dbmodels.Job{Title: "newer", Status: models.JobStatusPublished, CreatedBy: ownerID,
		SpecialityID: &goSpec, PostedDate: fixedNow.Add(-time.Hour)})
	store.Put(dbmodels.Job{Title: "closed", Status: models.JobStatusClosed, CreatedBy: ownerID,
		SpecialityID: &goSpec, PostedDate: fixedNow})
	store.Put(dbmodels.Job{Title: "other speciality", Status: models.JobStatusPublished, CreatedBy: ownerID,
		SpecialityID: &qaSpec, PostedDate: fixedNow})

	list, err := h.FindSimilar(source.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "newer", list[0].Title)
	require.Equal(t, "older", list[1].Title)

	list, err = h.FindSimilar(source.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = h.FindSimilar("missing", 10)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestListByCreator(t *testing.T) {
	h, _, _ := newTestHandler()
	for n := 0; n < 3; n++ {
		_, err := h.Create(ownerID, jobData("mine"))
		require.NoError(t, err)
	}
	_, err := h.Create(strangerID, jobData("not mine"))
	require.NoError(t, err)

	list, rowCount, err := h.ListByCreator(ownerID, apimodels.Pagination{Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, rowCount)
	require.Len(t, list, 2)
	require.EqualValues(t, 3, list[0].JobNumber)
}

func TestExpirePublished(t *testing.T) {
	h, store, publisher := newTestHandler()
	stale := store.Put(dbmodels.Job{Title: "stale", Status: models.JobStatusPublished, CreatedBy: ownerID,
		ExpiredDate: fixedNow.Add(-time.Minute)})
	fresh := store.Put(dbmodels.Job{Title: "fresh", Status: models.JobStatusPublished, CreatedBy: ownerID,
		ExpiredDate: fixedNow.Add(time.Hour)})
	pending := store.Put(dbmodels.Job{Title: "pending", Status: models.JobStatusPendingToReview, CreatedBy: ownerID,
		ExpiredDate: fixedNow.Add(-time.Minute)})

	expired, err := h.ExpirePublished(fixedNow)
	require.NoError(t, err)
	require.Equal(t, 1, expired)

	got, _ := store.GetByID(stale.ID)
	require.Equal(t, models.JobStatusExpired, got.Status)
	got, _ = store.GetByID(fresh.ID)
	require.Equal(t, models.JobStatusPublished, got.Status)
	got, _ = store.GetByID(pending.ID)
	require.Equal(t, models.JobStatusPendingToReview, got.Status)
	require.Equal(t, []events.Type{events.TypeJobClosed}, publisher.Types())

	require.True(t, apperrors.Is(h.Close(stale.ID, ownerID, models.JobStatusClosed), apperrors.KindInvalidState))
}
