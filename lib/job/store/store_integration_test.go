package jobstore_test

import (
	jobstore "jobmarket-backend/lib/job/store"
	testhelpers "jobmarket-backend/lib/utils/test-helpers"
	"jobmarket-backend/models"
	jobapimodels "jobmarket-backend/models/api/job"
	dbmodels "jobmarket-backend/models/db"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newJob(title string) dbmodels.Job {
	now := time.Now()
	return dbmodels.Job{
		Title:       title,
		Status:      models.JobStatusPendingToReview,
		PostedDate:  now,
		ExpiredDate: now.Add(24 * time.Hour),
		CreatedBy:   "user-1",
		UpdatedBy:   "user-1",
	}
}

func TestCreateAllocatesSequentialNumbersConcurrently(t *testing.T) {
	conn := testhelpers.SetupTestDB(t)
	store := jobstore.NewInstance(conn)
	const total = 20

	var mu sync.Mutex
	numbers := []int64{}
	var g errgroup.Group
	for n := 0; n < total; n++ {
		g.Go(func() error {
			rec, err := store.Create(newJob("concurrent"))
			if err != nil {
				return err
			}
			mu.Lock()
			numbers = append(numbers, rec.JobNumber)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	sort.Slice(numbers, func(a, b int) bool { return numbers[a] < numbers[b] })
	for idx, number := range numbers {
		require.EqualValues(t, idx+1, number)
	}
}

func TestHardDeleteKeepsNumberReserved(t *testing.T) {
	conn := testhelpers.SetupTestDB(t)
	store := jobstore.NewInstance(conn)

	first, err := store.Create(newJob("first"))
	require.NoError(t, err)
	second, err := store.Create(newJob("second"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(second.ID))
	require.NoError(t, store.SoftDelete(first.ID))

	third, err := store.Create(newJob("third"))
	require.NoError(t, err)
	require.EqualValues(t, 3, third.JobNumber)

	restored, err := store.Restore(first.ID)
	require.NoError(t, err)
	require.True(t, restored)
	rec, err := store.GetByID(first.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
}

func TestConditionalStatusUpdate(t *testing.T) {
	conn := testhelpers.SetupTestDB(t)
	store := jobstore.NewInstance(conn)
	rec, err := store.Create(newJob("closing"))
	require.NoError(t, err)

	updMap := map[string]interface{}{"Status": models.JobStatusClosed}
	updated, err := store.UpdateIfStatusNotIn(rec.ID, models.JobFinishedStatuses, updMap)
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = store.UpdateIfStatusNotIn(rec.ID, models.JobFinishedStatuses, updMap)
	require.NoError(t, err)
	require.False(t, updated)
}

func TestListPublishedFilters(t *testing.T) {
	conn := testhelpers.SetupTestDB(t)
	store := jobstore.NewInstance(conn)

	job := newJob("Go developer")
	job.Tags = []string{"go", "postgres"}
	job.Salary = dbmodels.Salary{From: 100, To: 200}
	rec, err := store.Create(job)
	require.NoError(t, err)
	_, err = store.UpdateIfStatusIn(rec.ID, []models.JobStatus{models.JobStatusPendingToReview},
		map[string]interface{}{"Status": models.JobStatusPublished})
	require.NoError(t, err)

	filter := jobapimodels.JobFilter{Search: "go", Tags: []string{"go"}, SalaryFrom: 150}
	count, err := store.CountPublished(filter)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	filter.Tags = []string{"rust"}
	list, err := store.ListPublished(filter)
	require.NoError(t, err)
	require.Empty(t, list)

	openEnded := newJob("Lead Go developer")
	openEnded.Salary = dbmodels.Salary{From: 300}
	rec, err = store.Create(openEnded)
	require.NoError(t, err)
	_, err = store.UpdateIfStatusIn(rec.ID, []models.JobStatus{models.JobStatusPendingToReview},
		map[string]interface{}{"Status": models.JobStatusPublished})
	require.NoError(t, err)

	list, err = store.ListPublished(jobapimodels.JobFilter{SalaryFrom: 1000})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, rec.ID, list[0].ID)

	count, err = store.CountPublished(jobapimodels.JobFilter{SalaryFrom: 150})
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
