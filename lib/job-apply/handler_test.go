package applyhandler

import (
	"jobmarket-backend/lib/events"
	jobhandler "jobmarket-backend/lib/job"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	testhelpers "jobmarket-backend/lib/utils/test-helpers"
	"jobmarket-backend/models"
	applyapimodels "jobmarket-backend/models/api/job-apply"
	dbmodels "jobmarket-backend/models/db"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	ownerID  = "user-owner"
	talentID = "talent-1"
)

type testEnv struct {
	handler   Provider
	jobs      *testhelpers.JobStore
	applies   *testhelpers.ApplyStore
	referrals *testhelpers.ReferralStore
	links     *testhelpers.LinkStore
	publisher *testhelpers.Publisher
}

func newTestEnv() testEnv {
	env := testEnv{
		jobs:      testhelpers.NewJobStore(),
		referrals: testhelpers.NewReferralStore(),
		links:     testhelpers.NewLinkStore(),
		publisher: testhelpers.NewPublisher(),
	}
	env.applies = testhelpers.NewApplyStore(env.referrals)
	jobs := jobhandler.NewProvider(env.jobs, env.publisher)
	env.handler = NewProvider(jobs, env.applies, env.referrals, env.links, env.publisher)
	return env
}

func (e testEnv) putJob(status models.JobStatus) dbmodels.Job {
	return e.jobs.Put(dbmodels.Job{Title: "Go developer", Status: status, CreatedBy: ownerID})
}

func TestApplyOnPendingJobIsNotFound(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPendingToReview)

	_, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{})
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = env.handler.Apply("missing", talentID, applyapimodels.ApplyData{})
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestApplyTwiceIsConflict(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)

	view, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{CoverLetter: "hi", ResumeID: "resume-1"})
	require.NoError(t, err)
	require.Equal(t, models.JobApplyStatusNew, view.Status)
	require.Equal(t, "resume-1", view.ResumeID)

	_, err = env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{})
	require.True(t, apperrors.Is(err, apperrors.KindConflict))

	list, err := env.handler.FindByTalent(talentID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, []events.Type{events.TypeApplicationCreated}, env.publisher.Types())
}

func TestApplyConcurrentCreatesSingleRow(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)

	var mu sync.Mutex
	conflicts := 0
	var g errgroup.Group
	for n := 0; n < 10; n++ {
		g.Go(func() error {
			_, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{})
			if apperrors.Is(err, apperrors.KindConflict) {
				mu.Lock()
				conflicts++
				mu.Unlock()
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 9, conflicts)
	list, err := env.applies.ListByJob(job.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestApplyRequiresTalent(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	_, err := env.handler.Apply(job.ID, "", applyapimodels.ApplyData{})
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestApplyThroughReferralLink(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	otherJob := env.putJob(models.JobStatusPublished)
	link, _, err := env.links.FindOrCreate(job.ID, "referrer-1")
	require.NoError(t, err)
	foreignLink, _, err := env.links.FindOrCreate(otherJob.ID, "referrer-1")
	require.NoError(t, err)

	_, err = env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{ReferralToken: "garbage"})
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, err = env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{ReferralToken: foreignLink.ID})
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	_, err = env.handler.Apply(job.ID, "referrer-1", applyapimodels.ApplyData{ReferralToken: link.ID})
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	view, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{ReferralToken: link.ID})
	require.NoError(t, err)
	require.Equal(t, link.ID, view.ReferralLinkID)
}

func TestApplyWithReferralOfAnotherJob(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	otherJob := env.putJob(models.JobStatusPublished)
	referral, err := env.referrals.Create(dbmodels.JobReferral{JobID: otherJob.ID, ReferrerID: "referrer-1",
		Status: models.JobReferralStatusPending})
	require.NoError(t, err)

	_, err = env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{JobReferralID: referral.ID})
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestFindByJobAndTalent(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)

	_, err := env.handler.FindByJobAndTalent(job.ID, talentID)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))

	created, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{})
	require.NoError(t, err)
	found, err := env.handler.FindByJobAndTalent(job.ID, talentID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
}

func TestFindByJobOnlyForOwner(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	_, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{})
	require.NoError(t, err)
	_, err = env.handler.Apply(job.ID, "talent-2", applyapimodels.ApplyData{})
	require.NoError(t, err)

	_, err = env.handler.FindByJob(job.ID, "someone")
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	list, err := env.handler.FindByJob(job.ID, ownerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "talent-2", list[0].TalentID)
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	view, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{})
	require.NoError(t, err)

	err = env.handler.UpdateStatus(view.ID, talentID, models.JobApplyStatusInterviewing)
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	require.NoError(t, env.handler.UpdateStatus(view.ID, ownerID, models.JobApplyStatusInterviewing))

	err = env.handler.UpdateStatus(view.ID, ownerID, models.JobApplyStatusUnderReview)
	require.True(t, apperrors.Is(err, apperrors.KindInvalidState))

	require.NoError(t, env.handler.UpdateStatus(view.ID, ownerID, models.JobApplyStatusRejected))

	err = env.handler.UpdateStatus(view.ID, ownerID, models.JobApplyStatusHired)
	require.True(t, apperrors.Is(err, apperrors.KindInvalidState))

	err = env.handler.UpdateStatus(view.ID, ownerID, "unknown")
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))

	err = env.handler.UpdateStatus("missing", ownerID, models.JobApplyStatusHired)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestHiredCompletesReferral(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	referral, err := env.referrals.Create(dbmodels.JobReferral{JobID: job.ID, ReferrerID: "referrer-1",
		Status: models.JobReferralStatusPending})
	require.NoError(t, err)

	view, err := env.handler.Apply(job.ID, talentID, applyapimodels.ApplyData{JobReferralID: referral.ID})
	require.NoError(t, err)
	require.Equal(t, referral.ID, view.JobReferralID)

	require.NoError(t, env.handler.UpdateStatus(view.ID, ownerID, models.JobApplyStatusHired))

	completed, err := env.referrals.ExistsCompleted(job.ID, "referrer-1")
	require.NoError(t, err)
	require.True(t, completed)
}
