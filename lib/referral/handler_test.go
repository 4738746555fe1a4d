package referralhandler

import (
	"context"
	"jobmarket-backend/lib/events"
	jobhandler "jobmarket-backend/lib/job"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	testhelpers "jobmarket-backend/lib/utils/test-helpers"
	"jobmarket-backend/models"
	referralapimodels "jobmarket-backend/models/api/referral"
	dbmodels "jobmarket-backend/models/db"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const (
	ownerID    = "user-owner"
	referrerID = "user-referrer"
)

type testEnv struct {
	handler   Provider
	jobs      *testhelpers.JobStore
	referrals *testhelpers.ReferralStore
	links     *testhelpers.LinkStore
	cache     *testhelpers.LinkCache
	publisher *testhelpers.Publisher
}

func newTestEnv() testEnv {
	env := testEnv{
		jobs:      testhelpers.NewJobStore(),
		referrals: testhelpers.NewReferralStore(),
		links:     testhelpers.NewLinkStore(),
		cache:     testhelpers.NewLinkCache(),
		publisher: testhelpers.NewPublisher(),
	}
	jobs := jobhandler.NewProvider(env.jobs, env.publisher)
	env.handler = NewProvider(jobs, env.referrals, env.links, env.cache, env.publisher)
	return env
}

func (e testEnv) putJob(status models.JobStatus) dbmodels.Job {
	return e.jobs.Put(dbmodels.Job{Title: "Go developer", Status: status, CreatedBy: ownerID})
}

func candidate() referralapimodels.ReferralData {
	return referralapimodels.ReferralData{
		CandidateName:  "Ivan",
		CandidateEmail: "ivan@example.com",
		Recommendation: "strong engineer",
	}
}

func TestGenerateReferralLinkIsIdempotent(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	ctx := context.Background()

	first, err := env.handler.GenerateReferralLink(ctx, job.ID, referrerID)
	require.NoError(t, err)
	second, err := env.handler.GenerateReferralLink(ctx, job.ID, referrerID)
	require.NoError(t, err)
	require.Equal(t, first.Token, second.Token)
	require.Equal(t, 1, env.links.Inserts)
	require.Equal(t, 1, env.cache.Hits)

	other, err := env.handler.GenerateReferralLink(ctx, job.ID, "another-referrer")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, other.Token)
}

func TestGenerateReferralLinkConcurrent(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)

	var mu sync.Mutex
	tokens := map[string]struct{}{}
	var g errgroup.Group
	for n := 0; n < 20; n++ {
		g.Go(func() error {
			link, err := env.handler.GenerateReferralLink(context.Background(), job.ID, referrerID)
			if err != nil {
				return err
			}
			mu.Lock()
			tokens[link.Token] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Len(t, tokens, 1)
	require.Equal(t, 1, env.links.Inserts)
}

func TestGenerateReferralLinkWithoutCache(t *testing.T) {
	env := newTestEnv()
	handler := NewProvider(jobhandler.NewProvider(env.jobs, env.publisher), env.referrals, env.links, nil, env.publisher)
	job := env.putJob(models.JobStatusPublished)

	first, err := handler.GenerateReferralLink(context.Background(), job.ID, referrerID)
	require.NoError(t, err)
	second, err := handler.GenerateReferralLink(context.Background(), job.ID, referrerID)
	require.NoError(t, err)
	require.Equal(t, first.Token, second.Token)

	link, err := handler.GetLink(first.Token)
	require.NoError(t, err)
	require.Equal(t, job.ID, link.JobID)
	require.Equal(t, referrerID, link.ReferrerID)
}

func TestGenerateReferralLinkRequiresPublishedJob(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusClosed)

	_, err := env.handler.GenerateReferralLink(context.Background(), job.ID, referrerID)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = env.handler.GenerateReferralLink(context.Background(), "missing", referrerID)
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestReferCandidate(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)

	first, err := env.handler.ReferCandidate(job.ID, referrerID, candidate())
	require.NoError(t, err)
	require.Equal(t, models.JobReferralStatusPending, first.Status)
	require.Nil(t, first.Signature)

	// повторная рекомендация того же рекомендателя создает новую запись
	second, err := env.handler.ReferCandidate(job.ID, referrerID, candidate())
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	list, err := env.handler.ListByReferrer(referrerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, []events.Type{events.TypeReferralCreated, events.TypeReferralCreated}, env.publisher.Types())
}

func TestReferCandidateStoresSignature(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	data := candidate()
	data.Signature = referralapimodels.SignatureData{
		SignerAddress: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		Signature:     "0xdeadbeef",
		SignedMessage: "I recommend Ivan",
		ChainID:       137,
	}

	view, err := env.handler.ReferCandidate(job.ID, referrerID, data)
	require.NoError(t, err)
	require.NotNil(t, view.Signature)
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", view.Signature.SignerAddress)
	require.Equal(t, "0xdeadbeef", view.Signature.Signature)
	require.EqualValues(t, 137, view.Signature.ChainID)

	data.Signature.SignerAddress = "bad"
	_, err = env.handler.ReferCandidate(job.ID, referrerID, data)
	require.True(t, apperrors.Is(err, apperrors.KindBadRequest))
}

func TestReferCandidateRequiresPublishedJob(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPendingToReview)

	_, err := env.handler.ReferCandidate(job.ID, referrerID, candidate())
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = env.handler.ReferCandidate(job.ID, "", candidate())
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestListByJobOnlyForOwner(t *testing.T) {
	env := newTestEnv()
	job := env.putJob(models.JobStatusPublished)
	_, err := env.handler.ReferCandidate(job.ID, referrerID, candidate())
	require.NoError(t, err)

	_, err = env.handler.ListByJob(job.ID, referrerID)
	require.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	list, err := env.handler.ListByJob(job.ID, ownerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGetLinkUnknownToken(t *testing.T) {
	env := newTestEnv()
	_, err := env.handler.GetLink("garbage")
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
	_, err = env.handler.GetLink("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	require.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestListLinksByReferrer(t *testing.T) {
	env := newTestEnv()
	first := env.putJob(models.JobStatusPublished)
	second := env.putJob(models.JobStatusPublished)
	_, err := env.handler.GenerateReferralLink(context.Background(), first.ID, referrerID)
	require.NoError(t, err)
	_, err = env.handler.GenerateReferralLink(context.Background(), second.ID, referrerID)
	require.NoError(t, err)

	list, err := env.handler.ListLinksByReferrer(referrerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].JobID)
}
