package paymenthandler

import (
	applystore "jobmarket-backend/lib/job-apply/store"
	jobstore "jobmarket-backend/lib/job/store"
	referrallinkstore "jobmarket-backend/lib/referral/link-store"
	referralstore "jobmarket-backend/lib/referral/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"sync"
)

// EligibilityRule подтверждает, что получатель выполнил условие своей роли
type EligibilityRule func(rec dbmodels.PaymentDistribution) (eligible bool, err error)

type eligibility struct {
	mu    sync.RWMutex
	rules map[models.PaymentRole]EligibilityRule
}

func newEligibility(jobs jobstore.Provider, applies applystore.Provider, referrals referralstore.Provider,
	links referrallinkstore.Provider) *eligibility {
	e := &eligibility{
		rules: map[models.PaymentRole]EligibilityRule{},
	}
	e.register(models.PaymentRoleReferrer, referrerRule(applies, referrals, links))
	e.register(models.PaymentRoleCandidate, candidateRule(applies))
	e.register(models.PaymentRoleHiringManager, hiringManagerRule(jobs))
	return e
}

func (e *eligibility) register(role models.PaymentRole, rule EligibilityRule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[role] = rule
}

// check BadRequest, если роль не подтверждена
func (e *eligibility) check(rec dbmodels.PaymentDistribution) error {
	e.mu.RLock()
	rule, ok := e.rules[rec.Role]
	e.mu.RUnlock()
	if !ok {
		return apperrors.BadRequest("роль %v не дает права на получение выплаты", rec.Role)
	}
	eligible, err := rule(rec)
	if err != nil {
		return apperrors.Internal(err, "ошибка проверки права на выплату")
	}
	if !eligible {
		return apperrors.BadRequest("условия получения выплаты для роли %v не выполнены", rec.Role)
	}
	return nil
}

// рекомендатель: рекомендация завершилась наймом или по его ссылке наняли кандидата
func referrerRule(applies applystore.Provider, referrals referralstore.Provider, links referrallinkstore.Provider) EligibilityRule {
	return func(rec dbmodels.PaymentDistribution) (bool, error) {
		completed, err := referrals.ExistsCompleted(rec.JobID, rec.RecipientID)
		if err != nil {
			return false, err
		}
		if completed {
			return true, nil
		}
		link, err := links.GetByJobAndReferrer(rec.JobID, rec.RecipientID)
		if err != nil {
			return false, err
		}
		if link == nil {
			return false, nil
		}
		return applies.ExistsByReferralLink(link.ID, models.JobApplyStatusHired)
	}
}

// кандидат: его отклик на вакансию дошел до найма
func candidateRule(applies applystore.Provider) EligibilityRule {
	return func(rec dbmodels.PaymentDistribution) (bool, error) {
		apply, err := applies.GetByJobAndTalent(rec.JobID, rec.RecipientID)
		if err != nil {
			return false, err
		}
		return apply != nil && apply.Status == models.JobApplyStatusHired, nil
	}
}

// нанимающий менеджер: автор вакансии, вакансия завершена
func hiringManagerRule(jobs jobstore.Provider) EligibilityRule {
	return func(rec dbmodels.PaymentDistribution) (bool, error) {
		job, err := jobs.GetByIDUnscoped(rec.JobID)
		if err != nil {
			return false, err
		}
		return job != nil && job.IsOwner(rec.RecipientID) && job.Status.IsFinished(), nil
	}
}
