package paymenthandler

import (
	"bytes"
	"context"
	"jobmarket-backend/db"
	"jobmarket-backend/lib/events"
	pdfexport "jobmarket-backend/lib/export/pdf"
	xlsexport "jobmarket-backend/lib/export/xls"
	applystore "jobmarket-backend/lib/job-apply/store"
	jobstore "jobmarket-backend/lib/job/store"
	paymentstore "jobmarket-backend/lib/payment-distribution/store"
	referrallinkstore "jobmarket-backend/lib/referral/link-store"
	referralstore "jobmarket-backend/lib/referral/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	paymentapimodels "jobmarket-backend/models/api/payment"
	dbmodels "jobmarket-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Distribute создает выплаты по завершенной вакансии, вызывается сервисом расчета выплат
	Distribute(jobID string, data paymentapimodels.DistributeRequest) (list []paymentapimodels.DistributionView, err error)
	Claim(jobID, id, claimantID string) (result paymentapimodels.ClaimResult, err error)
	// UpdateBlockchainStatus принимает только успешный статус расчета в блокчейне
	UpdateBlockchainStatus(id string, status models.PaymentDistributionStatus, transactionHash string) error
	MarkAsPaid(id string) error
	FindByRecipient(recipientID string) (list []paymentapimodels.DistributionView, err error)
	FindByJob(jobID string) (list []paymentapimodels.DistributionView, err error)
	ExportByRecipient(recipientID string) (*bytes.Buffer, error)
	// Receipt pdf квитанция по оплаченной выплате, доступна только получателю
	Receipt(id, recipientID string) ([]byte, error)
	// RegisterRule заменяет правило проверки права на выплату для роли
	RegisterRule(role models.PaymentRole, rule EligibilityRule)
}

var Instance Provider

func NewHandler() {
	DB := db.DB
	Instance = NewProvider(
		jobstore.NewInstance(DB),
		paymentstore.NewInstance(DB),
		applystore.NewInstance(DB),
		referralstore.NewInstance(DB),
		referrallinkstore.NewInstance(DB),
		xlsexport.Instance,
		pdfexport.Instance,
		events.Instance,
	)
}

func NewProvider(jobs jobstore.Provider, store paymentstore.Provider, applies applystore.Provider,
	referrals referralstore.Provider, links referrallinkstore.Provider, exporter xlsexport.Provider,
	receipts pdfexport.Provider, publisher events.Publisher) Provider {
	if exporter == nil {
		exporter = xlsexport.NewProvider()
	}
	if receipts == nil {
		receipts = pdfexport.NewProvider()
	}
	return impl{
		jobs:        jobs,
		store:       store,
		eligibility: newEligibility(jobs, applies, referrals, links),
		exporter:    exporter,
		receipts:    receipts,
		publisher:   publisher,
		now:         time.Now,
	}
}

type impl struct {
	jobs        jobstore.Provider
	store       paymentstore.Provider
	eligibility *eligibility
	exporter    xlsexport.Provider
	receipts    pdfexport.Provider
	publisher   events.Publisher
	now         func() time.Time
}

func (i impl) getLogger(jobID, distributionID string) *log.Entry {
	logger := log.WithField("module", "payment_distribution")
	if jobID != "" {
		logger = logger.WithField("job_id", jobID)
	}
	if distributionID != "" {
		logger = logger.WithField("distribution_id", distributionID)
	}
	return logger
}

func (i impl) Distribute(jobID string, data paymentapimodels.DistributeRequest) ([]paymentapimodels.DistributionView, error) {
	if err := data.Validate(); err != nil {
		return nil, apperrors.Validation(err)
	}
	job, err := i.jobs.GetByIDUnscoped(jobID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения вакансии")
	}
	if job == nil {
		return nil, apperrors.NotFound("вакансия не найдена")
	}
	if !job.Status.IsFinished() {
		return nil, apperrors.InvalidState("выплаты создаются только по завершенной вакансии, статус: %v", job.Status)
	}
	total := data.TotalAmount
	if total == 0 {
		total = job.Bounty.Amount
	}
	currency := data.Currency
	if currency == "" {
		currency = job.Bounty.Currency
	}
	list := make([]dbmodels.PaymentDistribution, 0, len(data.Shares))
	for _, share := range data.Shares {
		list = append(list, dbmodels.PaymentDistribution{
			JobID:         jobID,
			RecipientType: share.RecipientType,
			RecipientID:   share.RecipientID,
			Role:          share.Role,
			Percentage:    share.Percentage,
			Amount:        paymentapimodels.ShareAmount(total, share.Percentage),
			Currency:      currency,
			Status:        models.PaymentDistributionStatusPending,
		})
	}
	created, err := i.store.CreateBatch(jobID, list)
	if err != nil {
		if apperrors.Is(err, apperrors.KindBadRequest) {
			return nil, err
		}
		return nil, errors.Wrap(err, "ошибка создания выплат")
	}
	i.getLogger(jobID, "").
		WithField("count", len(created)).
		Info("созданы выплаты по вакансии")
	return paymentapimodels.DistributionListConvert(created), nil
}

func (i impl) Claim(jobID, id, claimantID string) (paymentapimodels.ClaimResult, error) {
	if jobID == "" {
		return paymentapimodels.ClaimResult{}, apperrors.BadRequest("не указана вакансия")
	}
	if claimantID == "" {
		return paymentapimodels.ClaimResult{}, apperrors.Unauthorized("не указан получатель выплаты")
	}
	rec, err := i.store.Claim(jobID, id, claimantID, i.now(), i.eligibility.check)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return paymentapimodels.ClaimResult{}, err
		}
		return paymentapimodels.ClaimResult{}, apperrors.Internal(err, "ошибка получения выплаты")
	}
	i.getLogger(jobID, id).
		WithField("recipient_id", claimantID).
		WithField("role", rec.Role).
		Info("выплата получена")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeDistributionClaimed,
		EntityID: rec.ID,
		JobID:    jobID,
		ActorID:  claimantID,
		Status:   string(rec.Status),
	})
	return paymentapimodels.ClaimResult{
		ID:        rec.ID,
		Status:    rec.Status,
		ClaimedAt: rec.ClaimedAt,
	}, nil
}

func (i impl) UpdateBlockchainStatus(id string, status models.PaymentDistributionStatus, transactionHash string) error {
	rec, err := i.getDistribution(id)
	if err != nil {
		return err
	}
	if !status.IsSettlementSuccess() {
		return apperrors.BadRequest("недопустимый статус расчета: %v", status)
	}
	hash, err := paymentapimodels.NormalizeTransactionHash(transactionHash)
	if err != nil {
		return apperrors.Validation(err)
	}
	if !rec.Status.CanMoveTo(models.PaymentDistributionStatusCompleted) {
		return apperrors.InvalidState("переход выплаты из статуса %v в %v запрещен",
			rec.Status, models.PaymentDistributionStatusCompleted)
	}
	updated, err := i.store.Settle(id, hash)
	if err != nil {
		return apperrors.Internal(err, "ошибка сохранения статуса расчета")
	}
	if !updated {
		return apperrors.InvalidState("статус выплаты был изменен параллельно")
	}
	i.getLogger(rec.JobID, id).
		WithField("transaction_hash", hash).
		Info("получен статус расчета в блокчейне")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeDistributionSettled,
		EntityID: id,
		JobID:    rec.JobID,
		Status:   string(models.PaymentDistributionStatusCompleted),
		Data:     map[string]interface{}{"transaction_hash": hash},
	})
	return nil
}

func (i impl) MarkAsPaid(id string) error {
	rec, err := i.getDistribution(id)
	if err != nil {
		return err
	}
	if !rec.Status.CanMoveTo(models.PaymentDistributionStatusPaid) {
		return apperrors.InvalidState("оплатить можно только полученную выплату, статус: %v", rec.Status.Normalize())
	}
	updated, err := i.store.MarkAsPaid(id, i.now())
	if err != nil {
		return apperrors.Internal(err, "ошибка сохранения оплаты")
	}
	if !updated {
		return apperrors.InvalidState("статус выплаты был изменен параллельно")
	}
	i.getLogger(rec.JobID, id).Info("выплата оплачена")
	events.Send(context.Background(), i.publisher, events.Event{
		Type:     events.TypeDistributionPaid,
		EntityID: id,
		JobID:    rec.JobID,
		Status:   string(models.PaymentDistributionStatusPaid),
	})
	return nil
}

func (i impl) getDistribution(id string) (*dbmodels.PaymentDistribution, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal(err, "ошибка получения выплаты")
	}
	if rec == nil {
		return nil, apperrors.NotFound("выплата не найдена")
	}
	return rec, nil
}

func (i impl) FindByRecipient(recipientID string) ([]paymentapimodels.DistributionView, error) {
	list, err := i.store.ListByRecipient(recipientID)
	if err != nil {
		return nil, err
	}
	return paymentapimodels.DistributionListConvert(list), nil
}

func (i impl) FindByJob(jobID string) ([]paymentapimodels.DistributionView, error) {
	list, err := i.store.ListByJob(jobID)
	if err != nil {
		return nil, err
	}
	return paymentapimodels.DistributionListConvert(list), nil
}

func (i impl) ExportByRecipient(recipientID string) (*bytes.Buffer, error) {
	list, err := i.FindByRecipient(recipientID)
	if err != nil {
		return nil, err
	}
	buf, err := i.exporter.ExportDistributions(list)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования выписки по выплатам")
	}
	return buf, nil
}

func (i impl) Receipt(id, recipientID string) ([]byte, error) {
	rec, err := i.getDistribution(id)
	if err != nil {
		return nil, err
	}
	if recipientID == "" || rec.RecipientID != recipientID {
		return nil, apperrors.NotFound("выплата не найдена")
	}
	if rec.Status != models.PaymentDistributionStatusPaid {
		return nil, apperrors.InvalidState("квитанция формируется только по оплаченной выплате")
	}
	result, err := i.receipts.DistributionReceipt(paymentapimodels.DistributionConvert(*rec))
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования квитанции")
	}
	return result, nil
}

func (i impl) RegisterRule(role models.PaymentRole, rule EligibilityRule) {
	i.eligibility.register(role, rule)
}
