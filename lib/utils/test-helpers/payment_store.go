package testhelpers

import (
	paymentstore "jobmarket-backend/lib/payment-distribution/store"
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStore повторяет условия выборки и обновления хранилища выплат,
// мьютекс держится на всю заявку как блокировка строки в транзакции
type PaymentStore struct {
	mu   sync.Mutex
	rows map[string]dbmodels.PaymentDistribution
}

var _ paymentstore.Provider = (*PaymentStore)(nil)

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{
		rows: map[string]dbmodels.PaymentDistribution{},
	}
}

// Put сохраняет выплату как есть, без проверки суммы долей
func (s *PaymentStore) Put(rec dbmodels.PaymentDistribution) dbmodels.PaymentDistribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = nextTimestamp()
	}
	s.rows[rec.ID] = rec
	return rec
}

func (s *PaymentStore) CreateBatch(jobID string, list []dbmodels.PaymentDistribution) ([]dbmodels.PaymentDistribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, rec := range s.rows {
		if rec.JobID == jobID {
			total = total.Add(rec.Percentage)
		}
	}
	for _, rec := range list {
		if err := rec.Validate(); err != nil {
			return nil, apperrors.Validation(err)
		}
		total = total.Add(rec.Percentage)
	}
	if total.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperrors.BadRequest("сумма долей по вакансии %v%% больше 100%%", total.String())
	}
	result := make([]dbmodels.PaymentDistribution, 0, len(list))
	for _, rec := range list {
		rec.ID = uuid.NewString()
		rec.CreatedAt = nextTimestamp()
		rec.UpdatedAt = rec.CreatedAt
		s.rows[rec.ID] = rec
		result = append(result, rec)
	}
	return result, nil
}

func (s *PaymentStore) GetByID(id string) (*dbmodels.PaymentDistribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *PaymentStore) Claim(jobID, id, claimantID string, claimedAt time.Time, check paymentstore.ClaimCheck) (*dbmodels.PaymentDistribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok ||
		rec.JobID != jobID ||
		rec.RecipientID != claimantID ||
		rec.Status != models.PaymentDistributionStatusPending ||
		!rec.Role.IsClaimable() {
		return nil, apperrors.NotFound("выплата для получения не найдена")
	}
	if check != nil {
		if err := check(rec); err != nil {
			return nil, err
		}
	}
	rec.Status = models.PaymentDistributionStatusCompleted
	rec.ClaimedAt = &claimedAt
	s.rows[id] = rec
	return &rec, nil
}

func (s *PaymentStore) Settle(id, transactionHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok || !rec.Status.CanMoveTo(models.PaymentDistributionStatusCompleted) {
		return false, nil
	}
	rec.Status = models.PaymentDistributionStatusCompleted
	rec.TransactionHash = &transactionHash
	s.rows[id] = rec
	return true, nil
}

func (s *PaymentStore) MarkAsPaid(id string, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok || !rec.Status.CanMoveTo(models.PaymentDistributionStatusPaid) {
		return false, nil
	}
	rec.Status = models.PaymentDistributionStatusPaid
	rec.PaidAt = &paidAt
	s.rows[id] = rec
	return true, nil
}

func (s *PaymentStore) ListByRecipient(recipientID string) ([]dbmodels.PaymentDistribution, error) {
	list := s.list(func(rec dbmodels.PaymentDistribution) bool { return rec.RecipientID == recipientID })
	sort.Slice(list, func(a, b int) bool { return list[a].CreatedAt.After(list[b].CreatedAt) })
	return list, nil
}

func (s *PaymentStore) ListByJob(jobID string) ([]dbmodels.PaymentDistribution, error) {
	list := s.list(func(rec dbmodels.PaymentDistribution) bool { return rec.JobID == jobID })
	sort.Slice(list, func(a, b int) bool { return list[a].CreatedAt.Before(list[b].CreatedAt) })
	return list, nil
}

func (s *PaymentStore) list(match func(rec dbmodels.PaymentDistribution) bool) []dbmodels.PaymentDistribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []dbmodels.PaymentDistribution{}
	for _, rec := range s.rows {
		if match(rec) {
			result = append(result, rec)
		}
	}
	return result
}
