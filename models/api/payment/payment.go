package paymentapimodels

import (
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Share struct {
	RecipientType models.RecipientType `json:"recipient_type"`
	RecipientID   string               `json:"recipient_id"`
	Role          models.PaymentRole   `json:"role"`
	Percentage    decimal.Decimal      `json:"percentage"` // доля в процентах, до 2 знаков
}

func (s Share) Validate() error {
	if err := s.Role.Validate(); err != nil {
		return err
	}
	if err := s.RecipientType.Validate(); err != nil {
		return err
	}
	if s.RecipientID == "" && s.Role != models.PaymentRolePlatformFee {
		return errors.New("не указан получатель выплаты")
	}
	if s.Percentage.LessThanOrEqual(decimal.Zero) || s.Percentage.GreaterThan(hundred) {
		return errors.New("доля выплаты должна быть в диапазоне (0, 100]")
	}
	if !s.Percentage.Equal(s.Percentage.Round(2)) {
		return errors.New("доля выплаты указывается не точнее 0.01%")
	}
	return nil
}

// DistributeRequest распределение вознаграждения по вакансии, рассчитывается внешним сервисом
type DistributeRequest struct {
	TotalAmount int64   `json:"total_amount"` // в центах, если 0 - берется вознаграждение вакансии
	Currency    string  `json:"currency"`
	Shares      []Share `json:"shares"`
}

func (d DistributeRequest) Validate() error {
	if len(d.Shares) == 0 {
		return errors.New("не указаны получатели выплаты")
	}
	if d.TotalAmount < 0 {
		return errors.New("сумма вознаграждения не может быть отрицательной")
	}
	total := decimal.Zero
	for idx, share := range d.Shares {
		if err := share.Validate(); err != nil {
			return errors.Wrapf(err, "получатель %v", idx+1)
		}
		total = total.Add(share.Percentage)
	}
	if total.GreaterThan(hundred) {
		return errors.Errorf("сумма долей %v%% больше 100%%", total.String())
	}
	return nil
}

// ShareAmount сумма доли в центах, округление вниз
func ShareAmount(totalAmount int64, percentage decimal.Decimal) int64 {
	return decimal.NewFromInt(totalAmount).
		Mul(percentage).
		Div(hundred).
		Floor().
		IntPart()
}

type ClaimRequest struct {
	JobID    string `json:"job_id"`
	AsTalent bool   `json:"as_talent"` // запрос от имени профиля кандидата
}

type BlockchainStatusRequest struct {
	Status          models.PaymentDistributionStatus `json:"status"`
	TransactionHash string                           `json:"transaction_hash"`
}

// NormalizeTransactionHash хэш транзакции: 32 байта в hex с префиксом 0x
func NormalizeTransactionHash(value string) (string, error) {
	raw, err := hexutil.Decode(value)
	if err != nil {
		return "", errors.Wrap(err, "некорректный хэш транзакции")
	}
	if len(raw) != common.HashLength {
		return "", errors.Errorf("хэш транзакции должен содержать %v байта", common.HashLength)
	}
	return common.BytesToHash(raw).Hex(), nil
}

type ClaimResult struct {
	ID        string                           `json:"id"`
	Status    models.PaymentDistributionStatus `json:"status"`
	ClaimedAt *time.Time                       `json:"claimed_at"`
}

type DistributionView struct {
	ID              string                           `json:"id"`
	JobID           string                           `json:"job_id"`
	RecipientType   models.RecipientType             `json:"recipient_type"`
	RecipientID     string                           `json:"recipient_id,omitempty"`
	Role            models.PaymentRole               `json:"role"`
	Percentage      decimal.Decimal                  `json:"percentage"`
	Amount          int64                            `json:"amount"`
	Currency        string                           `json:"currency"`
	Status          models.PaymentDistributionStatus `json:"status"`
	ClaimedAt       *time.Time                       `json:"claimed_at,omitempty"`
	PaidAt          *time.Time                       `json:"paid_at,omitempty"`
	TransactionHash string                           `json:"transaction_hash,omitempty"`
	CreatedAt       time.Time                        `json:"created_at"`
}

func DistributionConvert(rec dbmodels.PaymentDistribution) DistributionView {
	result := DistributionView{
		ID:            rec.ID,
		JobID:         rec.JobID,
		RecipientType: rec.RecipientType,
		RecipientID:   rec.RecipientID,
		Role:          rec.Role,
		Percentage:    rec.Percentage,
		Amount:        rec.Amount,
		Currency:      rec.Currency,
		Status:        rec.Status.Normalize(),
		ClaimedAt:     rec.ClaimedAt,
		PaidAt:        rec.PaidAt,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.TransactionHash != nil {
		result.TransactionHash = *rec.TransactionHash
	}
	return result
}

func DistributionListConvert(list []dbmodels.PaymentDistribution) []DistributionView {
	result := make([]DistributionView, 0, len(list))
	for _, rec := range list {
		result = append(result, DistributionConvert(rec))
	}
	return result
}
