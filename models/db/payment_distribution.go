package dbmodels

import (
	"jobmarket-backend/models"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type PaymentDistribution struct {
	BaseModel
	JobID           string                           `gorm:"type:varchar(36);not null;index"`
	RecipientType   models.RecipientType             `gorm:"type:varchar(50)"`
	RecipientID     string                           `gorm:"type:varchar(36);index"`
	Role            models.PaymentRole               `gorm:"type:varchar(50)"`
	Percentage      decimal.Decimal                  `gorm:"type:numeric(5,2)"`
	Amount          int64                            `gorm:"not null;default:0"` // в центах
	Currency        string                           `gorm:"type:varchar(10)"`
	Status          models.PaymentDistributionStatus `gorm:"type:varchar(50);index"`
	ClaimedAt       *time.Time
	PaidAt          *time.Time
	TransactionHash *string                          `gorm:"type:varchar(66)"`
}

func (p PaymentDistribution) Validate() error {
	if p.JobID == "" {
		return errors.New("не указана вакансия")
	}
	if err := p.Role.Validate(); err != nil {
		return err
	}
	if err := p.RecipientType.Validate(); err != nil {
		return err
	}
	if p.RecipientID == "" && p.Role != models.PaymentRolePlatformFee {
		return errors.New("не указан получатель выплаты")
	}
	if p.Percentage.LessThanOrEqual(decimal.Zero) || p.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("доля выплаты должна быть в диапазоне (0, 100]")
	}
	if p.Amount < 0 {
		return errors.New("сумма выплаты не может быть отрицательной")
	}
	return p.Status.Validate()
}
