package paymentstore

import (
	apperrors "jobmarket-backend/lib/utils/app-errors"
	"jobmarket-backend/models"
	dbmodels "jobmarket-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimCheck проверка права получателя на выплату, вызывается внутри транзакции заявки
type ClaimCheck func(rec dbmodels.PaymentDistribution) error

type Provider interface {
	// CreateBatch создает выплаты по вакансии, сумма долей с учетом уже созданных не больше 100%
	CreateBatch(jobID string, list []dbmodels.PaymentDistribution) ([]dbmodels.PaymentDistribution, error)
	GetByID(id string) (*dbmodels.PaymentDistribution, error)
	// Claim NotFound, если нет ожидающей выплаты получателя с такими id и вакансией (доля платформы не выдается)
	Claim(jobID, id, claimantID string, claimedAt time.Time, check ClaimCheck) (*dbmodels.PaymentDistribution, error)
	// Settle проставляет completed и хэш транзакции, если выплата еще не оплачена
	Settle(id, transactionHash string) (updated bool, err error)
	// MarkAsPaid completed -> paid
	MarkAsPaid(id string, paidAt time.Time) (updated bool, err error)
	ListByRecipient(recipientID string) ([]dbmodels.PaymentDistribution, error)
	ListByJob(jobID string) ([]dbmodels.PaymentDistribution, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(jobID string, list []dbmodels.PaymentDistribution) ([]dbmodels.PaymentDistribution, error) {
	err := i.db.Transaction(func(tx *gorm.DB) error {
		// распределения одной вакансии создаются последовательно
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "payment_distribution:"+jobID).Error; err != nil {
			return errors.Wrap(err, "ошибка блокировки распределения вакансии")
		}
		var existed decimal.Decimal
		err := tx.
			Model(&dbmodels.PaymentDistribution{}).
			Select("COALESCE(SUM(percentage), 0)").
			Where("job_id = ?", jobID).
			Row().
			Scan(&existed)
		if err != nil {
			return errors.Wrap(err, "ошибка подсчета распределенных долей")
		}
		total := existed
		for idx := range list {
			if list[idx].JobID != jobID {
				return errors.New("выплата относится к другой вакансии")
			}
			if err = list[idx].Validate(); err != nil {
				return apperrors.Validation(err)
			}
			total = total.Add(list[idx].Percentage)
		}
		if total.GreaterThan(decimal.NewFromInt(100)) {
			return apperrors.BadRequest("сумма долей по вакансии %v%% больше 100%%", total.String())
		}
		return tx.
			Omit(clause.Associations).
			Create(&list).
			Error
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetByID(id string) (*dbmodels.PaymentDistribution, error) {
	rec := dbmodels.PaymentDistribution{}
	err := i.db.
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Claim(jobID, id, claimantID string, claimedAt time.Time, check ClaimCheck) (*dbmodels.PaymentDistribution, error) {
	rec := dbmodels.PaymentDistribution{}
	err := i.db.Transaction(func(tx *gorm.DB) error {
		// заявка принимается только из pending: параллельная заявка ждет на блокировке строки и после нее уже не видит pending
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Where("job_id = ?", jobID).
			Where("recipient_id = ?", claimantID).
			Where("status = ?", models.PaymentDistributionStatusPending).
			Where("role in (?)", models.ClaimablePaymentRoles()).
			First(&rec).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("выплата для получения не найдена")
			}
			return err
		}
		if check != nil {
			if err = check(rec); err != nil {
				return err
			}
		}
		updMap := map[string]interface{}{
			"Status":    models.PaymentDistributionStatusCompleted,
			"ClaimedAt": claimedAt,
		}
		err = tx.
			Model(&dbmodels.PaymentDistribution{}).
			Where("id = ?", id).
			Updates(updMap).
			Error
		if err != nil {
			return err
		}
		rec.Status = models.PaymentDistributionStatusCompleted
		rec.ClaimedAt = &claimedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (i impl) Settle(id, transactionHash string) (bool, error) {
	tx := i.db.
		Model(&dbmodels.PaymentDistribution{}).
		Where("id = ?", id).
		Where("status in (?)", models.PaymentDistributionStatusesTo(models.PaymentDistributionStatusCompleted)).
		Updates(map[string]interface{}{
			"Status":          models.PaymentDistributionStatusCompleted,
			"TransactionHash": transactionHash,
		})
	if err := tx.Error; err != nil {
		return false, err
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) MarkAsPaid(id string, paidAt time.Time) (bool, error) {
	tx := i.db.
		Model(&dbmodels.PaymentDistribution{}).
		Where("id = ?", id).
		Where("status in (?)", models.PaymentDistributionStatusesTo(models.PaymentDistributionStatusPaid)).
		Updates(map[string]interface{}{
			"Status": models.PaymentDistributionStatusPaid,
			"PaidAt": paidAt,
		})
	if err := tx.Error; err != nil {
		return false, err
	}
	return tx.RowsAffected != 0, nil
}

func (i impl) ListByRecipient(recipientID string) ([]dbmodels.PaymentDistribution, error) {
	list := []dbmodels.PaymentDistribution{}
	err := i.db.
		Model(&dbmodels.PaymentDistribution{}).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения выплат получателя")
	}
	return list, nil
}

func (i impl) ListByJob(jobID string) ([]dbmodels.PaymentDistribution, error) {
	list := []dbmodels.PaymentDistribution{}
	err := i.db.
		Model(&dbmodels.PaymentDistribution{}).
		Where("job_id = ?", jobID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения выплат по вакансии")
	}
	return list, nil
}
