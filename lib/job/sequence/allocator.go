package jobsequence

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider выдает следующий номер вакансии.
// Next должен вызываться внутри транзакции, в которой затем вставляется вакансия:
// блокировка таблицы держится до конца транзакции, поэтому два параллельных
// создания не могут прочитать один и тот же максимум.
type Provider interface {
	Next(tx *gorm.DB) (int64, error)
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

// EXCLUSIVE конфликтует сам с собой и с записью, но не с обычным чтением
const lockJobsSQL = "LOCK TABLE jobs IN EXCLUSIVE MODE"

// номера жестко удаленных вакансий учитываются через tombstone,
// мягко удаленные вакансии остаются в таблице и учитываются напрямую
const maxJobNumberSQL = `SELECT GREATEST(
	COALESCE((SELECT MAX(job_number) FROM jobs), 0),
	COALESCE((SELECT MAX(job_number) FROM job_number_tombstones), 0)
)`

func (i impl) Next(tx *gorm.DB) (int64, error) {
	if err := tx.Exec(lockJobsSQL).Error; err != nil {
		return 0, errors.Wrap(err, "ошибка блокировки таблицы вакансий")
	}
	var maxNumber int64
	if err := tx.Raw(maxJobNumberSQL).Scan(&maxNumber).Error; err != nil {
		return 0, errors.Wrap(err, "ошибка получения последнего номера вакансии")
	}
	return maxNumber + 1, nil
}
