package db

import (
	dbmodels "jobmarket-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB() error {
	return Migrate(DB)
}

// Migrate создает структуру БД на указанном подключении
func Migrate(conn *gorm.DB) error {
	conn.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := conn.AutoMigrate(&dbmodels.Job{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Job")
	}
	if err := conn.AutoMigrate(&dbmodels.JobNumberTombstone{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры JobNumberTombstone")
	}
	if err := conn.AutoMigrate(&dbmodels.JobApply{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры JobApply")
	}
	if err := conn.AutoMigrate(&dbmodels.JobReferral{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры JobReferral")
	}
	if err := conn.AutoMigrate(&dbmodels.ReferralLink{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ReferralLink")
	}
	if err := conn.AutoMigrate(&dbmodels.PaymentDistribution{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PaymentDistribution")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
