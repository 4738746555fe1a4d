package testhelpers

import (
	"jobmarket-backend/db"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB подключение к тестовой БД, тест пропускается, если TEST_DB_HOST не задан.
// Таблицы очищаются до и после теста.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST не задан, интеграционный тест пропущен")
	}
	conn, err := db.Open(db.ConnConfig{
		Host:         host,
		Port:         envOrDefault("TEST_DB_PORT", "5432"),
		Name:         envOrDefault("TEST_DB_NAME", "jobmarket_test"),
		User:         envOrDefault("TEST_DB_USER", "postgres"),
		Password:     envOrDefault("TEST_DB_PASSWORD", "postgres"),
		MaxOpenConns: 30,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	truncate(t, conn)
	t.Cleanup(func() {
		truncate(t, conn)
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func truncate(t *testing.T, conn *gorm.DB) {
	err := conn.Exec("TRUNCATE jobs, job_number_tombstones, job_applies, job_referrals, referral_links, payment_distributions").Error
	require.NoError(t, err)
}

func envOrDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}
