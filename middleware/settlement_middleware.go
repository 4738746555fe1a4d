package middleware

import (
	"crypto/subtle"
	"jobmarket-backend/config"
	apimodels "jobmarket-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const SettlementKeyHeader = "X-Settlement-Key"

// SettlementKeyRequired доступ для наблюдателя блокчейна и сервиса расчета выплат
func SettlementKeyRequired() fiber.Handler {
	return settlementKeyRequired(func() string { return config.Conf.Auth.SettlementKey })
}

func settlementKeyRequired(key func() string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		expected := key()
		if expected == "" {
			log.Warn("не задан ключ сервиса расчетов, запрос отклонен")
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewErrorWithCode("операция недоступна", "unauthorized"))
		}
		got := ctx.Get(SettlementKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewErrorWithCode("операция недоступна", "unauthorized"))
		}
		return ctx.Next()
	}
}
