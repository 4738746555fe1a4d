package middleware

import (
	"jobmarket-backend/config"
	"jobmarket-backend/fiberlog"
	authutils "jobmarket-backend/lib/utils/auth-utils"
	apimodels "jobmarket-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func AuthorizationRequired() fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: "HS256",
			Key:    []byte(config.Conf.Auth.JWTSecret),
		},
		SuccessHandler: func(ctx *fiber.Ctx) error {
			ctx.Locals(fiberlog.UserIDLocal, GetUserID(ctx))
			return ctx.Next()
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewErrorWithCode("требуется авторизация", "unauthorized"))
		},
	})
}

// GetUserID пользователь из claim sub
func GetUserID(ctx *fiber.Ctx) string {
	return authutils.GetStringClaim(ctx, authutils.ClaimUserID)
}

// GetTalentID профиль кандидата пользователя, пусто если профиля нет
func GetTalentID(ctx *fiber.Ctx) string {
	return authutils.GetStringClaim(ctx, authutils.ClaimTalentID)
}
