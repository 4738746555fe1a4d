package authutils

import (
	"jobmarket-backend/config"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimUserID   = "sub"
	ClaimTalentID = "talent"
)

// GetToken токен пользователя, выпускается сервисом авторизации, здесь нужен для тестов и локального запуска
func GetToken(userID, talentID string, ttl time.Duration) (tokenString string, err error) {
	now := time.Now()
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
	}
	if talentID != "" {
		claims[ClaimTalentID] = talentID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func GetStringClaim(ctx *fiber.Ctx, name string) string {
	value, _ := GetClaims(ctx)[name].(string)
	return value
}
