package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"wallet-service/src/pkg/token"
)

const userLocalKey = "auth-user"

// VerifyBearer validates the session token issued by the authentication
// service and exposes the caller's identity to the handlers. Issuing the
// token is not this service's job.
func VerifyBearer(cfg *viper.Viper) fiber.Handler {
	secret := []byte(cfg.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "missing bearer token",
			})
		}

		claim := &token.Claim{}
		parsed, err := jwt.ParseWithClaims(raw, claim, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid || claim.Metadata.UserID == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid bearer token",
			})
		}

		ctx.Locals(userLocalKey, claim.Metadata)
		return ctx.Next()
	}
}

func GetUser(ctx *fiber.Ctx) token.Metadata {
	if meta, ok := ctx.Locals(userLocalKey).(token.Metadata); ok {
		return meta
	}
	return token.Metadata{}
}
