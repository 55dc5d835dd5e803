package serverutils

import (
	"strings"

	"grid-portal-be/internal/entity"
	"grid-portal-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const PrincipalKey = "principal"

type PortalClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ClientId  string `json:"client_id,omitempty"`
	SessionId string `json:"sid"`
	jwt.RegisteredClaims
}

// NewPrincipalMiddleware validates the bearer token, checks the session
// is still live and stores the resulting Principal in ctx locals.
func NewPrincipalMiddleware(secret string, sessions *memory.SessionRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		auth := ctx.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("missing bearer token"))
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims := &PortalClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("invalid token"))
		}

		if _, live := sessions.Get(claims.SessionId); !live {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("session expired"))
		}

		ctx.Locals(PrincipalKey, entity.Principal{
			Email:    claims.Email,
			Name:     claims.Name,
			Role:     claims.Role,
			ClientID: claims.ClientId,
		})
		ctx.Locals("session_id", claims.SessionId)
		return ctx.Next()
	}
}

// PrincipalFrom pulls the authenticated Principal out of ctx locals.
func PrincipalFrom(ctx *fiber.Ctx) entity.Principal {
	p, _ := ctx.Locals(PrincipalKey).(entity.Principal)
	return p
}

// RequireAdmin rejects anyone who is not a global admin. It must run
// after NewPrincipalMiddleware.
func RequireAdmin() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !PrincipalFrom(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse("admin only"))
		}
		return ctx.Next()
	}
}
