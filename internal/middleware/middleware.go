package middleware

import (
	"errors"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	LocalsUserID  = "user_id"
	LocalsTokenID = "token_jti"
	LocalsToken   = "token"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: utils.GetConfig("CORS_ORIGINS"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

// extractToken accepts both "Bearer <t>" and the "Token <t>" scheme the web
// client sends.
func extractToken(header string) (string, bool) {
	for _, scheme := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(header, scheme) {
			token := strings.TrimSpace(strings.TrimPrefix(header, scheme))
			return token, token != ""
		}
	}
	return "", false
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extractToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrAuthRequired)
		}

		claims, err := jwtService.ParseUserToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenRevoked) || errors.Is(err, domain.ErrTokenInvalid) {
				return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
			}
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, domain.ErrInternal)
		}

		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsTokenID, claims.ID)
		c.Locals(LocalsToken, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a valid token is sent and
// lets anonymous requests through otherwise.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := extractToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}

		claims, err := jwtService.ParseUserToken(c.UserContext(), token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsTokenID, claims.ID)
		c.Locals(LocalsToken, claims)
		return c.Next()
	}
}

// CurrentUserID returns the authenticated caller, or 0 for anonymous requests.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalsUserID).(uint)
	return id
}

func CurrentClaims(c *fiber.Ctx) *jwt.UserClaims {
	claims, _ := c.Locals(LocalsToken).(*jwt.UserClaims)
	return claims
}
