package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/meetrec/internal/types"
)

const accessTokenKey = "google_access_token"

// RequireSession gates the API behind the caller's OAuth bearer token.
// Identity is owned by the external OAuth provider; this service only
// forwards the Google access token to Google-bound calls.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
				"code":  "ERR_UNAUTHORIZED",
			})
		}
		token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
				"code":  "ERR_UNAUTHORIZED",
			})
		}
		c.Locals(accessTokenKey, token)
		return c.Next()
	}
}

// AccessToken returns the caller's Google access token stashed by
// RequireSession.
func AccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals(accessTokenKey).(string)
	return token
}

// statusForError maps the error taxonomy onto boundary HTTP statuses.
func statusForError(err error) int {
	switch types.KindOf(err) {
	case types.ErrInvalidRequest:
		return fiber.StatusBadRequest
	case types.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case types.ErrNotFound:
		return fiber.StatusNotFound
	case types.ErrUpstreamRejected:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// errCode turns an error kind into the boundary's machine-readable code.
func errCode(err error) string {
	return "ERR_" + strings.ToUpper(types.KindOf(err))
}
