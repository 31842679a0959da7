package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/auth"
	"github.com/promohub/promohub/internal/promoter"
	"github.com/promohub/promohub/internal/session"
)

// SessionFrom returns the authenticated session attached by Authenticate.
func SessionFrom(c *fiber.Ctx) (session.Session, bool) {
	return session.FromCtx(c)
}

// Authenticate validates the bearer token and attaches a session to the
// request. The role comes from the stored profile, not the token, so a role
// change takes effect as soon as the cached profile is invalidated.
func Authenticate(tokens *auth.TokenManager, cache *session.ProfileCache, repo promoter.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		sess, err := tokens.Parse(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		profile, ok, err := cache.Get(c.UserContext(), sess.UserID)
		if err != nil || !ok {
			p, err := repo.FindByID(c.UserContext(), sess.UserID)
			if err != nil {
				return fiber.NewError(http.StatusUnauthorized, "unknown user")
			}
			profile = p.Profile()
			_ = cache.Put(c.UserContext(), profile)
		}

		role, err := session.ParseRole(profile.Role)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid role")
		}

		session.Attach(c, session.Session{UserID: sess.UserID, Role: role})
		return c.Next()
	}
}

// RequireRole rejects requests whose session role is not one of the allowed roles.
func RequireRole(roles ...session.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}
		for _, role := range roles {
			if sess.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(http.StatusForbidden, "insufficient role")
	}
}

// RequireAdmin is shorthand for RequireRole(session.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(session.RoleAdmin)
}
