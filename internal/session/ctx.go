package session

import "github.com/gofiber/fiber/v2"

const localsKey = "session"

// Attach stores the session on the request context.
func Attach(c *fiber.Ctx, s Session) {
	c.Locals(localsKey, s)
}

// FromCtx returns the session attached to the request, if any.
func FromCtx(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(localsKey).(Session)
	return s, ok
}
