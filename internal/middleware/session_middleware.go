package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionHeader carries the browser identity that scopes cart, checkout and
// order state.
const SessionHeader = "X-Session-ID"

const sessionLocal = "session_id"

const maxSessionLength = 64

// BrowserSession reads the session id from the request header. Requests
// without a usable id are given a new one, which is echoed back so the
// browser can keep sending it.
func BrowserSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(SessionHeader))
		if id == "" || len(id) > maxSessionLength {
			id = uuid.NewString()
		}

		// Store the session in Fiber context for subsequent handlers
		c.Locals(sessionLocal, id)
		c.Set(SessionHeader, id)

		return c.Next()
	}
}

// SessionID returns the session id stored by BrowserSession.
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocal).(string)
	return id
}
