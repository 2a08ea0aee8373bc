package middleware_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"laoud/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.BrowserSession())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})
	return app
}

func TestBrowserSession_KeepsProvidedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(middleware.SessionHeader, "browser-42")

	resp, err := newApp().Test(req, -1)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "browser-42", string(body))
	assert.Equal(t, "browser-42", resp.Header.Get(middleware.SessionHeader))
}

func TestBrowserSession_GeneratesID(t *testing.T) {
	for name, header := range map[string]string{
		"missing":  "",
		"too long": strings.Repeat("x", 65),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if header != "" {
				req.Header.Set(middleware.SessionHeader, header)
			}

			resp, err := newApp().Test(req, -1)
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			_, parseErr := uuid.Parse(string(body))
			assert.NoError(t, parseErr)
			assert.Equal(t, string(body), resp.Header.Get(middleware.SessionHeader))
		})
	}
}
