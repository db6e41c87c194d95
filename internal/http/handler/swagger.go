package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"validoc/docs"
)

// Swagger serves the Swagger UI and doc.json. The documented host follows the
// request's Host header, falling back to defaultHost (APP_HOST), and the scheme
// honours X-Forwarded-Proto.
func Swagger(defaultHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		host := c.Get(fiber.HeaderHost)
		if host == "" {
			host = defaultHost
		}

		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
