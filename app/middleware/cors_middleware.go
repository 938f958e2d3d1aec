package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AllowWidget lets the browser chat widget call the API from its own
// origin. CHAT_WIDGET_ORIGIN narrows it down in production; "*" is the
// development default.
func AllowWidget(allowedOrigin string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			c.Set(fiber.HeaderAccessControlAllowOrigin, allowedOrigin)
			c.Set(fiber.HeaderAccessControlAllowMethods, "GET,POST,OPTIONS")
			c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
