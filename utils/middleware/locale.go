package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/i18n"
)

const localeKey = "locale"

// Locale resolves the :locale route parameter. Unsupported values are a 404
// so /fr/... does not silently render Arabic.
func Locale() fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, ok := i18n.Parse(c.Params("locale"))
		if !ok {
			return fiber.ErrNotFound
		}
		c.Locals(localeKey, l)
		return c.Next()
	}
}

// CurrentLocale returns the route locale, then ?lang=, then Accept-Language
func CurrentLocale(c *fiber.Ctx) i18n.Locale {
	if l, ok := c.Locals(localeKey).(i18n.Locale); ok {
		return l
	}
	if l, ok := i18n.Parse(c.Params("locale")); ok {
		return l
	}
	if l, ok := i18n.Parse(c.Query("lang")); ok {
		return l
	}
	return i18n.Match(c.Get(fiber.HeaderAcceptLanguage))
}
