package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/response"
)

var statusMessages = map[int]string{
	fiber.StatusBadRequest:         "errors.badRequest",
	fiber.StatusNotFound:           "errors.notFound",
	fiber.StatusTooManyRequests:    "errors.tooManyRequests",
	fiber.StatusServiceUnavailable: "errors.serviceUnavailable",
}

// ErrorHandler answers /api requests with the error envelope and everything
// else with the localized error page
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}

	l := middleware.CurrentLocale(c)
	key, ok := statusMessages[code]
	if !ok {
		key = "errors.generic"
	}
	message := i18n.T(l, key)

	if strings.HasPrefix(c.Path(), "/api/") {
		return response.Error(c, code, message, strings.ToUpper(strings.ReplaceAll(fiberStatusText(code), " ", "_")))
	}

	page := NewPage(c, "errors.title")
	page["Status"] = code
	page["Message"] = message
	c.Status(code)
	if rerr := c.Render("errors/error", page, LayoutMain); rerr != nil {
		log.Printf("error page render failed: %v", rerr)
		return c.Status(code).SendString(message)
	}
	return nil
}

func fiberStatusText(code int) string {
	if s := utils.StatusMessage(code); s != "" {
		return s
	}
	return "error"
}
