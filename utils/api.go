package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/utils/response"
)

// MakeHTTPHandleFunc binds a store to a handler and turns a returned error
// into the error envelope
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return response.ServiceUnavailable(c, err.Error())
		}
		return nil
	}
}
