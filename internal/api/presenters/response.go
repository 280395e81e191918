package presenters

import (
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

func ValidationErrorResponse(c *fiber.Ctx, message string, fields map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Status:  false,
		Message: message,
		Error:   "validation failed",
		Errors:  fields,
	})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
