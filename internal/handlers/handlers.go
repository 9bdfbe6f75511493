package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/models"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

// pagination parses and bounds-checks the offset and limit query
// parameters. A non-integer or out-of-range value is a 422.
func pagination(c *fiber.Ctx) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("offset must be a non-negative integer")
	}
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > maxLimit {
		return 0, 0, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
	}
	return offset, limit, nil
}

// detail writes the structured error payload used across the API.
func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

// validationDetail writes a 422 with a per-field breakdown of the
// validation failure.
func validationDetail(c *fiber.Ctx, err error) error {
	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"detail": "Validation failed",
		"errors": fields,
	})
}

// serviceError maps the error taxonomy onto HTTP statuses: not-found is 404,
// duplicate references and insufficient stock are 400, everything else is an
// unexpected store failure and stays a 500 without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return detail(c, fiber.StatusNotFound, notFound.Error())
	}
	var stock *models.InsufficientStockError
	if errors.As(err, &stock) {
		return detail(c, fiber.StatusBadRequest, stock.Error())
	}
	if errors.Is(err, models.ErrDuplicateProductID) {
		return detail(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, models.ErrInvalidOrderStatus) {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
	return detail(c, fiber.StatusInternalServerError, "Internal server error.")
}
