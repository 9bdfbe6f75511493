package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/models"
	"shopapi/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders retrieves orders with pagination, each with its items and
// their products embedded.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	offset, limit, err := pagination(c)
	if err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, err.Error())
	}
	orders, err := h.service.ListOrders(c.Context(), offset, limit)
	if err != nil {
		return serviceError(c, err)
	}
	responses := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, orders[i].Response())
	}
	return c.JSON(responses)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(order.Response())
}

// HandleCreateOrder validates and creates a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.OrderCreate
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusUnprocessableEntity, "Invalid request body.")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}
	order, err := h.service.CreateOrder(c.Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order.Response())
}

// HandleUpdateOrderStatus sets the order's status. The new status is taken
// from the status query parameter.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	status := models.OrderStatus(c.Query("status"))
	if status == "" {
		return detail(c, fiber.StatusUnprocessableEntity, "Status query parameter is required.")
	}
	order, err := h.service.UpdateOrderStatus(c.Context(), c.Params("id"), status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(order.Response())
}
