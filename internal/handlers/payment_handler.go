package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/services"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	service *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Get("/", h.HandleGetPayments)
	paymentRoutes.Get("/:id", h.HandleGetPaymentByID)
	paymentRoutes.Post("/", h.HandleCreatePayment)
	paymentRoutes.Post("/:id/process", h.HandleProcessPayment)
	paymentRoutes.Post("/:id/refund", h.HandleProcessRefund)
}

// HandleGetPayments retrieves all payments.
func (h *PaymentHandler) HandleGetPayments(c *fiber.Ctx) error {
	payments, err := h.service.GetAllPayments()
	if err != nil {
		log.Printf("Error getting all payments: %v", err)
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// HandleGetPaymentByID retrieves a single payment by its ID.
func (h *PaymentHandler) HandleGetPaymentByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	payment, err := h.service.GetPaymentByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

// HandleCreatePayment records a new pending payment for an order.
func (h *PaymentHandler) HandleCreatePayment(c *fiber.Ctx) error {
	var input services.CreatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
			"error":   err.Error(),
		})
	}

	payment, err := h.service.CreatePayment(input)
	if err != nil {
		log.Printf("Error creating payment: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// HandleProcessPayment completes a payment through the simulated gateway.
func (h *PaymentHandler) HandleProcessPayment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	payment, err := h.service.ProcessPayment(id)
	if err != nil {
		log.Printf("Error processing payment %d: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(payment)
}

// HandleProcessRefund refunds a payment; with no amount in the body the
// remaining balance is refunded in full.
func (h *PaymentHandler) HandleProcessRefund(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var body struct {
		Amount *decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
			"error":   err.Error(),
		})
	}

	payment, err := h.service.ProcessRefund(id, body.Amount)
	if err != nil {
		log.Printf("Error refunding payment %d: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(payment)
}
