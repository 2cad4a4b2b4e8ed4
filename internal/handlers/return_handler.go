package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"ordermgmt/internal/services"
)

// ReturnHandler handles HTTP requests for returns.
type ReturnHandler struct {
	service *services.ReturnService
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(service *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: service}
}

// RegisterRoutes registers the return routes with the Fiber app.
func (h *ReturnHandler) RegisterRoutes(router fiber.Router) {
	returnRoutes := router.Group("/returns")
	returnRoutes.Get("/", h.HandleGetReturns)
	returnRoutes.Get("/:id", h.HandleGetReturnByID)
	returnRoutes.Post("/", h.HandleCreateReturn)
	returnRoutes.Post("/:id/transition", h.HandleTransitionReturn)
}

// HandleGetReturns retrieves all returns.
func (h *ReturnHandler) HandleGetReturns(c *fiber.Ctx) error {
	returns, err := h.service.GetAllReturns()
	if err != nil {
		log.Printf("Error getting all returns: %v", err)
		return respondError(c, err)
	}
	return c.JSON(returns)
}

// HandleGetReturnByID retrieves a single return by its ID.
func (h *ReturnHandler) HandleGetReturnByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ret, err := h.service.GetReturnByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ret)
}

// HandleCreateReturn initiates a new return against a delivered order.
func (h *ReturnHandler) HandleCreateReturn(c *fiber.Ctx) error {
	var input services.CreateReturnInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
			"error":   err.Error(),
		})
	}

	ret, err := h.service.CreateReturn(input)
	if err != nil {
		log.Printf("Error creating return: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ret)
}

// HandleTransitionReturn applies a lifecycle action to a return and returns
// the updated return. The optional reason is stored on rejection.
func (h *ReturnHandler) HandleTransitionReturn(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var body struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
			"error":   err.Error(),
		})
	}
	if body.Action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "action is required",
		})
	}

	ret, err := h.service.TransitionReturn(id, body.Action, body.Reason)
	if err != nil {
		log.Printf("Error transitioning return %d with action %q: %v", id, body.Action, err)
		return respondError(c, err)
	}
	return c.JSON(ret)
}
