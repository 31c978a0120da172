package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/application/registry"
)

// ClientHandler handles client registry HTTP requests (protected).
type ClientHandler struct {
	uc *registry.ClientUseCase
}

func NewClientHandler(uc *registry.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create registers a client (admin).
// POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	client, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// List lists clients.
// GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clients)
}

// Update changes client data, the hourly rate included (admin).
// Already validated entries keep their frozen tariff.
// PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	client, err := h.uc.Update(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}
