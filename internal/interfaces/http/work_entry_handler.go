package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/application/tracking"
)

// WorkEntryHandler handles work entry HTTP requests (protected).
type WorkEntryHandler struct {
	uc *tracking.WorkEntryUseCase
}

// NewWorkEntryHandler builds the handler.
func NewWorkEntryHandler(uc *tracking.WorkEntryUseCase) *WorkEntryHandler {
	return &WorkEntryHandler{uc: uc}
}

// Create records a pending work entry for the authenticated collaborator.
// POST /api/work-entries
func (h *WorkEntryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	entry, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListPending lists pending entries awaiting validation (admin).
// GET /api/work-entries/pending
func (h *WorkEntryHandler) ListPending(c *fiber.Ctx) error {
	entries, err := h.uc.ListPending(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// ListMine lists the authenticated collaborator's own entries.
// GET /api/work-entries/mine
func (h *WorkEntryHandler) ListMine(c *fiber.Ctx) error {
	entries, err := h.uc.ListMine(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// Amend corrects a pending entry (admin).
// PUT /api/work-entries/:id
func (h *WorkEntryHandler) Amend(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	var in dto.AmendWorkEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	entry, err := h.uc.Amend(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// Validate approves a pending entry and freezes the client tariff (admin).
// POST /api/work-entries/:id/validate
func (h *WorkEntryHandler) Validate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	entry, err := h.uc.Validate(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// AmendAndValidate applies corrections, then validates in one call (admin).
// The amendment persists even when the validation step fails.
// POST /api/work-entries/:id/amend-and-validate
func (h *WorkEntryHandler) AmendAndValidate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	var in dto.AmendWorkEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	entry, err := h.uc.AmendAndValidate(c.Context(), GetActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}
