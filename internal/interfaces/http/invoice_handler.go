package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/application/invoicing"
)

// InvoiceHandler handles invoicing HTTP requests (protected, admin).
type InvoiceHandler struct {
	batch  *invoicing.BatchUseCase
	render *invoicing.RenderUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(batch *invoicing.BatchUseCase, render *invoicing.RenderUseCase) *InvoiceHandler {
	return &InvoiceHandler{batch: batch, render: render}
}

// Generate runs the monthly invoice batch for a period.
// POST /api/invoices/generate
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoicesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	out, err := h.batch.GenerateForPeriod(c.Context(), GetActor(c), in.Month, in.Year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID returns one invoice.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	inv, err := h.batch.GetInvoice(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// ListByPeriod lists invoices for a billing period.
// GET /api/invoices?month=MM&year=YYYY
func (h *InvoiceHandler) ListByPeriod(c *fiber.Ctx) error {
	month, errM := strconv.Atoi(c.Query("month"))
	year, errY := strconv.Atoi(c.Query("year"))
	if errM != nil || errY != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paramètres month et year requis"})
	}
	invoices, err := h.batch.ListForPeriod(c.Context(), GetActor(c), month, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// Render retries PDF generation for an invoice whose link is still missing.
// POST /api/invoices/:id/render
func (h *InvoiceHandler) Render(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requis"})
	}
	inv, err := h.render.Render(c.Context(), GetActor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}
