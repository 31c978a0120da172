package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/application/registry"
)

// ProjectHandler handles project registry HTTP requests (protected).
type ProjectHandler struct {
	uc *registry.ProjectUseCase
}

func NewProjectHandler(uc *registry.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create registers a project under a client (admin).
// POST /api/projects
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	project, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// List lists projects.
// GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projects)
}
