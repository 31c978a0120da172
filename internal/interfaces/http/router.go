package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/internal/application/registry"
	"github.com/laurent7850/The-event/internal/application/tracking"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	WorkEntryUC *tracking.WorkEntryUseCase
	BatchUC     *invoicing.BatchUseCase
	RenderUC    *invoicing.RenderUseCase
	ClientUC    *registry.ClientUseCase
	ProjectUC   *registry.ProjectUseCase
	JWTSecret   string
}

// Router registers the API routes. All routes require a Bearer token;
// role checks happen in the use cases.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Work entries
	entries := api.Group("/work-entries")
	entryHandler := NewWorkEntryHandler(deps.WorkEntryUC)
	entries.Post("/", entryHandler.Create)
	entries.Get("/pending", entryHandler.ListPending)
	entries.Get("/mine", entryHandler.ListMine)
	entries.Put("/:id", entryHandler.Amend)
	entries.Post("/:id/validate", entryHandler.Validate)
	entries.Post("/:id/amend-and-validate", entryHandler.AmendAndValidate)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.BatchUC, deps.RenderUC)
	invoices.Post("/generate", invoiceHandler.Generate)
	invoices.Get("/", invoiceHandler.ListByPeriod)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/render", invoiceHandler.Render)

	// Clients
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Put("/:id", clientHandler.Update)

	// Projects
	projects := api.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
}
