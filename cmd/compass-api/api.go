// Package main provides the Compass API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/sellerkit/compass/pkg/eventbus"
	"github.com/sellerkit/compass/pkg/persistence"
	"github.com/sellerkit/compass/pkg/services"
	"github.com/sellerkit/compass/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		persistence: persistence,
		logger:      logger,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence)
	compositionService := services.NewComposition(a.persistence, a.eventBus)
	executionService := services.NewExecution(a.persistence, a.eventBus)
	campaignService := services.NewCampaign(a.persistence)
	catalogService := services.NewCatalog(a.persistence)
	guideService := services.NewGuide(a.persistence)

	handlers := web.NewAPIHandlers(
		workflowService,
		compositionService,
		executionService,
		campaignService,
		catalogService,
		guideService,
		a.validate,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Compass API")
	})

	co := app.Group("/compositions")
	co.Get("/", handlers.GetCompositions)
	co.Post("/", handlers.CreateComposition)
	co.Get("/:id", handlers.GetComposition)
	co.Delete("/:id", handlers.DeleteComposition)
	co.Get("/:id/summary", handlers.GetCompositionSummary)
	co.Get("/:id/executions", handlers.GetCompositionExecutions)

	e := app.Group("/executions")
	e.Post("/", handlers.DispatchExecution)
	e.Get("/:id", handlers.GetExecution)
	e.Patch("/:id/status", handlers.ReportExecutionStatus)

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Get("/:id/executions", handlers.GetWorkflowExecutions)

	app.Get("/campaigns", handlers.SearchCampaigns)

	p := app.Group("/products")
	p.Get("/", handlers.GetProducts)
	p.Put("/:asin", handlers.SaveProduct)

	g := app.Group("/guides")
	g.Get("/", handlers.GetGuides)
	g.Get("/:slug", handlers.GetGuide)
	g.Put("/:slug", handlers.SaveGuide)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
