package routes

import (
	"roadmap/backend/controllers"
	"roadmap/backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, s *store.Store, gatherer prometheus.Gatherer) {
	// Roadmap routes
	roadmapController := controllers.NewRoadmapController(s.Catalog())
	app.Get("/api/roadmap", roadmapController.GetRoadmap)
	app.Get("/api/roadmap/phases/:phase", roadmapController.GetPhase)

	// Progress routes
	progressController := controllers.NewProgressController(s)
	progress := app.Group("/api/progress")
	progress.Get("/", progressController.GetProgress)
	progress.Get("/overview", progressController.GetProgressOverview)
	progress.Get("/phases/:phase", progressController.GetPhaseProgress)
	progress.Post("/phases/:phase/steps/:step/toggle", progressController.ToggleStep)

	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
