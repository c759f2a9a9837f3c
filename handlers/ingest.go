package handlers

import (
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/middleware"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/services"

	"github.com/gofiber/fiber/v2"
)

// SetupIngestRoutes wires the ingestion trigger surface. Everything here is
// service-token gated: the host scheduler and operators are the only callers.
func SetupIngestRoutes(app *fiber.App, ingestService *services.IngestService) {
	secured := app.Group("/ingest", middleware.ServiceAuthMiddleware())

	// Trigger a run across all connectors, or one connector by name
	// (tabular, feed, structured, biography). Optional query params:
	// days, target_date (YYYY-MM-DD), game_year.
	secured.Post("/run", ingestService.TriggerRun)
	secured.Post("/run/:source", ingestService.TriggerRun)

	// Run history for diagnosis.
	secured.Get("/runs", ingestService.GetRuns)
}
