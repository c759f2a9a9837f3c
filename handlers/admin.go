package handlers

import (
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/middleware"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires record curation, the feed allow-list, and the
// player mirror/leaderboard surface.
func SetupAdminRoutes(app *fiber.App, deceasedService *services.DeceasedService, feedService *services.FeedService, playerService *services.PlayerService) {
	// 🔓 Public read surface
	app.Get("/leaderboard", playerService.GetLeaderboard)

	// 🔐 Service-token gated
	secured := app.Group("/", middleware.ServiceAuthMiddleware())

	// Deceased record curation
	secured.Get("/deceased", deceasedService.GetDeceased)
	secured.Post("/deceased", deceasedService.CreateManual)
	secured.Patch("/deceased/:id/approve", deceasedService.Approve)
	secured.Patch("/deceased/:id/flags", deceasedService.UpdateFlags)
	secured.Delete("/deceased/:id", deceasedService.Reject)

	// RSS feed allow-list
	secured.Get("/feeds", feedService.GetFeeds)
	secured.Post("/feeds", feedService.CreateFeed)
	secured.Put("/feeds/:id", feedService.UpdateFeed)
	secured.Delete("/feeds/:id", feedService.DeleteFeed)

	// Player profile mirror sync
	secured.Post("/players/sync", playerService.SyncPlayers)
}
