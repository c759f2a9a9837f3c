package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/handlers"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/services"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "deadpool-stars-aligned",
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowedOriginsList, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.DeceasedRecord{},
		&models.Prediction{},
		&models.Player{},
		&models.ScrapeRun{},
		&models.RSSFeed{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	sources, err := workers.DefaultSources(db)
	if err != nil {
		log.Fatal("failed to initialize source connectors:", err)
	}

	ingestService := services.NewIngestService(db, sources)
	deceasedService := services.NewDeceasedService(db, ingestService)
	feedService := services.NewFeedService(db)
	playerService := services.NewPlayerService(db)

	ingestService.ReconcileStaleRuns()
	ingestService.StartIngestScheduler()

	handlers.SetupIngestRoutes(app, ingestService)
	handlers.SetupAdminRoutes(app, deceasedService, feedService, playerService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Daily ingestion scheduler running")
	log.Printf("✅ Source connectors registered: %s", sourceNames(sources))

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}

func sourceNames(sources []workers.Source) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return strings.Join(names, ", ")
}
