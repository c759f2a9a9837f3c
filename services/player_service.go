package services

import (
	"log"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerService mirrors player profiles from the external identity service
// and serves the leaderboard. TotalScore is never touched by the sync upsert:
// it belongs to the scoring pipeline alone.
type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

type playerSyncInput struct {
	Players []models.Player `json:"players"`
}

// SyncPlayers handles POST /players/sync — bulk upsert of mirrored profiles.
func (s *PlayerService) SyncPlayers(c *fiber.Ctx) error {
	var in playerSyncInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if len(in.Players) == 0 {
		return c.JSON(fiber.Map{"message": "nothing to sync", "count": 0})
	}

	// Upsert on ID; total_score is deliberately excluded from the update
	// list so a profile sync can never clobber the scoring ledger.
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
	}).Create(&in.Players).Error
	if err != nil {
		log.Printf("❌ Failed to upsert %d player(s): %v", len(in.Players), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sync players"})
	}
	return c.JSON(fiber.Map{"message": "synced", "count": len(in.Players)})
}

// GetLeaderboard handles GET /leaderboard.
func (s *PlayerService) GetLeaderboard(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("total_score DESC").Limit(100).Find(&players).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard"})
	}
	return c.JSON(players)
}
