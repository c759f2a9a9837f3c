package services

import (
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedService manages the RSS allow-list the feed connector polls.
type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

func (s *FeedService) GetFeeds(c *fiber.Ctx) error {
	var feeds []models.RSSFeed
	if err := s.DB.Order("name").Find(&feeds).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load feeds"})
	}
	return c.JSON(feeds)
}

type feedInput struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (s *FeedService) CreateFeed(c *fiber.Ctx) error {
	var in feedInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if in.Name == "" || in.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and url are required"})
	}

	feed := models.RSSFeed{
		ID:       uuid.NewString(),
		Name:     in.Name,
		URL:      in.URL,
		IsActive: true,
	}
	if in.IsActive != nil {
		feed.IsActive = *in.IsActive
	}
	if err := s.DB.Create(&feed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create feed"})
	}
	return c.Status(fiber.StatusCreated).JSON(feed)
}

func (s *FeedService) UpdateFeed(c *fiber.Ctx) error {
	var in feedInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.URL != "" {
		updates["url"] = in.URL
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nothing to update"})
	}

	res := s.DB.Model(&models.RSSFeed{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update feed"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "feed not found"})
	}
	return c.JSON(fiber.Map{"message": "feed updated"})
}

func (s *FeedService) DeleteFeed(c *fiber.Ctx) error {
	res := s.DB.Where("id = ?", c.Params("id")).Delete(&models.RSSFeed{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete feed"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "feed not found"})
	}
	return c.JSON(fiber.Map{"message": "feed deleted"})
}
