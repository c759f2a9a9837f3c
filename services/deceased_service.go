package services

import (
	"fmt"
	"log"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeceasedService owns the admin surface over canonical death records:
// manual entry, approval, bonus-flag edits, and rejection. Rejection is the
// delicate one — it must put player totals back exactly where they were.
type DeceasedService struct {
	DB     *gorm.DB
	Ingest *IngestService
}

func NewDeceasedService(db *gorm.DB, ingest *IngestService) *DeceasedService {
	return &DeceasedService{DB: db, Ingest: ingest}
}

// GetDeceased handles GET /deceased?year=&approved=.
func (s *DeceasedService) GetDeceased(c *fiber.Ctx) error {
	q := s.DB.Order("date_of_death DESC")
	if year := c.QueryInt("year"); year > 0 {
		q = q.Where("game_year = ?", year)
	}
	if c.Query("approved") == "true" {
		q = q.Where("is_approved = ?", true)
	}

	var records []models.DeceasedRecord
	if err := q.Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load records"})
	}
	return c.JSON(records)
}

type manualDeathInput struct {
	Name          string `json:"name"`
	DateOfDeath   string `json:"date_of_death"`
	DateOfBirth   string `json:"date_of_birth,omitempty"`
	Age           *int   `json:"age,omitempty"`
	CauseText     string `json:"cause_text,omitempty"`
	SourceURL     string `json:"source_url,omitempty"`
	GameYear      int    `json:"game_year,omitempty"`
}

// CreateManual handles POST /deceased — admin-entered deaths. These go
// through the same candidate path as scraped ones, but arrive pre-approved
// and score immediately.
func (s *DeceasedService) CreateManual(c *fiber.Ctx) error {
	var in manualDeathInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if in.Name == "" || in.DateOfDeath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and date_of_death are required"})
	}

	cand := models.CandidateDeath{
		Name:      in.Name,
		CauseText: in.CauseText,
		Age:       in.Age,
		SourceTag: models.SourceManual,
		SourceURL: in.SourceURL,
		Confirmed: true,
	}

	var ok bool
	if cand.DateOfDeath, ok = utils.ParseFlexibleDate(in.DateOfDeath); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date_of_death (use YYYY-MM-DD)"})
	}
	if in.DateOfBirth != "" {
		dob, ok := utils.ParseFlexibleDate(in.DateOfBirth)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date_of_birth (use YYYY-MM-DD)"})
		}
		cand.DateOfBirth = &dob
	}

	gameYear := in.GameYear
	if gameYear == 0 {
		gameYear = cand.DateOfDeath.Year()
	}

	normalized := NormalizeCandidates([]models.CandidateDeath{cand})
	if len(normalized) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entry failed plausibility checks"})
	}

	added, picks, err := s.Ingest.ProcessCandidate(normalized[0], gameYear)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !added {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "record already exists", "picks_scored": 0})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "record created", "picks_scored": picks})
}

// Approve handles PATCH /deceased/:id/approve.
func (s *DeceasedService) Approve(c *fiber.Ctx) error {
	res := s.DB.Model(&models.DeceasedRecord{}).
		Where("id = ?", c.Params("id")).
		Update("is_approved", true)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to approve"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}
	return c.JSON(fiber.Map{"message": "approved"})
}

type bonusFlagsInput struct {
	DiedOnBirthday        *bool `json:"died_on_birthday,omitempty"`
	DiedOnMajorHoliday    *bool `json:"died_on_major_holiday,omitempty"`
	DiedDuringPublicEvent *bool `json:"died_during_public_event,omitempty"`
	DiedInExtremeSport    *bool `json:"died_in_extreme_sport,omitempty"`
	IsFirstDeathOfYear    *bool `json:"is_first_death_of_year,omitempty"`
	IsLastDeathOfYear     *bool `json:"is_last_death_of_year,omitempty"`
}

// UpdateFlags handles PATCH /deceased/:id/flags. Flag edits change how the
// record would score going forward; already-hit predictions keep the points
// they were awarded (their records are immutable once hit).
func (s *DeceasedService) UpdateFlags(c *fiber.Ctx) error {
	var in bonusFlagsInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	updates := map[string]interface{}{}
	set := func(col string, v *bool) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("died_on_birthday", in.DiedOnBirthday)
	set("died_on_major_holiday", in.DiedOnMajorHoliday)
	set("died_during_public_event", in.DiedDuringPublicEvent)
	set("died_in_extreme_sport", in.DiedInExtremeSport)
	set("is_first_death_of_year", in.IsFirstDeathOfYear)
	set("is_last_death_of_year", in.IsLastDeathOfYear)
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no flags provided"})
	}

	res := s.DB.Model(&models.DeceasedRecord{}).Where("id = ?", c.Params("id")).Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update flags"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}
	return c.JSON(fiber.Map{"message": "flags updated"})
}

// Reject handles DELETE /deceased/:id — admin rejection of a record.
func (s *DeceasedService) Reject(c *fiber.Ctx) error {
	reversed, err := s.RejectRecord(c.Params("id"))
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "record not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "record rejected", "predictions_reversed": reversed})
}

// RejectRecord deletes a record and reverses every score it produced:
// each prediction it hit goes back to not-hit with zero points, and the
// exact awarded points are atomically deducted from the owner's total. A
// prediction is only reverted by a conditional update so a concurrent
// reversal cannot deduct twice.
func (s *DeceasedService) RejectRecord(id string) (int, error) {
	var rec models.DeceasedRecord
	if err := s.DB.Where("id = ?", id).First(&rec).Error; err != nil {
		return 0, err
	}

	var preds []models.Prediction
	if err := s.DB.Where("matched_deceased_id = ? AND is_hit = ?", id, true).Find(&preds).Error; err != nil {
		return 0, fmt.Errorf("failed to load scored predictions: %w", err)
	}

	reversed := 0
	for _, p := range preds {
		res := s.DB.Model(&models.Prediction{}).
			Where("id = ? AND is_hit = ? AND matched_deceased_id = ?", p.ID, true, id).
			Updates(map[string]interface{}{
				"is_hit":              false,
				"points_awarded":      0,
				"matched_deceased_id": nil,
			})
		if res.Error != nil {
			log.Printf("⚠️  [Deceased] Failed to revert prediction %s: %v", p.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}

		if err := s.DB.Model(&models.Player{}).Where("id = ?", p.OwnerID).
			UpdateColumn("total_score", gorm.Expr("total_score - ?", p.PointsAwarded)).Error; err != nil {
			log.Printf("⚠️  [Deceased] Failed to debit player %s: %v", p.OwnerID, err)
			continue
		}
		reversed++
	}

	if err := s.DB.Delete(&rec).Error; err != nil {
		return reversed, fmt.Errorf("failed to delete record: %w", err)
	}
	log.Printf("[Deceased] Rejected %s, reversed %d prediction(s)", rec.CanonicalName, reversed)
	return reversed, nil
}
