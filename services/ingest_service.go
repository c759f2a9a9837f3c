package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/models"
	"github.com/Aggiebryan/deadpool-stars-aligned-sub000/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngestOptions are the trigger parameters: run one source or all, with an
// optional recency window or specific target date.
type IngestOptions struct {
	Source     string // connector name, "" = all in priority order
	Days       int
	TargetDate *time.Time
	GameYear   int // 0 = derived from target date / current year
	Manual     bool
}

// IngestSummary is the structured response handed back to the trigger caller.
type IngestSummary struct {
	TotalDeaths int    `json:"totalDeaths"`
	DeathsAdded int    `json:"deathsAdded"`
	PicksScored int    `json:"picksScored"`
	Source      string `json:"source"`
	Message     string `json:"message"`
	RunID       string `json:"run_id"`
}

type IngestService struct {
	DB      *gorm.DB
	Sources []workers.Source // priority order, earlier wins dedup ties
}

func NewIngestService(db *gorm.DB, sources []workers.Source) *IngestService {
	return &IngestService{DB: db, Sources: sources}
}

// RunIngest executes one full ingestion run: fetch candidates from the
// selected connectors, normalize, then persist and score each candidate in
// sequence. Connector and per-candidate failures are recovered locally; only
// run-log bookkeeping failures abort the run.
func (s *IngestService) RunIngest(ctx context.Context, opts IngestOptions) (*IngestSummary, error) {
	sources, err := s.selectSources(opts.Source)
	if err != nil {
		return nil, err
	}

	gameYear := opts.GameYear
	if gameYear == 0 {
		if opts.TargetDate != nil {
			gameYear = opts.TargetDate.Year()
		} else {
			gameYear = time.Now().UTC().Year()
		}
	}

	sourceLabel := opts.Source
	if sourceLabel == "" {
		sourceLabel = "all"
	}

	run := models.ScrapeRun{
		ID:     uuid.NewString(),
		Status: models.RunStatusRunning,
		Source: sourceLabel,
	}
	if err := s.DB.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}
	log.Printf("[Ingest] Run %s started (source=%s, year=%d)", run.ID, sourceLabel, gameYear)

	params := workers.FetchParams{
		Days:       opts.Days,
		TargetDate: opts.TargetDate,
		GameYear:   gameYear,
		RunID:      run.ID,
	}

	candidates := s.fetchAll(ctx, sources, params)
	normalized := NormalizeCandidates(candidates)

	added, scored := 0, 0
	for _, c := range normalized {
		wasAdded, picks, err := s.ProcessCandidate(c, gameYear)
		if err != nil {
			// Candidate-level persistence failure: log, move on. The run
			// keeps its partial progress; a re-run is idempotent.
			log.Printf("⚠️  [Ingest] Failed to process %q: %v", c.Name, err)
			continue
		}
		if wasAdded {
			added++
		}
		scored += picks
	}

	now := time.Now().UTC()
	err = s.DB.Model(&models.ScrapeRun{}).Where("id = ?", run.ID).Updates(map[string]interface{}{
		"status":       models.RunStatusCompleted,
		"completed_at": now,
		"deaths_found": len(normalized),
		"deaths_added": added,
		"picks_scored": scored,
	}).Error
	if err != nil {
		// The one fatal failure class: the run log itself.
		s.markRunFailed(run.ID, err)
		return nil, fmt.Errorf("failed to finalize run log: %w", err)
	}

	msg := fmt.Sprintf("Found %d death(s), added %d, scored %d pick(s)", len(normalized), added, scored)
	log.Printf("✅ [Ingest] Run %s completed: %s", run.ID, msg)
	return &IngestSummary{
		TotalDeaths: len(normalized),
		DeathsAdded: added,
		PicksScored: scored,
		Source:      sourceLabel,
		Message:     msg,
		RunID:       run.ID,
	}, nil
}

// fetchAll invokes the connectors concurrently (they are independent and
// read-only externally) but reassembles results in priority order, so the
// normalizer's first-wins dedup stays reproducible.
func (s *IngestService) fetchAll(ctx context.Context, sources []workers.Source, params workers.FetchParams) []models.CandidateDeath {
	results := make([][]models.CandidateDeath, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src workers.Source) {
			defer wg.Done()
			cands, err := src.FetchCandidates(ctx, params)
			if err != nil {
				log.Printf("⚠️  [Ingest] Source %s failed: %v", src.Name(), err)
				return
			}
			results[i] = cands
		}(i, src)
	}
	wg.Wait()

	var all []models.CandidateDeath
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// ProcessCandidate persists one normalized candidate and propagates its
// score. Returns whether a new record was inserted and how many predictions
// were scored. The existence pre-check is an optimization only: the unique
// (name_key, date_of_death) index with conflict-ignore is what actually
// guarantees the dedup invariant under concurrent runs.
func (s *IngestService) ProcessCandidate(c models.CandidateDeath, gameYear int) (bool, int, error) {
	nameKey := NameKey(c.Name)
	dod := DateOnly(c.DateOfDeath)

	var existing models.DeceasedRecord
	err := s.DB.Where("name_key = ? AND date_of_death = ?", nameKey, dod).First(&existing).Error
	if err == nil {
		return false, 0, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, 0, fmt.Errorf("existence check failed: %w", err)
	}

	rec := models.DeceasedRecord{
		ID:            uuid.NewString(),
		CanonicalName: c.Name,
		NameKey:       nameKey,
		DateOfBirth:   c.DateOfBirth,
		DateOfDeath:   dod,
		CauseCategory: c.CauseCategory,
		CauseDetails:  c.CauseText,
		GameYear:      gameYear,
		IsApproved:    c.Confirmed,
		SourceURL:     c.SourceURL,
		SourceTag:     c.SourceTag,
	}
	if rec.CauseCategory == "" {
		rec.CauseCategory = models.CauseUnknown
	}
	if c.Age != nil {
		rec.AgeAtDeath = *c.Age
	} else if c.DateOfBirth != nil {
		rec.AgeAtDeath = AgeBetween(*c.DateOfBirth, dod)
	}

	// Automatic bonus flags: these two are knowable at creation time.
	if c.DateOfBirth != nil && c.DateOfBirth.Month() == dod.Month() && c.DateOfBirth.Day() == dod.Day() {
		rec.DiedOnBirthday = true
	}
	var yearCount int64
	if err := s.DB.Model(&models.DeceasedRecord{}).Where("game_year = ?", gameYear).Count(&yearCount).Error; err == nil && yearCount == 0 {
		rec.IsFirstDeathOfYear = true
	}

	res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return false, 0, fmt.Errorf("insert failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent run inserted the same (name, date) between our check
		// and the insert. Duplicate is success-no-op.
		return false, 0, nil
	}

	if rec.AgeAtDeath == 0 {
		// Age unknown: the base is age-driven, so scoring would treat the
		// person as a newborn. Keep the record for curation; an admin
		// re-enters it with the age to score it.
		log.Printf("[Ingest] Added %s (%s) without a known age; scoring deferred", rec.CanonicalName, dod.Format("2006-01-02"))
		return true, 0, nil
	}

	points := ScoreDeath(&rec)
	scored := s.awardPredictions(&rec, points)
	log.Printf("[Ingest] Added %s (%s, %d pts, %d pick(s) scored)", rec.CanonicalName, dod.Format("2006-01-02"), points, scored)
	return true, scored, nil
}

// awardPredictions flips every outstanding matching prediction exactly once
// and applies the points to its owner's running total. Matching is by folded
// name key, so casing and accents in player-entered names don't matter. The
// conditional update is the at-most-once guard: a prediction another run
// already hit loses the race here and is simply skipped.
func (s *IngestService) awardPredictions(rec *models.DeceasedRecord, points int) int {
	var preds []models.Prediction
	err := s.DB.Where("game_year = ? AND is_hit = ?", rec.GameYear, false).Find(&preds).Error
	if err != nil {
		log.Printf("⚠️  [Ingest] Prediction lookup failed for %s: %v", rec.CanonicalName, err)
		return 0
	}

	scored := 0
	for _, p := range preds {
		if NameKey(p.CelebrityName) != rec.NameKey {
			continue
		}

		res := s.DB.Model(&models.Prediction{}).
			Where("id = ? AND is_hit = ?", p.ID, false).
			Updates(map[string]interface{}{
				"is_hit":              true,
				"points_awarded":      points,
				"matched_deceased_id": rec.ID,
			})
		if res.Error != nil {
			log.Printf("⚠️  [Ingest] Failed to score prediction %s: %v", p.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}

		// Relative increment only — never read-modify-write a total in
		// application code.
		if err := s.DB.Model(&models.Player{}).Where("id = ?", p.OwnerID).
			UpdateColumn("total_score", gorm.Expr("total_score + ?", points)).Error; err != nil {
			log.Printf("⚠️  [Ingest] Failed to credit player %s: %v", p.OwnerID, err)
			continue
		}
		scored++
	}
	return scored
}

func (s *IngestService) selectSources(name string) ([]workers.Source, error) {
	if name == "" {
		return s.Sources, nil
	}
	for _, src := range s.Sources {
		if src.Name() == name {
			return []workers.Source{src}, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q", name)
}

func (s *IngestService) markRunFailed(runID string, cause error) {
	now := time.Now().UTC()
	err := s.DB.Model(&models.ScrapeRun{}).Where("id = ?", runID).Updates(map[string]interface{}{
		"status":        models.RunStatusFailed,
		"completed_at":  now,
		"error_message": cause.Error(),
	}).Error
	if err != nil {
		log.Printf("❌ [Ingest] Could not mark run %s failed: %v", runID, err)
	}
}

// ReconcileStaleRuns fails any run left in running state for over a day — an
// aborted host request leaves the log row dangling otherwise.
func (s *IngestService) ReconcileStaleRuns() {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	res := s.DB.Model(&models.ScrapeRun{}).
		Where("status = ? AND started_at < ?", models.RunStatusRunning, cutoff).
		Updates(map[string]interface{}{
			"status":        models.RunStatusFailed,
			"completed_at":  time.Now().UTC(),
			"error_message": "stale run reconciled at startup",
		})
	if res.Error != nil {
		log.Printf("⚠️  [Ingest] Stale run reconcile failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[Ingest] Reconciled %d stale run(s)", res.RowsAffected)
	}
}

// --- HTTP trigger surface ---

// TriggerRun handles POST /ingest/run and POST /ingest/run/:source.
func (s *IngestService) TriggerRun(c *fiber.Ctx) error {
	opts := IngestOptions{
		Source: c.Params("source"),
		Manual: true,
	}

	if days := c.QueryInt("days"); days > 0 {
		opts.Days = days
	}
	if raw := c.Query("target_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid target_date (use YYYY-MM-DD)"})
		}
		opts.TargetDate = &t
	}
	if year := c.QueryInt("game_year"); year > 0 {
		opts.GameYear = year
	}

	summary, err := s.RunIngest(c.Context(), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// GetRuns handles GET /ingest/runs — recent run history for diagnosis.
func (s *IngestService) GetRuns(c *fiber.Ctx) error {
	var runs []models.ScrapeRun
	if err := s.DB.Order("started_at DESC").Limit(50).Find(&runs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load runs"})
	}
	return c.JSON(runs)
}
