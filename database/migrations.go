package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jokehub/internal/http-api/models"

	"gorm.io/gorm"
)

type migration struct {
	name string
	run  func(tx *gorm.DB) error
}

// Ordered list of migrations. Names already recorded in the migrations table
// are skipped, so adding to the end of this list is always safe.
var migrations = []migration{
	{name: "0001_bootstrap_schema", run: migrateBootstrapSchema},
	{name: "0002_backfill_rating_aggregates", run: migrateBackfillRatingAggregates},
	{name: "0003_backfill_keywords", run: migrateBackfillKeywords},
}

// RunMigrations applies all pending migrations. Each migration runs in its own
// transaction together with the bookkeeping row, so a failed migration leaves
// no trace and is retried on the next startup.
func RunMigrations(db *gorm.DB, logger *slog.Logger) error {
	if err := db.AutoMigrate(&models.Migration{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied models.Migration
		err := db.Where("name = ?", m.name).First(&applied).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check migration %s: %w", m.name, err)
		}

		logger.Info("Applying migration", "name", m.name)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := m.run(tx); err != nil {
				return err
			}
			return tx.Create(&models.Migration{Name: m.name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	logger.Info("Database migrations applied successfully")
	return nil
}

func migrateBootstrapSchema(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&models.Joke{}, &models.Category{}, &models.JokeRating{}); err != nil {
		return err
	}
	// Case-insensitive per-user uniqueness for category names. gorm tags can't
	// express an expression index, so it lives here.
	return tx.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_lower_name ON categories (user_id, LOWER(name))`,
	).Error
}

// migrateBackfillRatingAggregates recomputes average_rating and rating_count
// for jokes that accumulated ratings before the aggregates were maintained on
// the live write path.
func migrateBackfillRatingAggregates(tx *gorm.DB) error {
	return tx.Exec(`
		UPDATE jokes SET
			average_rating = r.avg,
			rating_count   = r.cnt
		FROM (
			SELECT joke_id,
			       ROUND(AVG(rating_value)::numeric, 1) AS avg,
			       COUNT(*)                             AS cnt
			FROM "jokeRatings"
			GROUP BY joke_id
		) r
		WHERE jokes.id = r.joke_id`,
	).Error
}

func migrateBackfillKeywords(tx *gorm.DB) error {
	var jokes []models.Joke
	if err := tx.Where("keywords = '' OR keywords IS NULL").Find(&jokes).Error; err != nil {
		return err
	}
	for _, j := range jokes {
		kw := models.JoinKeywords(models.ExtractKeywords(j.Text))
		if kw == "" {
			continue
		}
		if err := tx.Model(&models.Joke{}).Where("id = ?", j.ID).Update("keywords", kw).Error; err != nil {
			return err
		}
	}
	return nil
}
