package migrations

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"gorm.io/gorm"
)

// CurrentVersion is the schema version a fresh or upgraded store ends at.
const CurrentVersion = 3

// Step upgrades the schema from version From.
type Step struct {
	From int
	Name string
	Up   func(tx *gorm.DB) error
	// Tolerant steps may fail without aborting the upgrade, e.g. when the
	// column they add already exists.
	Tolerant bool
}

// Ladder is the ordered list of steps leading to Target.
type Ladder struct {
	Target int
	Steps  []Step
	logger *slog.Logger
}

// Default returns the ladder of the meal store.
func Default() *Ladder {
	return &Ladder{
		Target: CurrentVersion,
		Steps: []Step{
			{
				From:     1,
				Name:     "add_foods_image",
				Tolerant: true,
				Up: func(tx *gorm.DB) error {
					return tx.Exec("ALTER TABLE foods ADD COLUMN image TEXT").Error
				},
			},
		},
	}
}

// WithLogger returns the ladder logging through l.
func (l *Ladder) WithLogger(logger *slog.Logger) *Ladder {
	l.logger = logger
	return l
}

func (l *Ladder) log() *slog.Logger {
	if l.logger == nil {
		return slog.Default()
	}
	return l.logger
}

// Version reads the recorded schema version; an empty table means 1.
func Version(ctx context.Context, db *gorm.DB) (int, error) {
	var version int
	if err := db.WithContext(ctx).Raw("SELECT COALESCE(MAX(version), 1) FROM db_version").Scan(&version).Error; err != nil {
		return 0, err
	}
	return version, nil
}

// Run brings the database to Target and returns the number of steps applied.
// A database already at Target is left untouched.
func (l *Ladder) Run(ctx context.Context, db *gorm.DB) (int, error) {
	version, err := Version(ctx, db)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "MIGRATION", "failed to read schema version")
	}
	if version >= l.Target {
		return 0, nil
	}

	log := l.log().With("from_version", version, "target_version", l.Target)
	log.InfoContext(ctx, "Upgrading schema")

	applied := 0
	for _, step := range l.Steps {
		if step.From < version || step.From >= l.Target {
			continue
		}
		log.InfoContext(ctx, "Running migration", "step", step.Name)
		if err := step.Up(db.WithContext(ctx)); err != nil {
			if step.Tolerant {
				log.WarnContext(ctx, "Migration step failed, continuing", "step", step.Name, "error", err)
				applied++
				continue
			}
			return applied, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "MIGRATION",
				fmt.Sprintf("migration %s failed", step.Name))
		}
		applied++
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM db_version").Error; err != nil {
			return err
		}
		return tx.Exec("INSERT INTO db_version (version) VALUES (?)", l.Target).Error
	})
	if err != nil {
		return applied, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "MIGRATION", "failed to record schema version")
	}

	log.InfoContext(ctx, "Schema upgraded", "steps", applied)
	return applied, nil
}
