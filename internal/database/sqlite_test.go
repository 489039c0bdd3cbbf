package database

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/database/migrations"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingOpen wraps the real opener and counts its calls.
func countingOpen(s *Store, delay time.Duration) *atomic.Int32 {
	var calls atomic.Int32
	s.open = func(path string, logger *slog.Logger) (*gorm.DB, error) {
		calls.Add(1)
		time.Sleep(delay)
		return openSQLite(path, logger)
	}
	return &calls
}

func schemaVersion(t *testing.T, s *Store) int {
	t.Helper()
	db, err := s.DB(context.Background())
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	version, err := migrations.Version(context.Background(), db)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	return version
}

func TestInitConcurrentCallersShareOneAttempt(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	defer s.Close()
	opens := countingOpen(s, 50*time.Millisecond)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			return s.Init(context.Background())
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := opens.Load(); got != 1 {
		t.Fatalf("open called %d times, want 1", got)
	}
	if v := schemaVersion(t, s); v != migrations.CurrentVersion {
		t.Fatalf("version = %d, want %d", v, migrations.CurrentVersion)
	}
}

func TestInitReadyIsNoop(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	defer s.Close()
	opens := countingOpen(s, 0)

	for i := 0; i < 3; i++ {
		if err := s.Init(context.Background()); err != nil {
			t.Fatalf("Init #%d: %v", i, err)
		}
	}
	if got := opens.Load(); got != 1 {
		t.Fatalf("open called %d times, want 1", got)
	}
}

func TestInitRetriesAfterOpenFailure(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	defer s.Close()

	var calls atomic.Int32
	s.open = func(path string, logger *slog.Logger) (*gorm.DB, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("disk unavailable")
		}
		return openSQLite(path, logger)
	}

	err := s.Init(context.Background())
	if !errors.Is(err, apperrors.ErrStoreInit) {
		t.Fatalf("first Init error = %v, want ErrStoreInit", err)
	}
	if s.handle() != nil {
		t.Fatal("handle must stay unset after a failed attempt")
	}
	if _, err := s.DB(context.Background()); err != nil {
		t.Fatalf("retry through DB: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("open called %d times, want 2", got)
	}
}

func TestInitSchemaFailureLeavesStoreClosed(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	defer s.Close()

	var calls atomic.Int32
	s.open = func(path string, logger *slog.Logger) (*gorm.DB, error) {
		db, err := openSQLite(path, logger)
		if err != nil || calls.Add(1) > 1 {
			return db, err
		}
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
		// A foods table without mealId makes the index creation fail.
		if err := db.Exec("CREATE TABLE foods (id INTEGER PRIMARY KEY)").Error; err != nil {
			return nil, err
		}
		return db, nil
	}

	err := s.Init(context.Background())
	if !errors.Is(err, apperrors.ErrStoreInit) {
		t.Fatalf("Init error = %v, want ErrStoreInit", err)
	}
	if s.handle() != nil {
		t.Fatal("handle must stay unset after a schema failure")
	}

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if v := schemaVersion(t, s); v != migrations.CurrentVersion {
		t.Fatalf("version = %d", v)
	}
}

func TestInitCancelledWaiterDoesNotAbortAttempt(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	defer s.Close()
	opens := countingOpen(s, 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := s.Init(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Init error = %v, want deadline exceeded", err)
	}

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := opens.Load(); got != 1 {
		t.Fatalf("open called %d times, want 1", got)
	}
}

func TestInitEnablesForeignKeys(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	defer s.Close()

	db, err := s.DB(context.Background())
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign_keys = %d, want 1", enabled)
	}
}

func TestRestartKeepsDataAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meals.db")
	ctx := context.Background()

	first := NewStore(path, WithLogger(discardLogger()))
	db, err := first.DB(ctx)
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	meal := MealRecord{Date: "2024-03-01", TotalCalories: 500, CreatedAt: "2024-03-01T12:00:00.000Z"}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := NewStore(path, WithLogger(discardLogger()))
	defer second.Close()
	if v := schemaVersion(t, second); v != migrations.CurrentVersion {
		t.Fatalf("version = %d", v)
	}

	db, err = second.DB(ctx)
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	var rows []int
	if err := db.Raw("SELECT version FROM db_version").Scan(&rows).Error; err != nil {
		t.Fatalf("read versions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("db_version rows = %v, want exactly one", rows)
	}
	var count int64
	db.Model(&MealRecord{}).Count(&count)
	if count != 1 {
		t.Fatalf("meals = %d, want 1", count)
	}
}

func TestUpgradeFromVersionOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	ctx := context.Background()

	legacy, err := openSQLite(path, discardLogger())
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE meals (id INTEGER PRIMARY KEY AUTOINCREMENT, date TEXT NOT NULL,
			totalCalories REAL NOT NULL, createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
		`CREATE TABLE foods (id INTEGER PRIMARY KEY AUTOINCREMENT, mealId INTEGER NOT NULL,
			name TEXT NOT NULL, brand TEXT, calories REAL NOT NULL, proteins REAL, carbs REAL,
			fats REAL, quantity REAL NOT NULL DEFAULT 1, measure TEXT NOT NULL DEFAULT 'portion',
			isScanned INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (mealId) REFERENCES meals (id) ON DELETE CASCADE)`,
		`INSERT INTO meals (date, totalCalories) VALUES ('2023-12-24', 900)`,
		`INSERT INTO foods (mealId, name, calories) VALUES (1, 'Bûche', 900)`,
	} {
		if err := legacy.Exec(stmt).Error; err != nil {
			t.Fatalf("legacy schema: %v", err)
		}
	}
	closeDB(legacy)

	s := NewStore(path, WithLogger(discardLogger()))
	defer s.Close()
	db, err := s.DB(ctx)
	if err != nil {
		t.Fatalf("DB: %v", err)
	}

	if !db.Migrator().HasColumn(&FoodRecord{}, "image") {
		t.Fatal("foods.image was not added")
	}
	if v := schemaVersion(t, s); v != migrations.CurrentVersion {
		t.Fatalf("version = %d", v)
	}

	var food FoodRecord
	if err := db.First(&food).Error; err != nil {
		t.Fatalf("read food: %v", err)
	}
	if food.Name != "Bûche" || food.Image != nil {
		t.Fatalf("unexpected food after upgrade: %+v", food)
	}
}

func TestCloseAllowsReopen(t *testing.T) {
	s := NewStore(MemoryPath, WithLogger(discardLogger()))
	opens := countingOpen(s, 0)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init after Close: %v", err)
	}
	defer s.Close()
	if got := opens.Load(); got != 2 {
		t.Fatalf("open called %d times, want 2", got)
	}
}

func TestNewStoreKeepsLadderLogger(t *testing.T) {
	var buf bytes.Buffer
	ladder := migrations.Default().WithLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	s := NewStore(MemoryPath, WithLogger(discardLogger()), WithLadder(ladder))
	defer s.Close()
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !strings.Contains(buf.String(), "Upgrading schema") {
		t.Fatalf("ladder logger replaced, got %q", buf.String())
	}
}
