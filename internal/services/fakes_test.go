package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMealRepo struct {
	mu      sync.Mutex
	created []domain.NewMeal
	byDate  map[string][]domain.Meal
	deleted []int64
	err     error
}

func (f *fakeMealRepo) CreateMeal(_ context.Context, meal domain.NewMeal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.created = append(f.created, meal)
	return int64(len(f.created)), nil
}

func (f *fakeMealRepo) GetMealByID(_ context.Context, id int64) (*domain.Meal, error) {
	return nil, f.err
}

func (f *fakeMealRepo) GetMealsByDate(_ context.Context, date string) ([]domain.Meal, error) {
	return f.byDate[date], f.err
}

func (f *fakeMealRepo) GetRecentMeals(_ context.Context, limit int) ([]domain.Meal, error) {
	return nil, f.err
}

func (f *fakeMealRepo) DeleteMeal(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type brokenStaging struct{}

var errStagingDown = errors.New("staging down")

func (brokenStaging) Add(context.Context, domain.ScannedProduct) error { return errStagingDown }
func (brokenStaging) All(context.Context) ([]domain.ScannedProduct, error) {
	return nil, errStagingDown
}
func (brokenStaging) First(context.Context) (*domain.ScannedProduct, error) {
	return nil, errStagingDown
}
func (brokenStaging) Drain(context.Context) ([]domain.ScannedProduct, error) {
	return nil, errStagingDown
}
func (brokenStaging) Clear(context.Context) error { return errStagingDown }

type fakeNutrition struct {
	queries  []string
	barcodes []string
	entries  []domain.FoodEntry
	err      error
}

func (f *fakeNutrition) SearchFood(_ context.Context, query string) ([]domain.FoodEntry, error) {
	f.queries = append(f.queries, query)
	return f.entries, f.err
}

func (f *fakeNutrition) SearchByBarcode(_ context.Context, code string) ([]domain.FoodEntry, error) {
	f.barcodes = append(f.barcodes, code)
	return f.entries, f.err
}

func (f *fakeNutrition) Autocomplete(_ context.Context, query string) ([]string, error) {
	f.queries = append(f.queries, query)
	return []string{query + "s"}, f.err
}

type fakeReader struct {
	code string
	err  error
}

func (f fakeReader) ReadBarcode(context.Context, string) (string, error) { return f.code, f.err }
