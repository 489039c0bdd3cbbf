package interfaces

import (
	"context"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
)

// MealServiceInterface defines the contract for meal operations
type MealServiceInterface interface {
	LogMeal(ctx context.Context, date string, foods []domain.NewFood) (int64, error)
	Meal(ctx context.Context, id int64) (*domain.Meal, error)
	Today(ctx context.Context) ([]domain.Meal, error)
	Recent(ctx context.Context, limit int) ([]domain.Meal, error)
	DeleteMeal(ctx context.Context, id int64) error
	DrainScanned(ctx context.Context) []domain.PendingFood
}

// FoodSearchServiceInterface defines the contract for nutrition database searches
type FoodSearchServiceInterface interface {
	Search(ctx context.Context, query string) ([]domain.FoodEntry, error)
	PendingFromEntry(entry domain.FoodEntry, scanned bool) domain.PendingFood
}

// BarcodeServiceInterface defines the contract for barcode scanning
type BarcodeServiceInterface interface {
	Lookup(ctx context.Context, code string) (*domain.FoodEntry, error)
	Stage(ctx context.Context, entry domain.FoodEntry) error
	Staged(ctx context.Context) ([]domain.ScannedProduct, error)
	ReadPhoto(ctx context.Context, imageURL string) (string, error)
	ScanningEnabled() bool
}
