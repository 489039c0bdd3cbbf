package domain

import (
	"context"
)

// MealRepository persists the Meal + Food aggregate.
type MealRepository interface {
	CreateMeal(ctx context.Context, meal NewMeal) (int64, error)
	GetMealByID(ctx context.Context, id int64) (*Meal, error)
	GetMealsByDate(ctx context.Context, date string) ([]Meal, error)
	GetRecentMeals(ctx context.Context, limit int) ([]Meal, error)
	DeleteMeal(ctx context.Context, id int64) error
}

// ScannedStaging is the ephemeral list of scanned products.
type ScannedStaging interface {
	Add(ctx context.Context, product ScannedProduct) error
	All(ctx context.Context) ([]ScannedProduct, error)
	First(ctx context.Context) (*ScannedProduct, error)
	Drain(ctx context.Context) ([]ScannedProduct, error)
	Clear(ctx context.Context) error
}

// NutritionClient looks foods up in the nutrition database.
type NutritionClient interface {
	SearchFood(ctx context.Context, query string) ([]FoodEntry, error)
	SearchByBarcode(ctx context.Context, barcode string) ([]FoodEntry, error)
	Autocomplete(ctx context.Context, query string) ([]string, error)
}

// BarcodeReader extracts barcode digits from a product photo.
type BarcodeReader interface {
	ReadBarcode(ctx context.Context, imageURL string) (string, error)
}
