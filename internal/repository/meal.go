package repository

import (
	"context"
	"errors"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/database"
	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRecentLimit is used when GetRecentMeals gets a non-positive limit.
const DefaultRecentLimit = 10

// CreatedAtLayout is the fixed-width UTC timestamp stored in meals.createdAt.
// Its lexical order matches chronological order.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// Handle hands out the ready database, opening it on first use.
type Handle interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// MealRepository persists meals together with their foods.
type MealRepository struct {
	store    Handle
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a MealRepository.
type Option func(*MealRepository)

// WithClock sets the clock used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(r *MealRepository) { r.now = now }
}

// NewMealRepository creates a new meal repository
func NewMealRepository(store Handle, opts ...Option) *MealRepository {
	r := &MealRepository{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ domain.MealRepository = (*MealRepository)(nil)

// CreateMeal inserts the meal and all of its foods atomically and returns
// the new meal id.
func (r *MealRepository) CreateMeal(ctx context.Context, meal domain.NewMeal) (int64, error) {
	if err := r.validate.StructCtx(ctx, meal); err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "VALIDATION", "invalid meal")
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return 0, err
	}

	record := database.MealRecord{
		Date:          meal.Date,
		TotalCalories: meal.TotalCalories,
		CreatedAt:     r.now().UTC().Format(CreatedAtLayout),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return err
		}
		for _, food := range meal.Foods {
			row := toFoodRecord(record.ID, food.WithDefaults())
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.NewDatabaseError(err).WithContext("operation", "create_meal")
	}
	return record.ID, nil
}

// GetMealByID returns the meal with its foods, or nil when it does not exist.
func (r *MealRepository) GetMealByID(ctx context.Context, id int64) (*domain.Meal, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	var record database.MealRecord
	err = withFoods(db).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("meal_id", id)
	}

	meal := toMeal(record)
	return &meal, nil
}

// GetMealsByDate returns the meals logged for date, newest first.
func (r *MealRepository) GetMealsByDate(ctx context.Context, date string) ([]domain.Meal, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	var records []database.MealRecord
	if err := newestFirst(withFoods(db)).Where("date = ?", date).Find(&records).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("date", date)
	}
	return toMeals(records), nil
}

// GetRecentMeals returns up to limit meals, newest first.
func (r *MealRepository) GetRecentMeals(ctx context.Context, limit int) ([]domain.Meal, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	var records []database.MealRecord
	if err := newestFirst(withFoods(db)).Limit(limit).Find(&records).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("limit", limit)
	}
	return toMeals(records), nil
}

// DeleteMeal removes the meal and, by cascade, its foods. Deleting a
// missing meal is not an error.
func (r *MealRepository) DeleteMeal(ctx context.Context, id int64) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.Delete(&database.MealRecord{}, id).Error; err != nil {
		return apperrors.NewDatabaseError(err).WithContext("meal_id", id)
	}
	return nil
}

func withFoods(db *gorm.DB) *gorm.DB {
	return db.Preload("Foods", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// newestFirst orders by createdAt. Rows filled by the column default hold
// "YYYY-MM-DD HH:MM:SS", so the separator is normalized before comparing.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("replace(createdAt, ' ', 'T') DESC").Order("id DESC")
}

func toFoodRecord(mealID int64, f domain.NewFood) database.FoodRecord {
	return database.FoodRecord{
		MealID:    mealID,
		Name:      f.Name,
		Brand:     optional(f.Brand),
		Image:     optional(f.Image),
		Calories:  f.Calories,
		Proteins:  f.Proteins,
		Carbs:     f.Carbs,
		Fats:      f.Fats,
		Quantity:  f.Quantity,
		Measure:   f.Measure,
		IsScanned: f.IsScanned,
	}
}

func toMeals(records []database.MealRecord) []domain.Meal {
	meals := make([]domain.Meal, 0, len(records))
	for _, rec := range records {
		meals = append(meals, toMeal(rec))
	}
	return meals
}

func toMeal(rec database.MealRecord) domain.Meal {
	foods := make([]domain.Food, 0, len(rec.Foods))
	for _, f := range rec.Foods {
		foods = append(foods, domain.Food{
			ID:        f.ID,
			MealID:    f.MealID,
			Name:      f.Name,
			Brand:     deref(f.Brand),
			Image:     deref(f.Image),
			Calories:  f.Calories,
			Proteins:  f.Proteins,
			Carbs:     f.Carbs,
			Fats:      f.Fats,
			Quantity:  f.Quantity,
			Measure:   f.Measure,
			IsScanned: f.IsScanned,
		})
	}
	return domain.Meal{
		ID:            rec.ID,
		Date:          rec.Date,
		TotalCalories: rec.TotalCalories,
		CreatedAt:     rec.CreatedAt,
		Foods:         foods,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
