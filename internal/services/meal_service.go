package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/utils"
	"github.com/google/uuid"
)

// RecentFeedSize is how many meals the home feed shows.
const RecentFeedSize = 20

type MealService struct {
	meals   domain.MealRepository
	staging domain.ScannedStaging
	now     func() time.Time
	logger  *slog.Logger
}

func NewMealService(meals domain.MealRepository, staging domain.ScannedStaging, logger *slog.Logger) *MealService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MealService{
		meals:   meals,
		staging: staging,
		now:     time.Now,
		logger:  logger.With("component", "meal_service"),
	}
}

// LogMeal saves the selection as one meal. An empty date means today. The
// total is the sum of the foods' calories.
func (s *MealService) LogMeal(ctx context.Context, date string, foods []domain.NewFood) (int64, error) {
	if len(foods) == 0 {
		return 0, apperrors.ErrEmptySelection
	}
	if date == "" {
		date = utils.DateOf(s.now())
	}

	id, err := s.meals.CreateMeal(ctx, domain.NewMeal{
		Date:          date,
		TotalCalories: domain.TotalCalories(foods),
		Foods:         foods,
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Meal logged", "meal_id", id, "date", date, "foods", len(foods))
	return id, nil
}

func (s *MealService) Meal(ctx context.Context, id int64) (*domain.Meal, error) {
	return s.meals.GetMealByID(ctx, id)
}

func (s *MealService) MealsOn(ctx context.Context, date string) ([]domain.Meal, error) {
	if !utils.ValidDate(date) {
		return nil, apperrors.NewValidationError("date must be YYYY-MM-DD").WithContext("date", date)
	}
	return s.meals.GetMealsByDate(ctx, date)
}

func (s *MealService) Today(ctx context.Context) ([]domain.Meal, error) {
	return s.meals.GetMealsByDate(ctx, utils.DateOf(s.now()))
}

func (s *MealService) Recent(ctx context.Context, limit int) ([]domain.Meal, error) {
	return s.meals.GetRecentMeals(ctx, limit)
}

func (s *MealService) DeleteMeal(ctx context.Context, id int64) error {
	if err := s.meals.DeleteMeal(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Meal deleted", "meal_id", id)
	return nil
}

// DrainScanned moves every staged product into pending foods. Staging
// failures are logged and produce an empty batch.
func (s *MealService) DrainScanned(ctx context.Context) []domain.PendingFood {
	products, err := s.staging.Drain(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to drain scanned products", "error", err)
		return nil
	}

	pending := make([]domain.PendingFood, 0, len(products))
	for _, p := range products {
		pending = append(pending, domain.PendingFood{
			ID:   uuid.NewString(),
			Food: p.AsNewFood(),
		})
	}
	return pending
}
