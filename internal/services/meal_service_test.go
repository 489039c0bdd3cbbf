package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/staging"
)

func newMealService(repo *fakeMealRepo, stage domain.ScannedStaging) *MealService {
	s := NewMealService(repo, stage, quietLogger())
	s.now = func() time.Time { return time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC) }
	return s
}

func TestLogMealComputesTotalAndDefaultsDate(t *testing.T) {
	repo := &fakeMealRepo{}
	s := newMealService(repo, staging.NewMemory())

	foods := []domain.NewFood{
		{Name: "Rice", Calories: 200.1},
		{Name: "Chicken", Calories: 449.9, Proteins: domain.Float(40)},
	}
	id, err := s.LogMeal(context.Background(), "", foods)
	if err != nil {
		t.Fatalf("LogMeal: %v", err)
	}
	if id != 1 || len(repo.created) != 1 {
		t.Fatalf("id = %d, created = %d", id, len(repo.created))
	}
	got := repo.created[0]
	if got.Date != "2024-01-15" || got.TotalCalories != 650 || len(got.Foods) != 2 {
		t.Fatalf("unexpected meal: %+v", got)
	}
}

func TestLogMealKeepsExplicitDate(t *testing.T) {
	repo := &fakeMealRepo{}
	s := newMealService(repo, staging.NewMemory())

	if _, err := s.LogMeal(context.Background(), "2023-12-24", []domain.NewFood{{Name: "Bûche", Calories: 900}}); err != nil {
		t.Fatalf("LogMeal: %v", err)
	}
	if repo.created[0].Date != "2023-12-24" {
		t.Fatalf("date = %q", repo.created[0].Date)
	}
}

func TestLogMealRejectsEmptySelection(t *testing.T) {
	repo := &fakeMealRepo{}
	s := newMealService(repo, staging.NewMemory())

	_, err := s.LogMeal(context.Background(), "", nil)
	if !errors.Is(err, apperrors.ErrEmptySelection) {
		t.Fatalf("error = %v, want ErrEmptySelection", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("empty meal must not reach the repository")
	}
}

func TestLogMealPropagatesRepositoryErrors(t *testing.T) {
	repo := &fakeMealRepo{err: apperrors.ErrStoreInit}
	s := newMealService(repo, staging.NewMemory())

	_, err := s.LogMeal(context.Background(), "", []domain.NewFood{{Name: "x"}})
	if !errors.Is(err, apperrors.ErrStoreInit) {
		t.Fatalf("error = %v", err)
	}
}

func TestTodayAndMealsOn(t *testing.T) {
	repo := &fakeMealRepo{byDate: map[string][]domain.Meal{
		"2024-01-15": {{ID: 7, Date: "2024-01-15"}},
	}}
	s := newMealService(repo, staging.NewMemory())
	ctx := context.Background()

	today, err := s.Today(ctx)
	if err != nil || len(today) != 1 || today[0].ID != 7 {
		t.Fatalf("Today = %+v, %v", today, err)
	}
	if _, err := s.MealsOn(ctx, "yesterday"); apperrors.TypeOf(err) != apperrors.ErrorTypeValidation {
		t.Fatalf("MealsOn(invalid) error = %v", err)
	}
	if meals, err := s.MealsOn(ctx, "2024-01-14"); err != nil || len(meals) != 0 {
		t.Fatalf("MealsOn = %+v, %v", meals, err)
	}
}

func TestDrainScanned(t *testing.T) {
	stage := staging.NewMemory()
	ctx := context.Background()
	for _, p := range []domain.ScannedProduct{
		{FoodID: "a", Label: "Oat bar", Calories: 180, Fats: domain.Float(7)},
		{FoodID: "b", Label: "Cola", Calories: 139},
	} {
		if err := stage.Add(ctx, p); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	s := newMealService(&fakeMealRepo{}, stage)

	pending := s.DrainScanned(ctx)
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	for _, p := range pending {
		if p.ID == "" || !p.Food.IsScanned || p.Food.Quantity != 1 || p.Food.Measure != "portion" {
			t.Fatalf("unexpected pending food: %+v", p)
		}
	}
	if pending[0].ID == pending[1].ID {
		t.Fatal("pending ids must be unique")
	}
	if pending[0].Food.Name != "Oat bar" || *pending[0].Food.Fats != 7 {
		t.Fatalf("unexpected first food: %+v", pending[0].Food)
	}

	if again := s.DrainScanned(ctx); len(again) != 0 {
		t.Fatalf("second drain = %d, want 0", len(again))
	}
}

func TestDrainScannedSwallowsStagingErrors(t *testing.T) {
	s := newMealService(&fakeMealRepo{}, brokenStaging{})
	if pending := s.DrainScanned(context.Background()); len(pending) != 0 {
		t.Fatalf("pending = %+v, want empty", pending)
	}
}

func TestDeleteMeal(t *testing.T) {
	repo := &fakeMealRepo{}
	s := newMealService(repo, staging.NewMemory())
	if err := s.DeleteMeal(context.Background(), 3); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 3 {
		t.Fatalf("deleted = %v", repo.deleted)
	}
}
