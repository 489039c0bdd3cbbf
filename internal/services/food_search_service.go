package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	"github.com/google/uuid"
)

// MinQueryLength is the shortest query sent to the nutrition database.
const MinQueryLength = 2

type FoodSearchService struct {
	client domain.NutritionClient
	logger *slog.Logger
}

func NewFoodSearchService(client domain.NutritionClient, logger *slog.Logger) *FoodSearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FoodSearchService{client: client, logger: logger.With("component", "food_search")}
}

// Search returns the hints for query. Queries shorter than MinQueryLength
// return nothing without calling the API.
func (s *FoodSearchService) Search(ctx context.Context, query string) ([]domain.FoodEntry, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, nil
	}

	entries, err := s.client.SearchFood(ctx, query)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Food search", "query", query, "hints", len(entries))
	return entries, nil
}

func (s *FoodSearchService) Autocomplete(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, nil
	}
	return s.client.Autocomplete(ctx, query)
}

// PendingFromEntry turns a hint into a pending food with a fresh id.
func (s *FoodSearchService) PendingFromEntry(entry domain.FoodEntry, scanned bool) domain.PendingFood {
	return domain.PendingFood{
		ID:   uuid.NewString(),
		Food: entry.AsNewFood(scanned),
	}
}
