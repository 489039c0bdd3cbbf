package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
)

type BarcodeService struct {
	client  domain.NutritionClient
	staging domain.ScannedStaging
	reader  domain.BarcodeReader
	logger  *slog.Logger
}

// NewBarcodeService wires barcode lookups. reader may be nil, which
// disables photo scanning.
func NewBarcodeService(client domain.NutritionClient, staging domain.ScannedStaging, reader domain.BarcodeReader, logger *slog.Logger) *BarcodeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BarcodeService{
		client:  client,
		staging: staging,
		reader:  reader,
		logger:  logger.With("component", "barcode_service"),
	}
}

// Lookup returns the best match for code.
func (s *BarcodeService) Lookup(ctx context.Context, code string) (*domain.FoodEntry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.NewValidationError("barcode is empty")
	}

	entries, err := s.client.SearchByBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		s.logger.InfoContext(ctx, "No product for barcode", "barcode", code)
		return nil, apperrors.ErrProductNotFound
	}
	return &entries[0], nil
}

// Stage appends the product to the scanned list.
func (s *BarcodeService) Stage(ctx context.Context, entry domain.FoodEntry) error {
	if err := s.staging.Add(ctx, entry.AsScannedProduct()); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Product staged", "food_id", entry.FoodID, "label", entry.Label)
	return nil
}

// Staged lists the products waiting to be added to a meal.
func (s *BarcodeService) Staged(ctx context.Context) ([]domain.ScannedProduct, error) {
	return s.staging.All(ctx)
}

// ReadPhoto extracts the barcode digits from a product photo.
func (s *BarcodeService) ReadPhoto(ctx context.Context, imageURL string) (string, error) {
	if s.reader == nil {
		return "", apperrors.ErrScanningDisabled
	}
	return s.reader.ReadBarcode(ctx, imageURL)
}

// ScanningEnabled reports whether photos can be read.
func (s *BarcodeService) ScanningEnabled() bool {
	return s.reader != nil
}
