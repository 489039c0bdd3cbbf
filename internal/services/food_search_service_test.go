package services

import (
	"context"
	"errors"
	"testing"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/staging"
)

func TestSearchSkipsShortQueries(t *testing.T) {
	client := &fakeNutrition{entries: []domain.FoodEntry{{Label: "Egg"}}}
	s := NewFoodSearchService(client, quietLogger())
	ctx := context.Background()

	for _, q := range []string{"", " ", "a", " é "} {
		entries, err := s.Search(ctx, q)
		if err != nil || entries != nil {
			t.Fatalf("Search(%q) = %v, %v", q, entries, err)
		}
	}
	if len(client.queries) != 0 {
		t.Fatalf("short queries reached the API: %v", client.queries)
	}

	entries, err := s.Search(ctx, "  eg ")
	if err != nil || len(entries) != 1 {
		t.Fatalf("Search = %v, %v", entries, err)
	}
	if client.queries[0] != "eg" {
		t.Fatalf("query not trimmed: %q", client.queries[0])
	}
}

func TestAutocomplete(t *testing.T) {
	client := &fakeNutrition{}
	s := NewFoodSearchService(client, quietLogger())

	got, err := s.Autocomplete(context.Background(), "egg")
	if err != nil || len(got) != 1 || got[0] != "eggs" {
		t.Fatalf("Autocomplete = %v, %v", got, err)
	}
	if got, _ := s.Autocomplete(context.Background(), "e"); got != nil {
		t.Fatalf("short autocomplete = %v", got)
	}
}

func TestPendingFromEntry(t *testing.T) {
	s := NewFoodSearchService(&fakeNutrition{}, quietLogger())

	p := s.PendingFromEntry(domain.FoodEntry{Label: "Apple", Measures: []string{"Whole", "Gram"}}, false)
	if p.ID == "" || p.Food.Calories != 0 || p.Food.Measure != "Whole" || p.Food.IsScanned {
		t.Fatalf("unexpected pending food: %+v", p)
	}
}

func TestBarcodeLookup(t *testing.T) {
	client := &fakeNutrition{entries: []domain.FoodEntry{{FoodID: "first", Label: "Nutella"}, {FoodID: "second"}}}
	s := NewBarcodeService(client, staging.NewMemory(), nil, quietLogger())

	entry, err := s.Lookup(context.Background(), " 3017620422003 ")
	if err != nil || entry.FoodID != "first" {
		t.Fatalf("Lookup = %+v, %v", entry, err)
	}
	if client.barcodes[0] != "3017620422003" {
		t.Fatalf("barcode not trimmed: %q", client.barcodes[0])
	}

	client.entries = nil
	if _, err := s.Lookup(context.Background(), "0000"); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Fatalf("error = %v, want ErrProductNotFound", err)
	}
	if _, err := s.Lookup(context.Background(), ""); apperrors.TypeOf(err) != apperrors.ErrorTypeValidation {
		t.Fatalf("empty barcode error = %v", err)
	}
}

func TestBarcodeStage(t *testing.T) {
	stage := staging.NewMemory()
	s := NewBarcodeService(&fakeNutrition{}, stage, nil, quietLogger())
	ctx := context.Background()

	entry := domain.FoodEntry{FoodID: "f1", Label: "Cola", Nutrients: domain.Nutrients{Calories: domain.Float(139)}}
	if err := s.Stage(ctx, entry); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	staged, err := s.Staged(ctx)
	if err != nil || len(staged) != 1 || staged[0].Calories != 139 || staged[0].FoodID != "f1" {
		t.Fatalf("Staged = %+v, %v", staged, err)
	}

	broken := NewBarcodeService(&fakeNutrition{}, brokenStaging{}, nil, quietLogger())
	if err := broken.Stage(ctx, entry); err == nil {
		t.Fatal("expected staging error")
	}
}

func TestBarcodeReadPhoto(t *testing.T) {
	ctx := context.Background()

	disabled := NewBarcodeService(&fakeNutrition{}, staging.NewMemory(), nil, quietLogger())
	if disabled.ScanningEnabled() {
		t.Fatal("scanning should be disabled without a reader")
	}
	if _, err := disabled.ReadPhoto(ctx, "http://photo"); !errors.Is(err, apperrors.ErrScanningDisabled) {
		t.Fatalf("error = %v", err)
	}

	enabled := NewBarcodeService(&fakeNutrition{}, staging.NewMemory(), fakeReader{code: "12345678"}, quietLogger())
	if code, err := enabled.ReadPhoto(ctx, "http://photo"); err != nil || code != "12345678" {
		t.Fatalf("ReadPhoto = %q, %v", code, err)
	}
}
