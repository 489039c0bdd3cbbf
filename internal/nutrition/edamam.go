package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/config"
	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
)

const apiName = "edamam"

// bodyExcerpt bounds how much of an error body ends up in logs.
const bodyExcerpt = 200

// Edamam calls the Edamam Food Database API.
type Edamam struct {
	appID           string
	appKey          string
	baseURL         string
	autocompleteURL string
	client          *http.Client
	logger          *slog.Logger
}

// NewEdamam creates a client from the Edamam settings
func NewEdamam(cfg config.EdamamConfig, logger *slog.Logger) *Edamam {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Edamam{
		appID:           cfg.AppID,
		appKey:          cfg.AppKey,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		autocompleteURL: cfg.AutocompleteURL,
		client:          &http.Client{Timeout: timeout},
		logger:          logger.With("component", "edamam"),
	}
}

var _ domain.NutritionClient = (*Edamam)(nil)

type parserResponse struct {
	Text  string `json:"text"`
	Hints []struct {
		Food struct {
			FoodID    string              `json:"foodId"`
			Label     string              `json:"label"`
			Brand     string              `json:"brand"`
			Category  string              `json:"category"`
			Image     string              `json:"image"`
			Nutrients map[string]*float64 `json:"nutrients"`
		} `json:"food"`
		Measures []struct {
			URI    string  `json:"uri"`
			Label  string  `json:"label"`
			Weight float64 `json:"weight"`
		} `json:"measures"`
	} `json:"hints"`
}

// SearchFood returns the ranked hints for a free-text query.
func (e *Edamam) SearchFood(ctx context.Context, query string) ([]domain.FoodEntry, error) {
	params := url.Values{"ingr": {query}}
	var resp parserResponse
	found, err := e.get(ctx, e.baseURL+"/parser", params, &resp)
	if err != nil || !found {
		return nil, err
	}
	return resp.entries(), nil
}

// SearchByBarcode looks a UPC/EAN code up. An unknown code yields no hints.
func (e *Edamam) SearchByBarcode(ctx context.Context, barcode string) ([]domain.FoodEntry, error) {
	params := url.Values{"upc": {barcode}}
	var resp parserResponse
	found, err := e.get(ctx, e.baseURL+"/parser", params, &resp)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.FoodEntry{}, nil
	}
	return resp.entries(), nil
}

// Autocomplete returns name suggestions for a partial query.
func (e *Edamam) Autocomplete(ctx context.Context, query string) ([]string, error) {
	params := url.Values{"q": {query}}
	var suggestions []string
	found, err := e.get(ctx, e.autocompleteURL, params, &suggestions)
	if err != nil || !found {
		return nil, err
	}
	return suggestions, nil
}

// get performs the request and decodes a 2xx body into out. It reports
// found=false for HTTP 404.
func (e *Edamam) get(ctx context.Context, endpoint string, params url.Values, out interface{}) (bool, error) {
	params.Set("app_id", e.appID)
	params.Set("app_key", e.appKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return false, apperrors.NewExternalAPIError(err, apiName)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.ErrorContext(ctx, "Edamam request failed", "endpoint", endpoint, "error", err)
		return false, apperrors.NewExternalAPIError(fmt.Errorf("failed to call Edamam: %w", err), apiName)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, apperrors.NewExternalAPIError(fmt.Errorf("failed to read Edamam response: %w", err), apiName)
	}

	e.logger.DebugContext(ctx, "Edamam response", "endpoint", endpoint, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(body)
		if len(excerpt) > bodyExcerpt {
			excerpt = excerpt[:bodyExcerpt]
		}
		return false, apperrors.NewExternalAPIError(
			fmt.Errorf("edamam API error %d: %s", resp.StatusCode, excerpt), apiName).
			WithContext("status", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, apperrors.NewExternalAPIError(fmt.Errorf("failed to parse Edamam JSON: %w", err), apiName)
	}
	return true, nil
}

func (r parserResponse) entries() []domain.FoodEntry {
	entries := make([]domain.FoodEntry, 0, len(r.Hints))
	for _, h := range r.Hints {
		measures := make([]string, 0, len(h.Measures))
		for _, m := range h.Measures {
			measures = append(measures, m.Label)
		}
		n := h.Food.Nutrients
		entries = append(entries, domain.FoodEntry{
			FoodID:   h.Food.FoodID,
			Label:    h.Food.Label,
			Brand:    h.Food.Brand,
			Image:    h.Food.Image,
			Category: h.Food.Category,
			Nutrients: domain.Nutrients{
				Calories: n["ENERC_KCAL"],
				Proteins: n["PROCNT"],
				Carbs:    n["CHOCDF"],
				Fats:     n["FAT"],
				Fiber:    n["FIBTG"],
			},
			Measures: measures,
		})
	}
	return entries
}
