package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxImageSize caps the downloaded photo.
const maxImageSize = 10 << 20

var barcodeDigits = regexp.MustCompile(`\d{8,14}`)

const barcodePrompt = `You are reading a product barcode from a photo.

TASK:
- Find the EAN-13, EAN-8, UPC-A or UPC-E barcode in the image
- Read the digits printed under the bars

REQUIREMENTS:
- Return ONLY the digits, with no spaces, text or explanation
- If no barcode is readable, return exactly NONE

Example response format:
3017620422003`

// VisionService reads barcodes off product photos with Gemini.
type VisionService struct {
	client   *genai.Client
	http     *http.Client
	generate func(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
	logger   *slog.Logger
}

func NewVisionService(ctx context.Context, apiKey, model string, logger *slog.Logger) (*VisionService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s := newVisionService(logger)
	s.client = client
	s.generate = func(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
		m := client.GenerativeModel(model)
		m.SetTemperature(0)
		resp, err := m.GenerateContent(ctx, genai.ImageData(mimeType, image), genai.Text(prompt))
		if err != nil {
			return "", err
		}
		return responseText(resp), nil
	}
	return s, nil
}

func newVisionService(logger *slog.Logger) *VisionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisionService{
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger.With("component", "vision"),
	}
}

// ReadBarcode downloads the photo and returns the barcode digits found on it.
func (s *VisionService) ReadBarcode(ctx context.Context, imageURL string) (string, error) {
	image, mimeType, err := s.download(ctx, imageURL)
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "telegram")
	}

	answer, err := s.generate(ctx, image, mimeType, barcodePrompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Gemini request failed", "error", err)
		return "", apperrors.NewExternalAPIError(fmt.Errorf("failed to generate content: %w", err), "gemini")
	}

	code, ok := parseBarcode(answer)
	if !ok {
		s.logger.InfoContext(ctx, "No barcode in photo", "answer", answer)
		return "", apperrors.ErrBarcodeUnreadable
	}
	return code, nil
}

// Close releases the Gemini client.
func (s *VisionService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *VisionService) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	// genai.ImageData wants the subtype only.
	mimeType := "jpeg"
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "image/") {
		mimeType = strings.TrimPrefix(strings.SplitN(ct, ";", 2)[0], "image/")
	}
	return data, mimeType, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	return b.String()
}

// parseBarcode extracts 8 to 14 digits from the model answer. Spaces and
// dashes between digit groups are ignored.
func parseBarcode(answer string) (string, bool) {
	compact := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(answer))
	match := barcodeDigits.FindString(compact)
	if match == "" || len(match) != countDigitRun(compact, match) {
		return "", false
	}
	return match, true
}

// countDigitRun returns the length of the digit run that contains match, so a
// 20 digit number is not truncated into a plausible barcode.
func countDigitRun(s, match string) int {
	i := strings.Index(s, match)
	j := i + len(match)
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	return j - i
}
