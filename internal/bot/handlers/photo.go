package handlers

import (
	"context"
	"fmt"

	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PhotoHandler reads barcodes from photo messages
type PhotoHandler struct {
	*base
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, userID int64) error {
	chatID := message.Chat.ID
	if !h.deps.BarcodeSvc.ScanningEnabled() {
		return h.replyError(ctx, chatID, apperrors.ErrScanningDisabled)
	}

	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	imageURL, err := h.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	processing, err := h.api.Send(tgbotapi.NewMessage(chatID, "🔎 Lecture du code-barres..."))
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	code, err := h.deps.BarcodeSvc.ReadPhoto(ctx, imageURL)

	if _, delErr := h.api.Request(tgbotapi.NewDeleteMessage(chatID, processing.MessageID)); delErr != nil {
		logger.Warn("Failed to delete processing message", "error", delErr)
	}

	if err != nil {
		return h.replyError(ctx, chatID, err)
	}

	logger.Info("Barcode read from photo", "user_id", userID, "barcode", code)
	return h.lookupBarcode(ctx, chatID, userID, code)
}
