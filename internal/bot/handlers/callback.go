package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/PaulDelamare/FoudViseur/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*base
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, userID int64) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	action, arg, _ := strings.Cut(query.Data, ":")
	switch action {
	case "main_menu":
		return h.showMainMenu(chatID, userID)
	case "search":
		return h.startSearch(chatID, userID)
	case "scan":
		return h.startScan(chatID, userID)
	case "recent":
		return h.showRecent(ctx, chatID)
	case "today":
		return h.showToday(ctx, chatID)
	case "pending":
		return h.showPending(chatID, userID, "")
	case "save":
		return h.saveMeal(ctx, chatID, userID)
	case "cancel":
		return h.cancelMeal(chatID, userID)
	case "add_scanned":
		return h.addScanned(ctx, chatID, userID)
	case "remove":
		return h.removePending(chatID, userID, arg)
	case "add":
		if i, err := strconv.Atoi(arg); err == nil {
			return h.addResult(chatID, userID, i)
		}
	case "stage":
		if i, err := strconv.Atoi(arg); err == nil {
			return h.stageResult(ctx, chatID, userID, i)
		}
	case "meal":
		if id, ok := parseID(arg); ok {
			return h.showMeal(ctx, chatID, id)
		}
	case "delete":
		if id, ok := parseID(arg); ok {
			return h.askDelete(ctx, chatID, id)
		}
	case "confirm_delete":
		if id, ok := parseID(arg); ok {
			return h.deleteMeal(ctx, chatID, id)
		}
	}
	return h.handleUnknownCallback(chatID, query.Data)
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64, data string) error {
	logger.Warn("Unknown callback", "data", data)
	msg := tgbotapi.NewMessage(chatID, "Action inconnue. Utilise /start pour revenir au menu.")
	_, err := h.api.Send(msg)
	return err
}
