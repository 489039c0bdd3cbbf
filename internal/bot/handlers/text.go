package handlers

import (
	"context"
	"strings"

	"github.com/PaulDelamare/FoudViseur/internal/bot/keyboards"
	"github.com/PaulDelamare/FoudViseur/internal/bot/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TextHandler handles text messages
type TextHandler struct {
	*base
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, userID int64) error {
	text := strings.TrimSpace(message.Text)

	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForSearch:
		return h.runSearch(ctx, message.Chat.ID, userID, text)
	case state.WaitingForBarcode:
		return h.lookupBarcode(ctx, message.Chat.ID, userID, text)
	default:
		return h.handleDefaultText(message.Chat.ID)
	}
}

func (h *TextHandler) handleDefaultText(chatID int64) error {
	return h.send(chatID, "Utilise le menu pour choisir une action.", keyboards.MainMenu())
}
