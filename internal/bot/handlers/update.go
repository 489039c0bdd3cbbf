package handlers

import (
	"context"

	"github.com/PaulDelamare/FoudViseur/internal/bot/state"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             Sender
	ownerID         int64
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
}

// NewUpdateHandler creates a new update handler. An ownerID of 0 serves
// every user.
func NewUpdateHandler(
	api Sender,
	ownerID int64,
	deps Dependencies,
	stateManager state.StateManager,
) *UpdateHandler {
	b := &base{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		errs:         apperrors.NewHandler(logger.Component("bot")),
	}
	return &UpdateHandler{
		api:             api,
		ownerID:         ownerID,
		callbackHandler: &CallbackHandler{base: b},
		commandHandler:  &CommandHandler{base: b},
		textHandler:     &TextHandler{base: b},
		photoHandler:    &PhotoHandler{base: b},
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	var from *tgbotapi.User
	var chatID int64

	if update.Message != nil {
		from = update.Message.From
		chatID = update.Message.Chat.ID
	} else if update.CallbackQuery != nil {
		from = update.CallbackQuery.From
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	if from == nil {
		return nil
	}

	if h.ownerID != 0 && from.ID != h.ownerID {
		logger.Warn("Ignoring update from unknown user", "user_id", from.ID, "username", from.UserName)
		if update.Message != nil {
			_, err := h.api.Send(tgbotapi.NewMessage(chatID, "🔒 Ce carnet de repas est privé."))
			return err
		}
		_, err := h.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "🔒 Accès refusé"))
		return err
	}

	// Handle different update types
	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, from.ID)
	}

	if update.Message.IsCommand() {
		return h.commandHandler.Handle(ctx, update.Message, from.ID)
	}

	if len(update.Message.Photo) > 0 {
		return h.photoHandler.Handle(ctx, update.Message, from.ID)
	}

	if update.Message.Text != "" {
		return h.textHandler.Handle(ctx, update.Message, from.ID)
	}

	return nil
}
