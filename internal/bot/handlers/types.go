package handlers

import (
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/bot/state"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/interfaces"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	MealSvc    interfaces.MealServiceInterface
	SearchSvc  interfaces.FoodSearchServiceInterface
	BarcodeSvc interfaces.BarcodeServiceInterface
	// Location is used to display timestamps; nil means UTC.
	Location *time.Location
}

// Sender is the subset of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// base carries what every handler shares.
type base struct {
	api          Sender
	deps         Dependencies
	stateManager state.StateManager
	errs         *apperrors.Handler
}
