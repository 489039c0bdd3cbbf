package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/PaulDelamare/FoudViseur/internal/bot/keyboards"
	"github.com/PaulDelamare/FoudViseur/internal/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands is the command list published to Telegram.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Menu principal"},
	{Command: "search", Description: "Rechercher un aliment"},
	{Command: "scan", Description: "Scanner un code-barres"},
	{Command: "add", Description: "Ajouter les produits scannés"},
	{Command: "pending", Description: "Voir le repas en cours"},
	{Command: "save", Description: "Enregistrer le repas en cours"},
	{Command: "cancel", Description: "Vider le repas en cours"},
	{Command: "today", Description: "Repas du jour"},
	{Command: "recent", Description: "Derniers repas"},
	{Command: "meal", Description: "Détail d'un repas"},
	{Command: "delete", Description: "Supprimer un repas"},
	{Command: "help", Description: "Aide"},
}

// CommandHandler handles bot commands
type CommandHandler struct {
	*base
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, userID int64) error {
	logger.Info("Handling command", "command", message.Command(), "user_id", userID)

	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		return h.showMainMenu(chatID, userID)
	case "help":
		return h.handleHelp(chatID)
	case "recent":
		return h.showRecent(ctx, chatID)
	case "today":
		return h.showToday(ctx, chatID)
	case "meal":
		id, ok := parseID(args)
		if !ok {
			return h.send(chatID, "Utilise /meal <numéro du repas>.", keyboards.BackToMenu())
		}
		return h.showMeal(ctx, chatID, id)
	case "delete":
		id, ok := parseID(args)
		if !ok {
			return h.send(chatID, "Utilise /delete <numéro du repas>.", keyboards.BackToMenu())
		}
		return h.askDelete(ctx, chatID, id)
	case "search":
		if args == "" {
			return h.startSearch(chatID, userID)
		}
		return h.runSearch(ctx, chatID, userID, args)
	case "scan":
		if args == "" {
			return h.startScan(chatID, userID)
		}
		return h.lookupBarcode(ctx, chatID, userID, args)
	case "add":
		return h.addScanned(ctx, chatID, userID)
	case "pending":
		return h.showPending(chatID, userID, "")
	case "save":
		return h.saveMeal(ctx, chatID, userID)
	case "cancel":
		return h.cancelMeal(chatID, userID)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Commandes disponibles :
/start · menu principal
/search <aliment> · rechercher un aliment
/scan <code> · chercher un produit par code-barres
/add · ajouter les produits scannés au repas
/pending · voir le repas en cours
/save · enregistrer le repas en cours
/cancel · vider le repas en cours
/today · repas du jour
/recent · derniers repas
/meal <n> · détail d'un repas
/delete <n> · supprimer un repas

Tu peux aussi envoyer une photo d'un code-barres pour le scanner.`

	return h.send(chatID, text, keyboards.BackToMenu())
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Commande inconnue. Utilise /help pour voir les commandes disponibles.")
	_, err := h.api.Send(msg)
	return err
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
