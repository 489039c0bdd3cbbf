package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PaulDelamare/FoudViseur/internal/bot/keyboards"
	"github.com/PaulDelamare/FoudViseur/internal/bot/menus"
	"github.com/PaulDelamare/FoudViseur/internal/bot/state"
	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/PaulDelamare/FoudViseur/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *base) send(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	return menus.SendText(h.api, chatID, text, &markup)
}

// replyError logs err by severity and tells the user what went wrong.
func (h *base) replyError(ctx context.Context, chatID int64, err error) error {
	h.errs.Handle(ctx, err)
	return h.send(chatID, userMessage(err), keyboards.BackToMenu())
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEmptySelection):
		return "Sélectionne au moins un aliment avant d'enregistrer le repas."
	case errors.Is(err, apperrors.ErrProductNotFound):
		return "Aucun produit ne correspond à ce code-barres."
	case errors.Is(err, apperrors.ErrBarcodeUnreadable):
		return "Je n'ai pas pu lire de code-barres sur cette photo. Réessaie ou envoie directement les chiffres."
	case errors.Is(err, apperrors.ErrScanningDisabled):
		return "Le scan par photo n'est pas configuré. Envoie les chiffres du code-barres avec /scan."
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			return "Entrée invalide : " + appErr.Message
		case apperrors.ErrorTypeExternal:
			return "Le service de nutrition est indisponible pour le moment. Réessaie plus tard."
		case apperrors.ErrorTypeDatabase:
			return "Impossible d'accéder au carnet de repas. Réessaie plus tard."
		}
	}
	return "Une erreur est survenue. Réessaie plus tard."
}

func (h *base) showMainMenu(chatID, userID int64) error {
	h.stateManager.SetUserState(userID, state.None)
	return menus.SendMainMenu(h.api, chatID)
}

func (h *base) showRecent(ctx context.Context, chatID int64) error {
	meals, err := h.deps.MealSvc.Recent(ctx, services.RecentFeedSize)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	return h.send(chatID, menus.MealListText("🕒 Derniers repas", meals), keyboards.MealList(meals))
}

func (h *base) showToday(ctx context.Context, chatID int64) error {
	meals, err := h.deps.MealSvc.Today(ctx)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	return h.send(chatID, menus.MealListText("📅 Aujourd'hui", meals), keyboards.MealList(meals))
}

func (h *base) showMeal(ctx context.Context, chatID, mealID int64) error {
	meal, err := h.deps.MealSvc.Meal(ctx, mealID)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	if meal == nil {
		return h.send(chatID, fmt.Sprintf("Repas #%d introuvable.", mealID), keyboards.BackToMenu())
	}
	return h.send(chatID, menus.MealText(*meal, h.deps.Location), keyboards.MealDetail(meal.ID))
}

func (h *base) askDelete(ctx context.Context, chatID, mealID int64) error {
	meal, err := h.deps.MealSvc.Meal(ctx, mealID)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	if meal == nil {
		return h.send(chatID, fmt.Sprintf("Repas #%d introuvable.", mealID), keyboards.BackToMenu())
	}
	text := fmt.Sprintf("Supprimer le repas #%d du %s (%s kcal) ?", meal.ID, meal.Date, keyboards.Number(meal.TotalCalories, 0))
	return h.send(chatID, text, keyboards.ConfirmDelete(meal.ID))
}

func (h *base) deleteMeal(ctx context.Context, chatID, mealID int64) error {
	if err := h.deps.MealSvc.DeleteMeal(ctx, mealID); err != nil {
		return h.replyError(ctx, chatID, err)
	}
	return h.send(chatID, fmt.Sprintf("🗑️ Repas #%d supprimé.", mealID), keyboards.BackToMenu())
}

func (h *base) startSearch(chatID, userID int64) error {
	h.stateManager.SetUserState(userID, state.WaitingForSearch)
	return h.send(chatID, "🔍 Quel aliment cherches-tu ? (2 caractères minimum)", keyboards.BackToMenu())
}

func (h *base) runSearch(ctx context.Context, chatID, userID int64, query string) error {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < services.MinQueryLength {
		return h.send(chatID, "Tape au moins 2 caractères pour lancer la recherche.", keyboards.BackToMenu())
	}
	entries, err := h.deps.SearchSvc.Search(ctx, query)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	h.stateManager.SetResults(userID, entries)
	return h.send(chatID, menus.SearchResultsText(query, entries), keyboards.SearchResults(entries))
}

func (h *base) addResult(chatID, userID int64, index int) error {
	entry, ok := h.stateManager.Result(userID, index)
	if !ok {
		return h.send(chatID, "Ce résultat n'est plus disponible, relance la recherche.", keyboards.BackToMenu())
	}
	pending := h.deps.SearchSvc.PendingFromEntry(entry, false)
	h.stateManager.AddPending(userID, pending)
	return h.showPending(chatID, userID, fmt.Sprintf("✅ %s ajouté.\n\n", entry.Label))
}

func (h *base) showPending(chatID, userID int64, prefix string) error {
	foods := h.stateManager.Pending(userID)
	return h.send(chatID, prefix+menus.PendingText(foods), keyboards.Pending(foods))
}

func (h *base) removePending(chatID, userID int64, id string) error {
	if !h.stateManager.RemovePending(userID, id) {
		return h.showPending(chatID, userID, "Cet aliment n'est plus dans le repas.\n\n")
	}
	return h.showPending(chatID, userID, "")
}

func (h *base) addScanned(ctx context.Context, chatID, userID int64) error {
	scanned := h.deps.MealSvc.DrainScanned(ctx)
	if len(scanned) == 0 {
		return h.showPending(chatID, userID, "Aucun produit scanné en attente.\n\n")
	}
	h.stateManager.AddPending(userID, scanned...)
	return h.showPending(chatID, userID, fmt.Sprintf("📥 %d produit(s) scanné(s) ajouté(s).\n\n", len(scanned)))
}

func (h *base) saveMeal(ctx context.Context, chatID, userID int64) error {
	pending := h.stateManager.Pending(userID)
	foods := make([]domain.NewFood, 0, len(pending))
	for _, p := range pending {
		foods = append(foods, p.Food)
	}

	id, err := h.deps.MealSvc.LogMeal(ctx, "", foods)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}

	h.stateManager.ClearPending(userID)
	h.stateManager.SetUserState(userID, state.None)
	text := fmt.Sprintf("💾 Repas #%d enregistré · %s kcal", id, keyboards.Number(domain.TotalCalories(foods), 0))
	return h.send(chatID, text, keyboards.MealDetail(id))
}

func (h *base) cancelMeal(chatID, userID int64) error {
	h.stateManager.ClearPending(userID)
	h.stateManager.SetUserState(userID, state.None)
	return h.send(chatID, "🧺 Repas en cours vidé.", keyboards.MainMenu())
}

func (h *base) startScan(chatID, userID int64) error {
	h.stateManager.SetUserState(userID, state.WaitingForBarcode)
	text := "📷 Envoie une photo du code-barres ou tape ses chiffres."
	if !h.deps.BarcodeSvc.ScanningEnabled() {
		text = "🔢 Tape les chiffres du code-barres."
	}
	return h.send(chatID, text, keyboards.BackToMenu())
}

func (h *base) lookupBarcode(ctx context.Context, chatID, userID int64, code string) error {
	entry, err := h.deps.BarcodeSvc.Lookup(ctx, code)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.SetResults(userID, []domain.FoodEntry{*entry})
	return h.send(chatID, menus.ProductText(code, *entry), keyboards.ScannedProduct(0))
}

func (h *base) stageResult(ctx context.Context, chatID, userID int64, index int) error {
	entry, ok := h.stateManager.Result(userID, index)
	if !ok {
		return h.send(chatID, "Ce produit n'est plus disponible, scanne-le à nouveau.", keyboards.BackToMenu())
	}
	if err := h.deps.BarcodeSvc.Stage(ctx, entry); err != nil {
		return h.replyError(ctx, chatID, err)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 Ajouter au repas", "add_scanned"),
			tgbotapi.NewInlineKeyboardButtonData("📷 Scanner un autre", "scan"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu", "main_menu"),
		),
	)
	return h.send(chatID, fmt.Sprintf("📥 %s gardé pour ton prochain repas.", entry.Label), markup)
}
