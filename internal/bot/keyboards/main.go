package keyboards

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxResults is how many search hints get a button.
const MaxResults = 8

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Rechercher", "search"),
			tgbotapi.NewInlineKeyboardButtonData("📷 Scanner", "scan"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧺 Repas en cours", "pending"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Aujourd'hui", "today"),
			tgbotapi.NewInlineKeyboardButtonData("🕒 Historique", "recent"),
		),
	)
}

// BackToMenu is the single "main menu" button row.
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
		),
	)
}

// SearchResults offers one "add" button per hint.
func SearchResults(entries []domain.FoodEntry) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, e := range entries {
		if i == MaxResults {
			break
		}
		label := fmt.Sprintf("➕ %s", truncate(e.Label, 32))
		if e.Nutrients.Calories != nil {
			label = fmt.Sprintf("%s (%s kcal)", label, Number(*e.Nutrients.Calories, 0))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "add:"+strconv.Itoa(i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧺 Repas en cours", "pending"),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Pending lets the user remove foods, save or discard the selection.
func Pending(foods []domain.PendingFood) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range foods {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ "+truncate(f.Food.Name, 40), "remove:"+f.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔍 Ajouter", "search"),
		tgbotapi.NewInlineKeyboardButtonData("📥 Produits scannés", "add_scanned"),
	))
	if len(foods) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Enregistrer", "save"),
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Vider", "cancel"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MealList links every meal to its detail view.
func MealList(meals []domain.Meal) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range meals {
		label := fmt.Sprintf("%s · %s kcal · %d aliment(s)", m.Date, Number(m.TotalCalories, 0), len(m.Foods))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "meal:"+strconv.FormatInt(m.ID, 10)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Menu principal", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MealDetail offers deletion of a meal.
func MealDetail(mealID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(mealID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Supprimer", "delete:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🕒 Historique", "recent"),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu", "main_menu"),
		),
	)
}

// ConfirmDelete asks for confirmation before a meal is deleted.
func ConfirmDelete(mealID int64) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(mealID, 10)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirmer", "confirm_delete:"+id),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Annuler", "meal:"+id),
		),
	)
}

// ScannedProduct offers to stage the product found for a barcode.
func ScannedProduct(index int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 Garder ce produit", "stage:"+strconv.Itoa(index)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📷 Scanner un autre", "scan"),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Menu", "main_menu"),
		),
	)
}

// Number formats v with at most prec decimals and no trailing zeros.
func Number(v float64, prec int) string {
	return strconv.FormatFloat(roundTo(v, prec), 'f', -1, 64)
}

func roundTo(v float64, prec int) float64 {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
