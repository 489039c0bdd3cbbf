package menus

import (
	"fmt"
	"strings"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/bot/keyboards"
	"github.com/PaulDelamare/FoudViseur/internal/domain"
	"github.com/PaulDelamare/FoudViseur/internal/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the Telegram client the menus need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	text := `🥗 *FoudViseur* · ton carnet de repas

🔍 Recherche un aliment et ajoute-le au repas en cours
📷 Scanne un code-barres (photo ou chiffres)
💾 Enregistre le repas pour suivre tes calories

Choisis une action :`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendText sends a plain message with an optional keyboard.
func SendText(api Sender, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := api.Send(msg)
	return err
}

// MealText renders one meal with its foods and macro totals.
func MealText(m domain.Meal, loc *time.Location) string {
	var b strings.Builder
	macros := m.Macros()

	fmt.Fprintf(&b, "🍽️ Repas #%d\n", m.ID)
	fmt.Fprintf(&b, "📅 %s (ajouté le %s)\n", m.Date, utils.FormatCreatedAt(m.CreatedAt, loc))
	fmt.Fprintf(&b, "🔥 %s kcal\n", keyboards.Number(m.TotalCalories, 0))
	fmt.Fprintf(&b, "Protéines %s g · Glucides %s g · Lipides %s g\n",
		keyboards.Number(macros.Proteins, 1), keyboards.Number(macros.Carbs, 1), keyboards.Number(macros.Fats, 1))

	if len(m.Foods) == 0 {
		b.WriteString("\nAucun aliment.")
		return b.String()
	}
	b.WriteString("\n")
	for _, f := range m.Foods {
		b.WriteString(foodLine(f.Name, f.Brand, f.Quantity, f.Measure, f.Calories, f.IsScanned))
	}
	return strings.TrimRight(b.String(), "\n")
}

// MealListText renders a list of meals with the day total.
func MealListText(title string, meals []domain.Meal) string {
	if len(meals) == 0 {
		return title + "\n\nAucun repas enregistré."
	}
	totals := domain.SumMacros(meals)
	return fmt.Sprintf("%s\n\n%d repas · %s kcal\nProtéines %s g · Glucides %s g · Lipides %s g",
		title, len(meals), keyboards.Number(totals.Calories, 0),
		keyboards.Number(totals.Proteins, 1), keyboards.Number(totals.Carbs, 1), keyboards.Number(totals.Fats, 1))
}

// PendingText renders the meal being composed.
func PendingText(foods []domain.PendingFood) string {
	if len(foods) == 0 {
		return "🧺 Repas en cours\n\nAucun aliment sélectionné. Recherche ou scanne un produit pour commencer."
	}
	var b strings.Builder
	newFoods := make([]domain.NewFood, 0, len(foods))
	b.WriteString("🧺 Repas en cours\n\n")
	for _, p := range foods {
		f := p.Food.WithDefaults()
		newFoods = append(newFoods, f)
		b.WriteString(foodLine(f.Name, f.Brand, f.Quantity, f.Measure, f.Calories, f.IsScanned))
	}
	fmt.Fprintf(&b, "\nTotal : %s kcal", keyboards.Number(domain.TotalCalories(newFoods), 0))
	return b.String()
}

// SearchResultsText introduces the hints returned for query.
func SearchResultsText(query string, entries []domain.FoodEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("Aucun résultat pour « %s ».", query)
	}
	shown := len(entries)
	if shown > keyboards.MaxResults {
		shown = keyboards.MaxResults
	}
	return fmt.Sprintf("🔍 %d résultat(s) pour « %s ». Touche un aliment pour l'ajouter au repas.", shown, query)
}

// ProductText describes a product found by barcode.
func ProductText(code string, e domain.FoodEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 %s\n", e.Label)
	if e.Brand != "" {
		fmt.Fprintf(&b, "🏷️ %s\n", e.Brand)
	}
	fmt.Fprintf(&b, "🔢 %s\n\n", code)
	fmt.Fprintf(&b, "Pour 100 g : %s kcal\n", optional(e.Nutrients.Calories, 0))
	fmt.Fprintf(&b, "Protéines %s g · Glucides %s g · Lipides %s g",
		optional(e.Nutrients.Proteins, 1), optional(e.Nutrients.Carbs, 1), optional(e.Nutrients.Fats, 1))
	return b.String()
}

func foodLine(name, brand string, quantity float64, measure string, calories float64, scanned bool) string {
	line := "• " + name
	if brand != "" {
		line += " (" + brand + ")"
	}
	line += fmt.Sprintf(" · %s %s · %s kcal", keyboards.Number(quantity, 2), measure, keyboards.Number(calories, 0))
	if scanned {
		line += " 📷"
	}
	return line + "\n"
}

func optional(v *float64, prec int) string {
	if v == nil {
		return "?"
	}
	return keyboards.Number(*v, prec)
}
