package domain

// DefaultMeasure is the unit label used when a food carries none.
const DefaultMeasure = "portion"

// Meal is a logged eating event with its foods.
type Meal struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"` // Format: "YYYY-MM-DD"
	TotalCalories float64 `json:"totalCalories"`
	CreatedAt     string  `json:"createdAt"`
	Foods         []Food  `json:"foods"`
}

// Food is one item of a meal. Nil nutrients are unknown, not zero.
type Food struct {
	ID        int64    `json:"id"`
	MealID    int64    `json:"mealId"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand,omitempty"`
	Image     string   `json:"image,omitempty"`
	Calories  float64  `json:"calories"`
	Proteins  *float64 `json:"proteins,omitempty"`
	Carbs     *float64 `json:"carbs,omitempty"`
	Fats      *float64 `json:"fats,omitempty"`
	Quantity  float64  `json:"quantity"`
	Measure   string   `json:"measure"`
	IsScanned bool     `json:"isScanned"`
}

// NewMeal is the input of the aggregate create operation.
type NewMeal struct {
	Date          string    `validate:"required,datetime=2006-01-02"`
	TotalCalories float64   `validate:"gte=0"`
	Foods         []NewFood `validate:"dive"`
}

// NewFood describes a food to insert together with its meal.
type NewFood struct {
	Name      string   `json:"name" validate:"required"`
	Brand     string   `json:"brand,omitempty"`
	Image     string   `json:"image,omitempty"`
	Calories  float64  `json:"calories" validate:"gte=0"`
	Proteins  *float64 `json:"proteins,omitempty" validate:"omitempty,gte=0"`
	Carbs     *float64 `json:"carbs,omitempty" validate:"omitempty,gte=0"`
	Fats      *float64 `json:"fats,omitempty" validate:"omitempty,gte=0"`
	Quantity  float64  `json:"quantity" validate:"gte=0"`
	Measure   string   `json:"measure"`
	IsScanned bool     `json:"isScanned"`
}

// WithDefaults returns a copy with quantity and measure defaulted.
func (f NewFood) WithDefaults() NewFood {
	if f.Quantity == 0 {
		f.Quantity = 1
	}
	if f.Measure == "" {
		f.Measure = DefaultMeasure
	}
	return f
}

// ScannedProduct is a barcode lookup result waiting in the staging list.
type ScannedProduct struct {
	FoodID   string   `json:"foodId"`
	Label    string   `json:"label"`
	Brand    string   `json:"brand,omitempty"`
	Image    string   `json:"image,omitempty"`
	Calories float64  `json:"calories"`
	Proteins *float64 `json:"proteins,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fats     *float64 `json:"fats,omitempty"`
}

// Nutrients is the sparse nutrient map of a nutrition database entry.
type Nutrients struct {
	Calories *float64
	Proteins *float64
	Carbs    *float64
	Fats     *float64
	Fiber    *float64
}

// FoodEntry is one ranked hint returned by the nutrition database.
type FoodEntry struct {
	FoodID    string
	Label     string
	Brand     string
	Image     string
	Category  string
	Nutrients Nutrients
	Measures  []string
}

// PendingFood is a food selected for the meal being composed.
type PendingFood struct {
	ID   string
	Food NewFood
}

// MacroTotals sums calories and macronutrients for display.
type MacroTotals struct {
	Calories float64
	Proteins float64
	Carbs    float64
	Fats     float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// ValueOr returns *p, or fallback when p is nil.
func ValueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
