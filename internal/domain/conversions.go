package domain

import "github.com/shopspring/decimal"

// AsNewFood converts a nutrition hint into a food ready to be logged.
// Unknown calories count as 0; the measure is the first one offered.
func (e FoodEntry) AsNewFood(scanned bool) NewFood {
	measure := DefaultMeasure
	if len(e.Measures) > 0 && e.Measures[0] != "" {
		measure = e.Measures[0]
	}
	return NewFood{
		Name:      e.Label,
		Brand:     e.Brand,
		Image:     e.Image,
		Calories:  ValueOr(e.Nutrients.Calories, 0),
		Proteins:  e.Nutrients.Proteins,
		Carbs:     e.Nutrients.Carbs,
		Fats:      e.Nutrients.Fats,
		Quantity:  1,
		Measure:   measure,
		IsScanned: scanned,
	}
}

// AsScannedProduct converts a barcode hint into a staging entry.
func (e FoodEntry) AsScannedProduct() ScannedProduct {
	return ScannedProduct{
		FoodID:   e.FoodID,
		Label:    e.Label,
		Brand:    e.Brand,
		Image:    e.Image,
		Calories: ValueOr(e.Nutrients.Calories, 0),
		Proteins: e.Nutrients.Proteins,
		Carbs:    e.Nutrients.Carbs,
		Fats:     e.Nutrients.Fats,
	}
}

// AsNewFood converts a staged product into a scanned food of one portion.
func (p ScannedProduct) AsNewFood() NewFood {
	return NewFood{
		Name:      p.Label,
		Brand:     p.Brand,
		Image:     p.Image,
		Calories:  p.Calories,
		Proteins:  p.Proteins,
		Carbs:     p.Carbs,
		Fats:      p.Fats,
		Quantity:  1,
		Measure:   DefaultMeasure,
		IsScanned: true,
	}
}

// TotalCalories sums the calories of foods.
func TotalCalories(foods []NewFood) float64 {
	total := decimal.Zero
	for _, f := range foods {
		total = total.Add(decimal.NewFromFloat(f.Calories))
	}
	return total.InexactFloat64()
}

// Macros totals the foods of the meal. Unknown nutrients count as 0 and
// macronutrients are rounded to one decimal.
func (m Meal) Macros() MacroTotals {
	return SumMacros([]Meal{m})
}

// SumMacros totals several meals; calories come from each meal's stored
// total.
func SumMacros(meals []Meal) MacroTotals {
	calories, proteins, carbs, fats := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, m := range meals {
		calories = calories.Add(decimal.NewFromFloat(m.TotalCalories))
		for _, f := range m.Foods {
			proteins = proteins.Add(decimal.NewFromFloat(ValueOr(f.Proteins, 0)))
			carbs = carbs.Add(decimal.NewFromFloat(ValueOr(f.Carbs, 0)))
			fats = fats.Add(decimal.NewFromFloat(ValueOr(f.Fats, 0)))
		}
	}
	return MacroTotals{
		Calories: calories.Round(0).InexactFloat64(),
		Proteins: proteins.Round(1).InexactFloat64(),
		Carbs:    carbs.Round(1).InexactFloat64(),
		Fats:     fats.Round(1).InexactFloat64(),
	}
}
