package database

// MealRecord is the row of the meals table.
type MealRecord struct {
	ID            int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Date          string       `gorm:"column:date"` // Format: "YYYY-MM-DD"
	TotalCalories float64      `gorm:"column:totalCalories"`
	CreatedAt     string       `gorm:"column:createdAt"`
	Foods         []FoodRecord `gorm:"foreignKey:MealID;references:ID"`
}

func (MealRecord) TableName() string { return "meals" }

// FoodRecord is the row of the foods table. Nil pointers are stored as NULL.
type FoodRecord struct {
	ID        int64    `gorm:"column:id;primaryKey;autoIncrement"`
	MealID    int64    `gorm:"column:mealId"`
	Name      string   `gorm:"column:name"`
	Brand     *string  `gorm:"column:brand"`
	Image     *string  `gorm:"column:image"`
	Calories  float64  `gorm:"column:calories"`
	Proteins  *float64 `gorm:"column:proteins"`
	Carbs     *float64 `gorm:"column:carbs"`
	Fats      *float64 `gorm:"column:fats"`
	Quantity  float64  `gorm:"column:quantity"`
	Measure   string   `gorm:"column:measure"`
	IsScanned bool     `gorm:"column:isScanned"`
}

func (FoodRecord) TableName() string { return "foods" }
