package models

import "time"

type MealItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Notes    string  `json:"notes"`
}

type Meal struct {
	// breakfast, lunch, dinner, snack, pre_workout, post_workout
	MealType string     `json:"meal_type"`
	Time     string     `json:"time"`
	Items    []MealItem `json:"items"`

	// TotalCalories is always recomputed server-side from Items; any
	// client-supplied value is overwritten.
	TotalCalories float64 `json:"total_calories"`
}

type DailyMacros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

type DietPlan struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	GymID uint `gorm:"index" json:"gym_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	// weight_loss, weight_gain, muscle_gain, maintenance, endurance, general_health
	Goal string `gorm:"size:30;not null" json:"goal"`

	DurationDays  int         `gorm:"default:7" json:"duration_days"`
	DailyCalories float64     `json:"daily_calories"`
	DailyMacros   DailyMacros `gorm:"embedded;embeddedPrefix:macros_" json:"daily_macros"`

	Meals        []Meal   `gorm:"serializer:json" json:"meals"`
	Restrictions []string `gorm:"serializer:json" json:"restrictions"`

	CreatedByID uint `json:"created_by"`
	IsPublic    bool `gorm:"default:false" json:"is_public"`

	Tags []string `gorm:"serializer:json" json:"tags"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeMeals recomputes every meal's TotalCalories as the sum of its
// items' calories, discarding whatever the client sent.
func (p *DietPlan) NormalizeMeals() {
	for i := range p.Meals {
		var total float64
		for _, item := range p.Meals[i].Items {
			total += item.Calories
		}
		p.Meals[i].TotalCalories = total
	}
}
