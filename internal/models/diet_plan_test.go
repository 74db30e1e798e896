package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMeals(t *testing.T) {
	p := DietPlan{
		Meals: []Meal{
			{
				MealType: "breakfast",
				// Client-supplied total is wrong on purpose.
				TotalCalories: 9999,
				Items: []MealItem{
					{Name: "oats", Calories: 300},
					{Name: "banana", Calories: 105},
				},
			},
			{
				MealType: "snack",
				Items:    nil,
			},
		},
	}

	p.NormalizeMeals()

	assert.Equal(t, 405.0, p.Meals[0].TotalCalories)
	assert.Equal(t, 0.0, p.Meals[1].TotalCalories)
}

func TestNormalizeMealsNoMeals(t *testing.T) {
	var p DietPlan
	p.NormalizeMeals()
	assert.Empty(t, p.Meals)
}
