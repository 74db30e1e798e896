package models

import "time"

type Exercise struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	GymID uint `gorm:"index" json:"gym_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	// cardio, strength, flexibility, balance, sports, other
	Category string `gorm:"size:30;not null" json:"category"`
	// bodyweight, dumbbells, barbell, machine, cable, kettlebell, resistance_band, other
	Equipment string `gorm:"size:30;default:'bodyweight'" json:"equipment"`
	// beginner, intermediate, advanced
	Difficulty string `gorm:"size:20;default:'beginner'" json:"difficulty"`

	MuscleGroups []string `gorm:"serializer:json" json:"muscle_groups"`
	Instructions []string `gorm:"serializer:json" json:"instructions"`

	ImageURL          string  `gorm:"size:255" json:"image_url"`
	VideoURL          string  `gorm:"size:255" json:"video_url"`
	CaloriesPerMinute float64 `json:"calories_per_minute"`

	CreatedByID uint `json:"created_by"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
