package models

import (
	"sort"
	"time"
)

// WorkoutExercise is one entry of a workout's ordered exercise list. The list
// is stored as a JSON column; exercise ids are validated against the tenant's
// exercises before the workout is persisted.
type WorkoutExercise struct {
	ExerciseID  uint    `json:"exercise_id"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	DurationMin int     `json:"duration_min"`
	WeightKg    float64 `json:"weight_kg"`
	RestSeconds int     `json:"rest_seconds"`
	Notes       string  `json:"notes"`
	Order       int     `json:"order"`
}

type Workout struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	GymID uint `gorm:"index" json:"gym_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	// strength, cardio, hiit, yoga, pilates, crossfit, custom
	Type string `gorm:"size:30;not null" json:"type"`
	// beginner, intermediate, advanced
	Difficulty string `gorm:"size:20;default:'beginner'" json:"difficulty"`

	DurationMin int `json:"duration_min"`

	Exercises []WorkoutExercise `gorm:"serializer:json" json:"exercises"`

	// member, trainer, all
	TargetAudience string `gorm:"size:20;default:'all'" json:"target_audience"`

	CreatedByID uint `json:"created_by"`
	IsPublic    bool `gorm:"default:false" json:"is_public"`

	Tags              []string `gorm:"serializer:json" json:"tags"`
	EstimatedCalories float64  `json:"estimated_calories"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SortExercises orders the entries by their Order field so clients always
// receive the list in execution order regardless of input order.
func (w *Workout) SortExercises() {
	sort.SliceStable(w.Exercises, func(i, j int) bool {
		return w.Exercises[i].Order < w.Exercises[j].Order
	})
}

// ExerciseIDs returns the referenced exercise ids, deduplicated.
func (w *Workout) ExerciseIDs() []uint {
	seen := make(map[uint]struct{}, len(w.Exercises))
	ids := make([]uint, 0, len(w.Exercises))
	for _, e := range w.Exercises {
		if _, ok := seen[e.ExerciseID]; ok {
			continue
		}
		seen[e.ExerciseID] = struct{}{}
		ids = append(ids, e.ExerciseID)
	}
	return ids
}
