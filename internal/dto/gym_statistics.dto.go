package dto

import (
	"time"

	"github.com/fitcore/gym-manager/internal/models"
)

type ContentStatsDTO struct {
	TotalWorkouts  int64 `json:"total_workouts"`
	TotalExercises int64 `json:"total_exercises"`
	TotalDietPlans int64 `json:"total_diet_plans"`
}

type SubscriptionDTO struct {
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type GymStatisticsDTO struct {
	Users        models.GymStatistics `json:"users"`
	Content      ContentStatsDTO      `json:"content"`
	Subscription SubscriptionDTO      `json:"subscription"`
}
