package models

import "time"

type User struct {
	ID    uint `gorm:"primaryKey" json:"id"`
	GymID uint `gorm:"index" json:"gym_id"`
	Gym   Gym  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null" json:"role"`

	Phone       string     `gorm:"size:20" json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `gorm:"size:20" json:"gender"`

	IsActive    bool      `gorm:"default:true" json:"is_active"`
	JoinedGymAt time.Time `json:"joined_gym_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
