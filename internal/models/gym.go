package models

import "time"

// Subscription plans and statuses are stored and reported only; nothing in
// the API transitions them automatically.
const (
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"

	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

type GymAddress struct {
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`
	Country string `gorm:"size:100;default:'USA'" json:"country"`
}

type GymSettings struct {
	Timezone             string `gorm:"size:50;default:'America/New_York'" json:"timezone"`
	Currency             string `gorm:"size:10;default:'USD'" json:"currency"`
	MaxMembers           int    `gorm:"default:100" json:"max_members"`
	MaxTrainers          int    `gorm:"default:10" json:"max_trainers"`
	AllowPublicSignup    bool   `gorm:"default:true" json:"allow_public_signup"`
	RequireAdminApproval bool   `gorm:"default:false" json:"require_admin_approval"`
}

// GymStatistics is a persisted snapshot; it is recomputed from the users
// table before every statistics-bearing response.
type GymStatistics struct {
	TotalMembers  int64 `gorm:"default:0" json:"total_members"`
	TotalTrainers int64 `gorm:"default:0" json:"total_trainers"`
	ActiveMembers int64 `gorm:"default:0" json:"active_members"`
}

type Gym struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`

	// Code is the human-shareable join code. Unique and immutable after
	// creation; always stored uppercase.
	Code string `gorm:"size:12;uniqueIndex;not null" json:"code"`

	// OwnerID is nullable because the gym row is created before its admin
	// user and patched afterwards.
	OwnerID *uint `json:"owner_id"`

	Email   string     `gorm:"size:100" json:"email"`
	Phone   string     `gorm:"size:20" json:"phone"`
	Address GymAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	SubscriptionPlan      string     `gorm:"size:20;default:'basic'" json:"subscription_plan"`
	SubscriptionStatus    string     `gorm:"size:20;default:'trial'" json:"subscription_status"`
	SubscriptionStartDate time.Time  `gorm:"autoCreateTime" json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`

	Settings   GymSettings   `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	Statistics GymStatistics `gorm:"embedded;embeddedPrefix:stats_" json:"statistics"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
