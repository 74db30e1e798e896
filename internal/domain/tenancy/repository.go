package tenancy

import (
	"context"

	"github.com/fitcore/gym-manager/internal/models"
)

// Repository is the persistence boundary of the tenancy core.
type Repository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction; any error rolls the whole unit back.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Gyms --------
	CreateGym(ctx context.Context, gym *models.Gym) error
	SetGymOwner(ctx context.Context, gymID, ownerID uint) error
	GymByID(ctx context.Context, id uint) (*models.Gym, error)

	// GymByCode resolves an uppercase-normalized join code among active
	// gyms only; returns nil without error when no such gym exists.
	GymByCode(ctx context.Context, code string) (*models.Gym, error)
	CodeTaken(ctx context.Context, code string) (bool, error)

	// -------- Users --------
	CreateUser(ctx context.Context, user *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CountUsersByRole(ctx context.Context, gymID uint, role Role) (int64, error)

	// -------- Statistics --------
	// RecomputeStatistics recounts members, trainers and active members for
	// the gym and persists the snapshot on the gym row.
	RecomputeStatistics(ctx context.Context, gymID uint) (*models.GymStatistics, error)
}
