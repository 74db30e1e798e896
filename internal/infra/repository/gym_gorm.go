package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/models"
)

// GymGormRepository is the gorm-backed implementation of the tenancy core's
// persistence boundary.
type GymGormRepository struct {
	db *gorm.DB
}

func NewGymGormRepository(db *gorm.DB) *GymGormRepository {
	return &GymGormRepository{db: db}
}

func (r *GymGormRepository) Transaction(ctx context.Context, fn func(tenancy.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GymGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Gyms
// --------------------------------------------------

func (r *GymGormRepository) CreateGym(ctx context.Context, gym *models.Gym) error {
	return r.db.WithContext(ctx).Create(gym).Error
}

func (r *GymGormRepository) SetGymOwner(ctx context.Context, gymID, ownerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Gym{}).
		Where("id = ?", gymID).
		Update("owner_id", ownerID).Error
}

func (r *GymGormRepository) GymByID(ctx context.Context, id uint) (*models.Gym, error) {
	var gym models.Gym
	if err := r.db.WithContext(ctx).First(&gym, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gym, nil
}

func (r *GymGormRepository) GymByCode(ctx context.Context, code string) (*models.Gym, error) {
	var gym models.Gym
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&gym).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gym, nil
}

func (r *GymGormRepository) CodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Gym{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *GymGormRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GymGormRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GymGormRepository) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *GymGormRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *GymGormRepository) CountUsersByRole(ctx context.Context, gymID uint, role tenancy.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("gym_id = ? AND role = ?", gymID, string(role)).
		Count(&count).Error
	return count, err
}

// --------------------------------------------------
// Statistics
// --------------------------------------------------

// RecomputeStatistics always recounts from the users table; the persisted
// snapshot is never trusted on the read path.
func (r *GymGormRepository) RecomputeStatistics(ctx context.Context, gymID uint) (*models.GymStatistics, error) {
	var stats models.GymStatistics

	q := r.db.WithContext(ctx).Model(&models.User{})

	if err := q.Session(&gorm.Session{}).
		Where("gym_id = ? AND role = ?", gymID, string(tenancy.RoleMember)).
		Count(&stats.TotalMembers).Error; err != nil {
		return nil, err
	}

	if err := q.Session(&gorm.Session{}).
		Where("gym_id = ? AND role = ?", gymID, string(tenancy.RoleTrainer)).
		Count(&stats.TotalTrainers).Error; err != nil {
		return nil, err
	}

	if err := q.Session(&gorm.Session{}).
		Where("gym_id = ? AND role = ? AND is_active = ?", gymID, string(tenancy.RoleMember), true).
		Count(&stats.ActiveMembers).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).
		Model(&models.Gym{}).
		Where("id = ?", gymID).
		Updates(map[string]any{
			"stats_total_members":  stats.TotalMembers,
			"stats_total_trainers": stats.TotalTrainers,
			"stats_active_members": stats.ActiveMembers,
		}).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// Compile-time check
var _ tenancy.Repository = (*GymGormRepository)(nil)
