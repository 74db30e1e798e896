package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/audit"
	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/dto"
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/httpresp"
	"github.com/fitcore/gym-manager/internal/joincode"
	"github.com/fitcore/gym-manager/internal/logger"
	"github.com/fitcore/gym-manager/internal/middleware"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/timezone"
	"github.com/fitcore/gym-manager/internal/validators"
)

var (
	errInvalidTimezone = errors.New("Invalid timezone")
	errNegativeLimit   = errors.New("Capacity limits must be zero or positive")
)

type GymHandler struct {
	db    *gorm.DB
	repo  tenancy.Repository
	audit *audit.Dispatcher
}

func NewGymHandler(db *gorm.DB, repo tenancy.Repository, dispatcher *audit.Dispatcher) *GymHandler {
	return &GymHandler{db: db, repo: repo, audit: dispatcher}
}

// --------- Requests ---------

type UpdateGymSettingsRequest struct {
	Timezone             *string `json:"timezone"`
	Currency             *string `json:"currency"`
	MaxMembers           *int    `json:"max_members"`
	MaxTrainers          *int    `json:"max_trainers"`
	AllowPublicSignup    *bool   `json:"allow_public_signup"`
	RequireAdminApproval *bool   `json:"require_admin_approval"`
}

type UpdateGymRequest struct {
	Name             *string                   `json:"name"`
	Email            *string                   `json:"email"`
	Phone            *string                   `json:"phone"`
	Address          *models.GymAddress        `json:"address"`
	Settings         *UpdateGymSettingsRequest `json:"settings"`
	SubscriptionPlan *string                   `json:"subscription_plan"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// --------- Public ---------

// ValidateCode is the only public gym route: it confirms a join code without
// exposing anything beyond the gym's name.
func (h *GymHandler) ValidateCode(c *gin.Context) {
	code := joincode.Normalize(c.Param("gymCode"))
	if code == "" {
		httperr.BadRequest(c, "Gym code is required")
		return
	}

	gym, err := h.repo.GymByCode(c.Request.Context(), code)
	if err != nil {
		logger.FromGin(c).Error("gym code lookup failed", zap.Error(err))
		httperr.Internal(c)
		return
	}
	if gym == nil {
		httperr.NotFound(c, "Invalid gym code")
		return
	}

	httpresp.OK(c, gin.H{
		"gym_name": gym.Name,
		"gym_code": gym.Code,
		"is_valid": true,
	})
}

// --------- Authenticated ---------

func (h *GymHandler) MyGym(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	gym, err := h.loadGymWithStats(c, gymID)
	if err != nil {
		return
	}

	httpresp.OK(c, gym)
}

// --------- Admin only ---------

func (h *GymHandler) GetGym(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid gym id")
		return
	}

	// Admins can only ever see their own gym.
	if uint(id) != gymID {
		httperr.Forbidden(c, "Not authorized to view this gym")
		return
	}

	gym, err := h.loadGymWithStats(c, gymID)
	if err != nil {
		return
	}

	httpresp.OK(c, gym)
}

func (h *GymHandler) UpdateGym(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid gym id")
		return
	}
	if uint(id) != gymID {
		httperr.Forbidden(c, "Not authorized to update this gym")
		return
	}

	var gym models.Gym
	if err := h.db.WithContext(c.Request.Context()).First(&gym, gymID).Error; err != nil {
		httperr.NotFound(c, "Gym not found")
		return
	}

	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	// Code and OwnerID are immutable; they are simply never copied.
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		gym.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if !validators.IsEmail(*req.Email) {
			httperr.BadRequest(c, "Please enter a valid email")
			return
		}
		gym.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		gym.Phone = *req.Phone
	}
	if req.Address != nil {
		gym.Address = *req.Address
	}
	if req.SubscriptionPlan != nil {
		switch *req.SubscriptionPlan {
		case models.PlanBasic, models.PlanPremium, models.PlanEnterprise:
			gym.SubscriptionPlan = *req.SubscriptionPlan
		default:
			httperr.BadRequest(c, "Invalid subscription plan")
			return
		}
	}
	if req.Settings != nil {
		if err := applySettings(&gym.Settings, req.Settings); err != nil {
			httperr.BadRequest(c, err.Error())
			return
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&gym).Error; err != nil {
		logger.FromGin(c).Error("failed to update gym", zap.Error(err))
		httperr.Internal(c)
		return
	}

	h.audit.Dispatch(audit.Event{
		GymID:    gymID,
		UserID:   &userID,
		Action:   "gym_updated",
		Entity:   "gym",
		EntityID: &gym.ID,
	})

	httpresp.OKMessage(c, "Gym updated successfully", gym)
}

func (h *GymHandler) ListUsers(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	q := h.db.WithContext(c.Request.Context()).Where("gym_id = ?", gymID)

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if isActive := c.Query("is_active"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		logger.FromGin(c).Error("failed to list gym users", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.List(c, users)
}

func (h *GymHandler) UpdateUserStatus(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide is_active")
		return
	}

	user, ok := h.findGymUser(c, gymID)
	if !ok {
		return
	}

	if user.ID == callerID {
		httperr.BadRequest(c, "You cannot deactivate your own account")
		return
	}

	user.IsActive = *req.IsActive
	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		logger.FromGin(c).Error("failed to update user status", zap.Error(err))
		httperr.Internal(c)
		return
	}

	h.audit.Dispatch(audit.Event{
		GymID:    gymID,
		UserID:   &callerID,
		Action:   "user_status_updated",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]bool{"is_active": user.IsActive},
	})

	verb := "deactivated"
	if user.IsActive {
		verb = "activated"
	}
	httpresp.OKMessage(c, "User "+verb+" successfully", user)
}

func (h *GymHandler) DeleteUser(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	user, ok := h.findGymUser(c, gymID)
	if !ok {
		return
	}

	if user.ID == callerID {
		httperr.BadRequest(c, "You cannot delete your own account")
		return
	}
	if user.Role == string(tenancy.RoleAdmin) {
		httperr.BadRequest(c, "Cannot delete admin accounts")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&models.User{}, user.ID).Error; err != nil {
		logger.FromGin(c).Error("failed to delete user", zap.Error(err))
		httperr.Internal(c)
		return
	}

	if _, err := h.repo.RecomputeStatistics(c.Request.Context(), gymID); err != nil {
		logger.FromGin(c).Warn("failed to refresh statistics", zap.Error(err))
	}

	h.audit.Dispatch(audit.Event{
		GymID:    gymID,
		UserID:   &callerID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.Message(c, "User deleted successfully")
}

func (h *GymHandler) Statistics(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	gym, err := h.loadGymWithStats(c, gymID)
	if err != nil {
		return
	}

	ctx := c.Request.Context()
	var content dto.ContentStatsDTO

	if err := h.db.WithContext(ctx).Model(&models.Workout{}).
		Where("gym_id = ?", gymID).Count(&content.TotalWorkouts).Error; err != nil {
		logger.FromGin(c).Error("failed to count workouts", zap.Error(err))
		httperr.Internal(c)
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Exercise{}).
		Where("gym_id = ?", gymID).Count(&content.TotalExercises).Error; err != nil {
		logger.FromGin(c).Error("failed to count exercises", zap.Error(err))
		httperr.Internal(c)
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.DietPlan{}).
		Where("gym_id = ?", gymID).Count(&content.TotalDietPlans).Error; err != nil {
		logger.FromGin(c).Error("failed to count diet plans", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.OK(c, dto.GymStatisticsDTO{
		Users:   gym.Statistics,
		Content: content,
		Subscription: dto.SubscriptionDTO{
			Plan:      gym.SubscriptionPlan,
			Status:    gym.SubscriptionStatus,
			StartDate: gym.SubscriptionStartDate,
			EndDate:   gym.SubscriptionEndDate,
		},
	})
}

// --------- Helpers ---------

// loadGymWithStats fetches the gym and refreshes its statistics snapshot
// before it is returned; statistics are always recomputed on the read path.
func (h *GymHandler) loadGymWithStats(c *gin.Context, gymID uint) (*models.Gym, error) {
	ctx := c.Request.Context()

	stats, err := h.repo.RecomputeStatistics(ctx, gymID)
	if err != nil {
		logger.FromGin(c).Error("failed to recompute statistics", zap.Error(err))
		httperr.Internal(c)
		return nil, err
	}

	gym, err := h.repo.GymByID(ctx, gymID)
	if err != nil {
		logger.FromGin(c).Error("failed to load gym", zap.Error(err))
		httperr.Internal(c)
		return nil, err
	}
	if gym == nil {
		httperr.NotFound(c, "Gym not found")
		return nil, gorm.ErrRecordNotFound
	}

	gym.Statistics = *stats
	return gym, nil
}

func (h *GymHandler) findGymUser(c *gin.Context, gymID uint) (*models.User, bool) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid user id")
		return nil, false
	}

	var user models.User
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND gym_id = ?", uint(userID), gymID).
		First(&user).Error
	if err != nil {
		httperr.NotFound(c, "User not found in your gym")
		return nil, false
	}
	return &user, true
}

func applySettings(s *models.GymSettings, req *UpdateGymSettingsRequest) error {
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			return errInvalidTimezone
		}
		s.Timezone = *req.Timezone
	}
	if req.Currency != nil {
		s.Currency = *req.Currency
	}
	if req.MaxMembers != nil {
		if *req.MaxMembers < 0 {
			return errNegativeLimit
		}
		s.MaxMembers = *req.MaxMembers
	}
	if req.MaxTrainers != nil {
		if *req.MaxTrainers < 0 {
			return errNegativeLimit
		}
		s.MaxTrainers = *req.MaxTrainers
	}
	if req.AllowPublicSignup != nil {
		s.AllowPublicSignup = *req.AllowPublicSignup
	}
	if req.RequireAdminApproval != nil {
		s.RequireAdminApproval = *req.RequireAdminApproval
	}
	return nil
}
