package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/httpresp"
	"github.com/fitcore/gym-manager/internal/logger"
	"github.com/fitcore/gym-manager/internal/middleware"
	"github.com/fitcore/gym-manager/internal/models"
)

type DietPlanHandler struct {
	db *gorm.DB
}

func NewDietPlanHandler(db *gorm.DB) *DietPlanHandler {
	return &DietPlanHandler{db: db}
}

// --------- Requests ---------

type CreateDietPlanRequest struct {
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description"`
	Goal          string             `json:"goal" binding:"required"`
	DurationDays  int                `json:"duration_days"`
	DailyCalories float64            `json:"daily_calories"`
	DailyMacros   models.DailyMacros `json:"daily_macros"`
	Meals         []models.Meal      `json:"meals"`
	Restrictions  []string           `json:"restrictions"`
	Tags          []string           `json:"tags"`
	IsPublic      *bool              `json:"is_public"`
}

type UpdateDietPlanRequest struct {
	Name          *string             `json:"name"`
	Description   *string             `json:"description"`
	Goal          *string             `json:"goal"`
	DurationDays  *int                `json:"duration_days"`
	DailyCalories *float64            `json:"daily_calories"`
	DailyMacros   *models.DailyMacros `json:"daily_macros"`
	Meals         *[]models.Meal      `json:"meals"`
	Restrictions  *[]string           `json:"restrictions"`
	Tags          *[]string           `json:"tags"`
	IsPublic      *bool               `json:"is_public"`
	IsActive      *bool               `json:"is_active"`
}

// --------- Handlers ---------

func (h *DietPlanHandler) List(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	q := h.db.WithContext(c.Request.Context()).Where("gym_id = ?", gymID)

	if callerRole == tenancy.RoleMember {
		q = q.Where("is_public = ? OR created_by_id = ?", true, callerID)
	}

	if goal := c.Query("goal"); goal != "" {
		q = q.Where("goal = ?", goal)
	}
	if isActive := c.Query("is_active"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var plans []models.DietPlan
	if err := q.Order("created_at DESC").Find(&plans).Error; err != nil {
		logger.FromGin(c).Error("failed to list diet plans", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.List(c, plans)
}

func (h *DietPlanHandler) Get(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	plan, ok := h.findPlan(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanViewRestricted(callerRole, plan.IsPublic, plan.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to view this diet plan")
		return
	}

	httpresp.OK(c, plan)
}

func (h *DietPlanHandler) Create(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide diet plan name and goal")
		return
	}

	plan := models.DietPlan{
		GymID:         gymID,
		CreatedByID:   callerID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Goal:          req.Goal,
		DurationDays:  req.DurationDays,
		DailyCalories: req.DailyCalories,
		DailyMacros:   req.DailyMacros,
		Meals:         req.Meals,
		Restrictions:  req.Restrictions,
		Tags:          req.Tags,
		IsActive:      true,
	}
	if req.IsPublic != nil {
		plan.IsPublic = *req.IsPublic
	}
	if plan.DurationDays <= 0 {
		plan.DurationDays = 7
	}
	plan.NormalizeMeals()

	if err := h.db.WithContext(c.Request.Context()).Create(&plan).Error; err != nil {
		logger.FromGin(c).Error("failed to create diet plan", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Created(c, "Diet plan created successfully", plan)
}

func (h *DietPlanHandler) Update(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	plan, ok := h.findPlan(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanMutate(callerRole, plan.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to update this diet plan")
		return
	}

	var req UpdateDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Goal != nil {
		plan.Goal = *req.Goal
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.DailyCalories != nil {
		plan.DailyCalories = *req.DailyCalories
	}
	if req.DailyMacros != nil {
		plan.DailyMacros = *req.DailyMacros
	}
	if req.Restrictions != nil {
		plan.Restrictions = *req.Restrictions
	}
	if req.Tags != nil {
		plan.Tags = *req.Tags
	}
	if req.IsPublic != nil {
		plan.IsPublic = *req.IsPublic
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.Meals != nil {
		plan.Meals = *req.Meals
		plan.NormalizeMeals()
	}

	if err := h.db.WithContext(c.Request.Context()).Save(plan).Error; err != nil {
		logger.FromGin(c).Error("failed to update diet plan", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.OKMessage(c, "Diet plan updated successfully", plan)
}

// Delete marks the plan inactive rather than removing the row, so members
// already following it keep their history.
func (h *DietPlanHandler) Delete(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	plan, ok := h.findPlan(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanMutate(callerRole, plan.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to delete this diet plan")
		return
	}

	plan.IsActive = false
	if err := h.db.WithContext(c.Request.Context()).Save(plan).Error; err != nil {
		logger.FromGin(c).Error("failed to delete diet plan", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Message(c, "Diet plan deleted successfully")
}

func (h *DietPlanHandler) findPlan(c *gin.Context, gymID uint) (*models.DietPlan, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid diet plan id")
		return nil, false
	}

	var plan models.DietPlan
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND gym_id = ?", uint(id), gymID).
		First(&plan).Error
	if err != nil {
		httperr.NotFound(c, "Diet plan not found")
		return nil, false
	}
	return &plan, true
}
