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

type ExerciseHandler struct {
	db *gorm.DB
}

func NewExerciseHandler(db *gorm.DB) *ExerciseHandler {
	return &ExerciseHandler{db: db}
}

// --------- Requests ---------

type CreateExerciseRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	Category          string   `json:"category" binding:"required"`
	Equipment         string   `json:"equipment"`
	Difficulty        string   `json:"difficulty"`
	MuscleGroups      []string `json:"muscle_groups"`
	Instructions      []string `json:"instructions"`
	ImageURL          string   `json:"image_url"`
	VideoURL          string   `json:"video_url"`
	CaloriesPerMinute float64  `json:"calories_per_minute"`
}

type UpdateExerciseRequest struct {
	Name              *string   `json:"name"`
	Description       *string   `json:"description"`
	Category          *string   `json:"category"`
	Equipment         *string   `json:"equipment"`
	Difficulty        *string   `json:"difficulty"`
	MuscleGroups      *[]string `json:"muscle_groups"`
	Instructions      *[]string `json:"instructions"`
	ImageURL          *string   `json:"image_url"`
	VideoURL          *string   `json:"video_url"`
	CaloriesPerMinute *float64  `json:"calories_per_minute"`
	IsActive          *bool     `json:"is_active"`
}

// --------- Handlers ---------

func (h *ExerciseHandler) List(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	q := h.db.WithContext(c.Request.Context()).Where("gym_id = ?", gymID)

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if equipment := c.Query("equipment"); equipment != "" {
		q = q.Where("equipment = ?", equipment)
	}
	if isActive := c.Query("is_active"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var exercises []models.Exercise
	if err := q.Order("created_at DESC").Find(&exercises).Error; err != nil {
		logger.FromGin(c).Error("failed to list exercises", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.List(c, exercises)
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	exercise, ok := h.findExercise(c, gymID)
	if !ok {
		return
	}

	httpresp.OK(c, exercise)
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide name and category")
		return
	}

	exercise := models.Exercise{
		GymID:             gymID,
		CreatedByID:       callerID,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Category:          req.Category,
		Equipment:         req.Equipment,
		Difficulty:        req.Difficulty,
		MuscleGroups:      req.MuscleGroups,
		Instructions:      req.Instructions,
		ImageURL:          req.ImageURL,
		VideoURL:          req.VideoURL,
		CaloriesPerMinute: req.CaloriesPerMinute,
		IsActive:          true,
	}
	if exercise.Equipment == "" {
		exercise.Equipment = "bodyweight"
	}
	if exercise.Difficulty == "" {
		exercise.Difficulty = "beginner"
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&exercise).Error; err != nil {
		logger.FromGin(c).Error("failed to create exercise", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Created(c, "Exercise created successfully", exercise)
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	exercise, ok := h.findExercise(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanMutate(callerRole, exercise.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to update this exercise")
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		exercise.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		exercise.Description = *req.Description
	}
	if req.Category != nil {
		exercise.Category = *req.Category
	}
	if req.Equipment != nil {
		exercise.Equipment = *req.Equipment
	}
	if req.Difficulty != nil {
		exercise.Difficulty = *req.Difficulty
	}
	if req.MuscleGroups != nil {
		exercise.MuscleGroups = *req.MuscleGroups
	}
	if req.Instructions != nil {
		exercise.Instructions = *req.Instructions
	}
	if req.ImageURL != nil {
		exercise.ImageURL = *req.ImageURL
	}
	if req.VideoURL != nil {
		exercise.VideoURL = *req.VideoURL
	}
	if req.CaloriesPerMinute != nil {
		exercise.CaloriesPerMinute = *req.CaloriesPerMinute
	}
	if req.IsActive != nil {
		exercise.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(exercise).Error; err != nil {
		logger.FromGin(c).Error("failed to update exercise", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.OKMessage(c, "Exercise updated successfully", exercise)
}

// Delete soft-deletes so existing workouts keep a valid reference.
func (h *ExerciseHandler) Delete(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	exercise, ok := h.findExercise(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanMutate(callerRole, exercise.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to delete this exercise")
		return
	}

	exercise.IsActive = false
	if err := h.db.WithContext(c.Request.Context()).Save(exercise).Error; err != nil {
		logger.FromGin(c).Error("failed to delete exercise", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Message(c, "Exercise deleted successfully")
}

func (h *ExerciseHandler) findExercise(c *gin.Context, gymID uint) (*models.Exercise, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid exercise id")
		return nil, false
	}

	var exercise models.Exercise
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND gym_id = ?", uint(id), gymID).
		First(&exercise).Error
	if err != nil {
		httperr.NotFound(c, "Exercise not found")
		return nil, false
	}
	return &exercise, true
}
