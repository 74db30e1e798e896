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

type WorkoutHandler struct {
	db *gorm.DB
}

func NewWorkoutHandler(db *gorm.DB) *WorkoutHandler {
	return &WorkoutHandler{db: db}
}

// --------- Requests ---------

type CreateWorkoutRequest struct {
	Name              string                   `json:"name" binding:"required"`
	Description       string                   `json:"description"`
	Type              string                   `json:"type" binding:"required"`
	Difficulty        string                   `json:"difficulty"`
	DurationMin       int                      `json:"duration_min"`
	Exercises         []models.WorkoutExercise `json:"exercises"`
	TargetAudience    string                   `json:"target_audience"`
	Tags              []string                 `json:"tags"`
	EstimatedCalories float64                  `json:"estimated_calories"`
	IsPublic          *bool                    `json:"is_public"`
}

type UpdateWorkoutRequest struct {
	Name              *string                   `json:"name"`
	Description       *string                   `json:"description"`
	Type              *string                   `json:"type"`
	Difficulty        *string                   `json:"difficulty"`
	DurationMin       *int                      `json:"duration_min"`
	Exercises         *[]models.WorkoutExercise `json:"exercises"`
	TargetAudience    *string                   `json:"target_audience"`
	Tags              *[]string                 `json:"tags"`
	EstimatedCalories *float64                  `json:"estimated_calories"`
	IsPublic          *bool                     `json:"is_public"`
}

// --------- Handlers ---------

func (h *WorkoutHandler) List(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	q := h.db.WithContext(c.Request.Context()).Where("gym_id = ?", gymID)

	// Members only see shared plans plus their own.
	if callerRole == tenancy.RoleMember {
		q = q.Where("is_public = ? OR created_by_id = ?", true, callerID)
	}

	if workoutType := c.Query("type"); workoutType != "" {
		q = q.Where("type = ?", workoutType)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if isPublic := c.Query("is_public"); isPublic != "" {
		q = q.Where("is_public = ?", isPublic == "true")
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		q = q.Where("created_by_id = ?", createdBy)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var workouts []models.Workout
	if err := q.Order("created_at DESC").Find(&workouts).Error; err != nil {
		logger.FromGin(c).Error("failed to list workouts", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.List(c, workouts)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	workout, ok := h.findWorkout(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanViewRestricted(callerRole, workout.IsPublic, workout.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to view this workout")
		return
	}

	httpresp.OK(c, workout)
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide workout name and type")
		return
	}

	workout := models.Workout{
		GymID:             gymID,
		CreatedByID:       callerID,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Type:              req.Type,
		Difficulty:        req.Difficulty,
		DurationMin:       req.DurationMin,
		Exercises:         req.Exercises,
		TargetAudience:    req.TargetAudience,
		Tags:              req.Tags,
		EstimatedCalories: req.EstimatedCalories,
		IsActive:          true,
	}
	if req.IsPublic != nil {
		workout.IsPublic = *req.IsPublic
	}
	if workout.Difficulty == "" {
		workout.Difficulty = "beginner"
	}
	if workout.TargetAudience == "" {
		workout.TargetAudience = "all"
	}

	if !h.checkExerciseRefs(c, gymID, &workout) {
		return
	}
	workout.SortExercises()

	if err := h.db.WithContext(c.Request.Context()).Create(&workout).Error; err != nil {
		logger.FromGin(c).Error("failed to create workout", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Created(c, "Workout created successfully", workout)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	workout, ok := h.findWorkout(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanMutate(callerRole, workout.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to update this workout")
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name != nil {
		workout.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		workout.Description = *req.Description
	}
	if req.Type != nil {
		workout.Type = *req.Type
	}
	if req.Difficulty != nil {
		workout.Difficulty = *req.Difficulty
	}
	if req.DurationMin != nil {
		workout.DurationMin = *req.DurationMin
	}
	if req.TargetAudience != nil {
		workout.TargetAudience = *req.TargetAudience
	}
	if req.Tags != nil {
		workout.Tags = *req.Tags
	}
	if req.EstimatedCalories != nil {
		workout.EstimatedCalories = *req.EstimatedCalories
	}
	if req.IsPublic != nil {
		workout.IsPublic = *req.IsPublic
	}
	if req.Exercises != nil {
		workout.Exercises = *req.Exercises
		if !h.checkExerciseRefs(c, gymID, workout) {
			return
		}
		workout.SortExercises()
	}

	if err := h.db.WithContext(c.Request.Context()).Save(workout).Error; err != nil {
		logger.FromGin(c).Error("failed to update workout", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.OKMessage(c, "Workout updated successfully", workout)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	workout, ok := h.findWorkout(c, gymID)
	if !ok {
		return
	}

	if !tenancy.CanMutate(callerRole, workout.CreatedByID, callerID) {
		httperr.Forbidden(c, "Not authorized to delete this workout")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Workout{}, workout.ID).Error; err != nil {
		logger.FromGin(c).Error("failed to delete workout", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Message(c, "Workout deleted successfully")
}

// checkExerciseRefs verifies every referenced exercise exists in the
// caller's gym. Writes the error response itself and reports false when a
// reference is missing.
func (h *WorkoutHandler) checkExerciseRefs(c *gin.Context, gymID uint, workout *models.Workout) bool {
	ids := workout.ExerciseIDs()
	if len(ids) == 0 {
		return true
	}

	var found []uint
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Exercise{}).
		Where("gym_id = ? AND id IN ?", gymID, ids).
		Pluck("id", &found).Error
	if err != nil {
		logger.FromGin(c).Error("failed to validate exercise references", zap.Error(err))
		httperr.Internal(c)
		return false
	}

	known := make(map[uint]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			httperr.BadRequest(c, "Exercise with ID "+strconv.FormatUint(uint64(id), 10)+" not found")
			return false
		}
	}
	return true
}

func (h *WorkoutHandler) findWorkout(c *gin.Context, gymID uint) (*models.Workout, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid workout id")
		return nil, false
	}

	var workout models.Workout
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND gym_id = ?", uint(id), gymID).
		First(&workout).Error
	if err != nil {
		httperr.NotFound(c, "Workout not found")
		return nil, false
	}
	return &workout, true
}
