package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/httpresp"
	"github.com/fitcore/gym-manager/internal/logger"
	"github.com/fitcore/gym-manager/internal/middleware"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/password"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// --------- Requests ---------

type CreateUserRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"`

	// Only honored when the caller is an admin.
	Role *string `json:"role"`

	// Always ignored on this route; present so clients sending it do not
	// silently change anything else.
	Password *string `json:"password"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
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
		logger.FromGin(c).Error("failed to list users", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	user, ok := h.findUser(c, gymID)
	if !ok {
		return
	}

	if callerRole == tenancy.RoleMember && user.ID != callerID {
		httperr.Forbidden(c, "Not authorized to view this user")
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide first_name, last_name, email, password, and role")
		return
	}

	role, err := tenancy.ParseRole(req.Role)
	if err != nil {
		httperr.BadRequest(c, "Invalid role. Must be admin, trainer, or member")
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		logger.FromGin(c).Error("failed to hash password", zap.Error(err))
		httperr.Internal(c)
		return
	}

	user := models.User{
		GymID:        gymID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         string(role),
		Phone:        req.Phone,
		Gender:       req.Gender,
		IsActive:     true,
		JoinedGymAt:  time.Now(),
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httperr.BadRequest(c, "Invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
		user.DateOfBirth = &dob
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.BadRequest(c, "User already exists with this email")
			return
		}
		logger.FromGin(c).Error("failed to create user", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.Created(c, "User created successfully", user)
}

func (h *UserHandler) Update(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)
	callerRole := tenancy.Role(c.GetString(middleware.ContextUserRole))

	user, ok := h.findUser(c, gymID)
	if !ok {
		return
	}

	// Members may only touch their own profile.
	if callerRole == tenancy.RoleMember && user.ID != callerID {
		httperr.Forbidden(c, "Not authorized to update this user")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			httperr.BadRequest(c, "Invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
		user.DateOfBirth = &dob
	}

	// Role changes are admin-only; password changes never go through the
	// generic update path.
	if req.Role != nil && callerRole == tenancy.RoleAdmin {
		role, err := tenancy.ParseRole(*req.Role)
		if err != nil {
			httperr.BadRequest(c, "Invalid role. Must be admin, trainer, or member")
			return
		}
		user.Role = string(role)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		logger.FromGin(c).Error("failed to update user", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.OKMessage(c, "User updated successfully", user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	gymID := c.MustGet(middleware.ContextGymID).(uint)
	callerID := c.MustGet(middleware.ContextUserID).(uint)

	user, ok := h.findUser(c, gymID)
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

	httpresp.Message(c, "User deleted successfully")
}

func (h *UserHandler) findUser(c *gin.Context, gymID uint) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "Invalid user id")
		return nil, false
	}

	var user models.User
	err = h.db.WithContext(c.Request.Context()).
		Where("id = ? AND gym_id = ?", uint(id), gymID).
		First(&user).Error
	if err != nil {
		httperr.NotFound(c, "User not found")
		return nil, false
	}
	return &user, true
}
