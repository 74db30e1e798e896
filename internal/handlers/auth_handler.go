package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/httpresp"
	"github.com/fitcore/gym-manager/internal/logger"
	"github.com/fitcore/gym-manager/internal/middleware"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/token"
	"github.com/fitcore/gym-manager/internal/usecase/registration"
	"github.com/fitcore/gym-manager/internal/validators"
)

type AuthHandler struct {
	register *registration.Service
	repo     tenancy.Repository
	issuer   *token.Issuer
}

func NewAuthHandler(register *registration.Service, repo tenancy.Repository, issuer *token.Issuer) *AuthHandler {
	return &AuthHandler{register: register, repo: repo, issuer: issuer}
}

// --------- Requests ---------

type RegisterRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`

	// Admin registration (creates a gym).
	GymName    string            `json:"gym_name"`
	GymEmail   string            `json:"gym_email"`
	GymPhone   string            `json:"gym_phone"`
	GymAddress models.GymAddress `json:"gym_address"`

	// Trainer/member registration (joins a gym).
	GymCode string `json:"gym_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide first_name, last_name, email, password, and role")
		return
	}

	if req.GymEmail != "" && !validators.IsEmail(req.GymEmail) {
		httperr.BadRequest(c, "Please enter a valid gym email")
		return
	}

	in := registration.Input{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Phone:      req.Phone,
		Gender:     req.Gender,
		GymName:    req.GymName,
		GymEmail:   req.GymEmail,
		GymPhone:   req.GymPhone,
		GymAddress: req.GymAddress,
		GymCode:    req.GymCode,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httperr.BadRequest(c, "Invalid date_of_birth, expected YYYY-MM-DD")
			return
		}
		in.DateOfBirth = &dob
	}

	res, err := h.register.Execute(c.Request.Context(), in)
	if err != nil {
		h.writeRegistrationError(c, err)
		return
	}

	tok, err := h.issuer.Issue(res.User.ID, res.Gym.ID, res.User.Role)
	if err != nil {
		logger.FromGin(c).Error("failed to issue token", zap.Error(err))
		httperr.Internal(c)
		return
	}

	data := gin.H{
		"user":  res.User,
		"token": tok,
	}

	message := "Successfully registered as " + res.User.Role
	if res.NewGym {
		data["gym_code"] = res.Gym.Code
		message = "Gym and admin account created successfully. Your gym code is: " + res.Gym.Code +
			". Share this code with trainers and members."
	}

	httpresp.Created(c, message, data)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Please provide email and password")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.repo.UserByEmail(c.Request.Context(), email)
	if err != nil {
		logger.FromGin(c).Error("login lookup failed", zap.Error(err))
		httperr.Internal(c)
		return
	}

	if err := tenancy.Authenticate(user, req.Password); err != nil {
		switch httperr.BusinessCode(err) {
		case tenancy.CodeAccountDeactivated:
			httperr.Unauthorized(c, "Your account has been deactivated. Please contact admin.")
		default:
			httperr.Unauthorized(c, "Invalid credentials")
		}
		return
	}

	tok, err := h.issuer.Issue(user.ID, user.GymID, user.Role)
	if err != nil {
		logger.FromGin(c).Error("failed to issue token", zap.Error(err))
		httperr.Internal(c)
		return
	}

	httpresp.OKMessage(c, "Login successful", gin.H{
		"user":  user,
		"token": tok,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	user, err := h.repo.UserByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		httperr.NotFound(c, "User not found")
		return
	}

	httpresp.OK(c, user)
}

func (h *AuthHandler) writeRegistrationError(c *gin.Context, err error) {
	switch httperr.BusinessCode(err) {
	case tenancy.CodeInvalidRole:
		httperr.BadRequest(c, "Invalid role. Must be admin, trainer, or member")
	case tenancy.CodeGymNameRequired:
		httperr.BadRequest(c, "Gym name is required for admin registration")
	case tenancy.CodeGymCodeRequired:
		httperr.BadRequest(c, "Gym code is required for trainer and member registration")
	case tenancy.CodeInvalidGymCode:
		httperr.NotFound(c, "Invalid gym code. Please check and try again.")
	case tenancy.CodeEmailInUse:
		httperr.BadRequest(c, "User already exists with this email")
	case tenancy.CodeMemberCapacity:
		httperr.BadRequest(c, "Gym has reached maximum member capacity")
	case tenancy.CodeTrainerCapacity:
		httperr.BadRequest(c, "Gym has reached maximum trainer capacity")
	default:
		logger.FromGin(c).Error("registration failed", zap.Error(err))
		httperr.Internal(c)
	}
}
