// Package registration implements the role-dispatched onboarding flow:
// admins create a gym and become its owner, trainers and members join an
// existing gym through its code, subject to capacity limits.
package registration

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/audit"
	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/joincode"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/password"
)

// createRetries bounds gym creation retries when the unique index on the
// join code loses a race the pre-check could not see.
const createRetries = 5

type Input struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Role        string
	Phone       string
	Gender      string
	DateOfBirth *time.Time

	// Admin registration only.
	GymName    string
	GymEmail   string
	GymPhone   string
	GymAddress models.GymAddress

	// Trainer/member registration only.
	GymCode string
}

type Result struct {
	User   *models.User
	Gym    *models.Gym
	NewGym bool
}

type roleHandler func(ctx context.Context, repo tenancy.Repository, in Input, role tenancy.Role) (*Result, error)

type Service struct {
	repo     tenancy.Repository
	audit    *audit.Dispatcher
	handlers map[tenancy.Role]roleHandler
}

func NewService(repo tenancy.Repository, dispatcher *audit.Dispatcher) *Service {
	s := &Service{
		repo:  repo,
		audit: dispatcher,
	}
	s.handlers = map[tenancy.Role]roleHandler{
		tenancy.RoleAdmin:   s.registerAdmin,
		tenancy.RoleTrainer: s.registerJoin,
		tenancy.RoleMember:  s.registerJoin,
	}
	return s
}

// Execute validates the common fields, then hands off to the role-specific
// flow inside one transaction, so a failed registration leaves no partial
// state behind.
func (s *Service) Execute(ctx context.Context, in Input) (*Result, error) {
	role, err := tenancy.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := s.repo.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrBusiness(tenancy.CodeEmailInUse)
	}

	var res *Result
	err = s.repo.Transaction(ctx, func(tx tenancy.Repository) error {
		var txErr error
		res, txErr = s.handlers[role](ctx, tx, in, role)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.auditRegistration(res)
	return res, nil
}

// registerAdmin creates the gym first, then its owner, then patches the
// gym's OwnerID — an explicit two-phase create inside the transaction.
func (s *Service) registerAdmin(ctx context.Context, repo tenancy.Repository, in Input, role tenancy.Role) (*Result, error) {
	if strings.TrimSpace(in.GymName) == "" {
		return nil, httperr.ErrBusiness(tenancy.CodeGymNameRequired)
	}

	gymEmail := in.GymEmail
	if gymEmail == "" {
		gymEmail = in.Email
	}
	gymPhone := in.GymPhone
	if gymPhone == "" {
		gymPhone = in.Phone
	}

	var gym *models.Gym
	for attempt := 0; ; attempt++ {
		code, err := joincode.Generate(in.GymName, func(c string) (bool, error) {
			return repo.CodeTaken(ctx, c)
		})
		if err != nil {
			return nil, err
		}

		gym = &models.Gym{
			Name:               in.GymName,
			Code:               code,
			Email:              strings.ToLower(gymEmail),
			Phone:              gymPhone,
			Address:            in.GymAddress,
			SubscriptionPlan:   models.PlanBasic,
			SubscriptionStatus: models.SubscriptionTrial,
			IsActive:           true,
		}

		err = repo.CreateGym(ctx, gym)
		if err == nil {
			break
		}
		// The unique index is the final arbiter under concurrent creation.
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < createRetries {
			continue
		}
		return nil, err
	}

	user, err := s.createUser(ctx, repo, in, role, gym.ID)
	if err != nil {
		return nil, err
	}

	if err := repo.SetGymOwner(ctx, gym.ID, user.ID); err != nil {
		return nil, err
	}
	gym.OwnerID = &user.ID

	if _, err := repo.RecomputeStatistics(ctx, gym.ID); err != nil {
		return nil, err
	}

	return &Result{User: user, Gym: gym, NewGym: true}, nil
}

// registerJoin resolves the join code, enforces the role-specific capacity
// limit, and creates the user. The count and the insert share the enclosing
// transaction.
func (s *Service) registerJoin(ctx context.Context, repo tenancy.Repository, in Input, role tenancy.Role) (*Result, error) {
	if strings.TrimSpace(in.GymCode) == "" {
		return nil, httperr.ErrBusiness(tenancy.CodeGymCodeRequired)
	}

	gym, err := repo.GymByCode(ctx, joincode.Normalize(in.GymCode))
	if err != nil {
		return nil, err
	}
	if gym == nil {
		return nil, httperr.ErrBusiness(tenancy.CodeInvalidGymCode)
	}

	current, err := repo.CountUsersByRole(ctx, gym.ID, role)
	if err != nil {
		return nil, err
	}
	if err := tenancy.CheckCapacity(gym, role, current); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, repo, in, role, gym.ID)
	if err != nil {
		return nil, err
	}

	stats, err := repo.RecomputeStatistics(ctx, gym.ID)
	if err != nil {
		return nil, err
	}
	gym.Statistics = *stats

	return &Result{User: user, Gym: gym}, nil
}

func (s *Service) createUser(ctx context.Context, repo tenancy.Repository, in Input, role tenancy.Role, gymID uint) (*models.User, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		GymID:        gymID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         string(role),
		Phone:        in.Phone,
		Gender:       in.Gender,
		DateOfBirth:  in.DateOfBirth,
		IsActive:     true,
		JoinedGymAt:  time.Now(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, httperr.ErrBusiness(tenancy.CodeEmailInUse)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) auditRegistration(res *Result) {
	if s.audit == nil {
		return
	}

	if res.NewGym {
		s.audit.Dispatch(audit.Event{
			GymID:    res.Gym.ID,
			UserID:   &res.User.ID,
			Action:   "gym_created",
			Entity:   "gym",
			EntityID: &res.Gym.ID,
			Metadata: map[string]string{"code": res.Gym.Code},
		})
	}

	s.audit.Dispatch(audit.Event{
		GymID:    res.Gym.ID,
		UserID:   &res.User.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &res.User.ID,
		Metadata: map[string]string{"role": res.User.Role},
	})
}
