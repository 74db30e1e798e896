// Package tenancy holds the business rules of the multi-tenant core:
// role-based onboarding, capacity limits, credential verification and
// per-tenant visibility. Rules are pure; persistence sits behind Repository.
package tenancy

import (
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/password"
)

// Business error codes mapped to HTTP at the handler boundary.
const (
	CodeInvalidRole        = "invalid_role"
	CodeGymNameRequired    = "gym_name_required"
	CodeGymCodeRequired    = "gym_code_required"
	CodeInvalidGymCode     = "invalid_gym_code"
	CodeEmailInUse         = "email_in_use"
	CodeMemberCapacity     = "member_capacity_reached"
	CodeTrainerCapacity    = "trainer_capacity_reached"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountDeactivated = "account_deactivated"
)

// CheckCapacity enforces the gym's role-specific headcount limit before a
// trainer or member joins. current is the count of existing users with that
// role in the gym. Admins are not capacity-limited.
func CheckCapacity(gym *models.Gym, role Role, current int64) error {
	switch role {
	case RoleMember:
		if current >= int64(gym.Settings.MaxMembers) {
			return httperr.ErrBusiness(CodeMemberCapacity)
		}
	case RoleTrainer:
		if current >= int64(gym.Settings.MaxTrainers) {
			return httperr.ErrBusiness(CodeTrainerCapacity)
		}
	}
	return nil
}

// Authenticate verifies a login attempt against a stored user record. A nil
// user (unknown email) and a wrong password produce the same error so the
// response does not reveal which part failed.
func Authenticate(u *models.User, plain string) error {
	if u == nil {
		return httperr.ErrBusiness(CodeInvalidCredentials)
	}
	if !u.IsActive {
		return httperr.ErrBusiness(CodeAccountDeactivated)
	}
	if !password.Check(plain, u.PasswordHash) {
		return httperr.ErrBusiness(CodeInvalidCredentials)
	}
	return nil
}

// CanViewRestricted decides whether a caller may see a visibility-restricted
// item (workout or diet plan). Admins and trainers see everything in their
// gym; members see public items and their own.
func CanViewRestricted(role Role, isPublic bool, createdBy, callerID uint) bool {
	if role != RoleMember {
		return true
	}
	return isPublic || createdBy == callerID
}

// CanMutate decides whether a caller may update or delete an item: its
// creator or a gym admin.
func CanMutate(role Role, createdBy, callerID uint) bool {
	return role == RoleAdmin || createdBy == callerID
}
