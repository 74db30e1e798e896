package tenancy

import "github.com/fitcore/gym-manager/internal/httperr"

// Role determines a user's default authorization scope within their gym.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTrainer, RoleMember:
		return Role(s), nil
	}
	return "", httperr.ErrBusiness(CodeInvalidRole)
}

// CanManageContent reports whether the role may create or mutate shared
// content (exercises, workouts, diet plans).
func (r Role) CanManageContent() bool {
	return r == RoleAdmin || r == RoleTrainer
}
