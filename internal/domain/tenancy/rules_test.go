package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/password"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "trainer", "member"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "superuser", "Admin", "MEMBER"} {
		_, err := ParseRole(invalid)
		assert.True(t, httperr.IsBusiness(err, CodeInvalidRole), "input %q", invalid)
	}
}

func TestCanManageContent(t *testing.T) {
	assert.True(t, RoleAdmin.CanManageContent())
	assert.True(t, RoleTrainer.CanManageContent())
	assert.False(t, RoleMember.CanManageContent())
}

func TestCheckCapacity(t *testing.T) {
	gym := &models.Gym{
		Settings: models.GymSettings{MaxMembers: 2, MaxTrainers: 1},
	}

	tests := []struct {
		name     string
		role     Role
		current  int64
		wantCode string
	}{
		{"member below limit", RoleMember, 1, ""},
		{"member at limit", RoleMember, 2, CodeMemberCapacity},
		{"member over limit", RoleMember, 3, CodeMemberCapacity},
		{"trainer below limit", RoleTrainer, 0, ""},
		{"trainer at limit", RoleTrainer, 1, CodeTrainerCapacity},
		{"admin never limited", RoleAdmin, 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCapacity(gym, tt.role, tt.current)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, httperr.IsBusiness(err, tt.wantCode))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := password.Hash("s3cret99")
	require.NoError(t, err)

	active := &models.User{PasswordHash: hash, IsActive: true}
	inactive := &models.User{PasswordHash: hash, IsActive: false}

	t.Run("valid credentials", func(t *testing.T) {
		assert.NoError(t, Authenticate(active, "s3cret99"))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := Authenticate(active, "wrong")
		assert.True(t, httperr.IsBusiness(err, CodeInvalidCredentials))
	})

	t.Run("unknown user matches wrong password", func(t *testing.T) {
		err := Authenticate(nil, "whatever")
		assert.True(t, httperr.IsBusiness(err, CodeInvalidCredentials))
	})

	t.Run("deactivated account", func(t *testing.T) {
		err := Authenticate(inactive, "s3cret99")
		assert.True(t, httperr.IsBusiness(err, CodeAccountDeactivated))
	})
}

func TestCanViewRestricted(t *testing.T) {
	assert.True(t, CanViewRestricted(RoleAdmin, false, 7, 1))
	assert.True(t, CanViewRestricted(RoleTrainer, false, 7, 1))
	assert.True(t, CanViewRestricted(RoleMember, true, 7, 1))
	assert.True(t, CanViewRestricted(RoleMember, false, 1, 1))
	assert.False(t, CanViewRestricted(RoleMember, false, 7, 1))
}

func TestCanMutate(t *testing.T) {
	assert.True(t, CanMutate(RoleAdmin, 7, 1))
	assert.True(t, CanMutate(RoleTrainer, 1, 1))
	assert.False(t, CanMutate(RoleTrainer, 7, 1))
	assert.False(t, CanMutate(RoleMember, 7, 1))
	assert.True(t, CanMutate(RoleMember, 1, 1))
}
