package registration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/models"
)

// fakeRepo is an in-memory tenancy.Repository. Transaction just runs fn
// against the same store; rollback semantics are not simulated, the tests
// assert instead that failed flows never reach the create calls.
type fakeRepo struct {
	gyms       map[uint]*models.Gym
	users      map[uint]*models.User
	nextGymID  uint
	nextUserID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		gyms:  make(map[uint]*models.Gym),
		users: make(map[uint]*models.User),
	}
}

func (f *fakeRepo) Transaction(ctx context.Context, fn func(tenancy.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) CreateGym(ctx context.Context, gym *models.Gym) error {
	for _, g := range f.gyms {
		if g.Code == gym.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextGymID++
	gym.ID = f.nextGymID
	f.gyms[gym.ID] = gym
	return nil
}

func (f *fakeRepo) SetGymOwner(ctx context.Context, gymID, ownerID uint) error {
	gym, ok := f.gyms[gymID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	gym.OwnerID = &ownerID
	return nil
}

func (f *fakeRepo) GymByID(ctx context.Context, id uint) (*models.Gym, error) {
	return f.gyms[id], nil
}

func (f *fakeRepo) GymByCode(ctx context.Context, code string) (*models.Gym, error) {
	for _, g := range f.gyms {
		if g.Code == code && g.IsActive {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CodeTaken(ctx context.Context, code string) (bool, error) {
	for _, g := range f.gyms {
		if g.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	u, _ := f.UserByEmail(ctx, email)
	return u != nil, nil
}

func (f *fakeRepo) CountUsersByRole(ctx context.Context, gymID uint, role tenancy.Role) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.GymID == gymID && u.Role == string(role) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) RecomputeStatistics(ctx context.Context, gymID uint) (*models.GymStatistics, error) {
	var stats models.GymStatistics
	for _, u := range f.users {
		if u.GymID != gymID {
			continue
		}
		switch u.Role {
		case string(tenancy.RoleMember):
			stats.TotalMembers++
			if u.IsActive {
				stats.ActiveMembers++
			}
		case string(tenancy.RoleTrainer):
			stats.TotalTrainers++
		}
	}
	if gym, ok := f.gyms[gymID]; ok {
		gym.Statistics = stats
	}
	return &stats, nil
}

var _ tenancy.Repository = (*fakeRepo)(nil)

// --------- Helpers ---------

func adminInput() Input {
	return Input{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "s3cret99",
		Role:      "admin",
		GymName:   "Powerhouse Gym",
	}
}

func seedGym(t *testing.T, repo *fakeRepo, code string, maxMembers, maxTrainers int) *models.Gym {
	t.Helper()
	gym := &models.Gym{
		Name:     "Powerhouse Gym",
		Code:     code,
		IsActive: true,
		Settings: models.GymSettings{MaxMembers: maxMembers, MaxTrainers: maxTrainers},
	}
	require.NoError(t, repo.CreateGym(context.Background(), gym))
	return gym
}

// --------- Tests ---------

func TestRegisterAdminCreatesGymAndOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	res, err := svc.Execute(context.Background(), adminInput())
	require.NoError(t, err)

	assert.True(t, res.NewGym)
	require.NotNil(t, res.Gym)
	require.NotNil(t, res.User)

	assert.Equal(t, "POW", res.Gym.Code[:3])
	assert.Len(t, res.Gym.Code, 6)
	require.NotNil(t, res.Gym.OwnerID)
	assert.Equal(t, res.User.ID, *res.Gym.OwnerID)

	assert.Equal(t, "admin", res.User.Role)
	assert.Equal(t, res.Gym.ID, res.User.GymID)
	assert.True(t, res.User.IsActive)
	assert.NotEqual(t, "s3cret99", res.User.PasswordHash)
}

func TestRegisterAdminRequiresGymName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	in := adminInput()
	in.GymName = "   "

	_, err := svc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeGymNameRequired))
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.gyms)
}

func TestRegisterAdminDefaultsGymContact(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	in := adminInput()
	in.Phone = "555-0100"

	res, err := svc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", res.Gym.Email)
	assert.Equal(t, "555-0100", res.Gym.Phone)
}

func TestRegisterMemberJoinsByCode(t *testing.T) {
	repo := newFakeRepo()
	gym := seedGym(t, repo, "POW123", 100, 10)
	svc := NewService(repo, nil)

	res, err := svc.Execute(context.Background(), Input{
		FirstName: "Max",
		LastName:  "Mitglied",
		Email:     "max@example.com",
		Password:  "s3cret99",
		Role:      "member",
		GymCode:   "pow123",
	})
	require.NoError(t, err)

	assert.False(t, res.NewGym)
	assert.Equal(t, gym.ID, res.User.GymID)
	assert.Equal(t, "member", res.User.Role)
	assert.Equal(t, int64(1), res.Gym.Statistics.TotalMembers)
}

func TestRegisterJoinRequiresCode(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.Execute(context.Background(), Input{
		FirstName: "Max",
		LastName:  "Mitglied",
		Email:     "max@example.com",
		Password:  "s3cret99",
		Role:      "member",
	})
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeGymCodeRequired))
}

func TestRegisterJoinInvalidCode(t *testing.T) {
	repo := newFakeRepo()
	seedGym(t, repo, "POW123", 100, 10)
	svc := NewService(repo, nil)

	_, err := svc.Execute(context.Background(), Input{
		FirstName: "Max",
		LastName:  "Mitglied",
		Email:     "max@example.com",
		Password:  "s3cret99",
		Role:      "member",
		GymCode:   "NOPE00",
	})
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeInvalidGymCode))
	assert.Empty(t, repo.users)
}

func TestRegisterMemberCapacityReached(t *testing.T) {
	repo := newFakeRepo()
	gym := seedGym(t, repo, "POW123", 1, 10)
	svc := NewService(repo, nil)

	join := func(email string) error {
		_, err := svc.Execute(context.Background(), Input{
			FirstName: "Max",
			LastName:  "Mitglied",
			Email:     email,
			Password:  "s3cret99",
			Role:      "member",
			GymCode:   gym.Code,
		})
		return err
	}

	require.NoError(t, join("first@example.com"))

	err := join("second@example.com")
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeMemberCapacity))
	assert.Len(t, repo.users, 1)
}

func TestRegisterTrainerCapacityReached(t *testing.T) {
	repo := newFakeRepo()
	gym := seedGym(t, repo, "POW123", 100, 0)
	svc := NewService(repo, nil)

	_, err := svc.Execute(context.Background(), Input{
		FirstName: "Tina",
		LastName:  "Trainer",
		Email:     "tina@example.com",
		Password:  "s3cret99",
		Role:      "trainer",
		GymCode:   gym.Code,
	})
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeTrainerCapacity))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.Execute(context.Background(), adminInput())
	require.NoError(t, err)

	in := adminInput()
	in.Email = "ADA@example.com"

	_, err = svc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeEmailInUse))
}

func TestRegisterInvalidRole(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	in := adminInput()
	in.Role = "superuser"

	_, err := svc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, tenancy.CodeInvalidRole))
}

func TestRegisterLowercasesEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	in := adminInput()
	in.Email = "  Ada@Example.COM "

	res, err := svc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
}
