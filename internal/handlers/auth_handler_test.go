package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitcore/gym-manager/internal/domain/tenancy"
	"github.com/fitcore/gym-manager/internal/middleware"
	"github.com/fitcore/gym-manager/internal/models"
	"github.com/fitcore/gym-manager/internal/password"
	"github.com/fitcore/gym-manager/internal/token"
	"github.com/fitcore/gym-manager/internal/usecase/registration"
)

// fakeTenancyRepo backs the auth routes with an in-memory store so the
// handlers can be driven through real HTTP requests.
type fakeTenancyRepo struct {
	gyms       map[uint]*models.Gym
	users      map[uint]*models.User
	nextGymID  uint
	nextUserID uint
}

func newFakeTenancyRepo() *fakeTenancyRepo {
	return &fakeTenancyRepo{
		gyms:  make(map[uint]*models.Gym),
		users: make(map[uint]*models.User),
	}
}

func (f *fakeTenancyRepo) Transaction(ctx context.Context, fn func(tenancy.Repository) error) error {
	return fn(f)
}

func (f *fakeTenancyRepo) CreateGym(ctx context.Context, gym *models.Gym) error {
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

func (f *fakeTenancyRepo) SetGymOwner(ctx context.Context, gymID, ownerID uint) error {
	gym, ok := f.gyms[gymID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	gym.OwnerID = &ownerID
	return nil
}

func (f *fakeTenancyRepo) GymByID(ctx context.Context, id uint) (*models.Gym, error) {
	return f.gyms[id], nil
}

func (f *fakeTenancyRepo) GymByCode(ctx context.Context, code string) (*models.Gym, error) {
	for _, g := range f.gyms {
		if g.Code == code && g.IsActive {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeTenancyRepo) CodeTaken(ctx context.Context, code string) (bool, error) {
	for _, g := range f.gyms {
		if g.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTenancyRepo) CreateUser(ctx context.Context, user *models.User) error {
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

func (f *fakeTenancyRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeTenancyRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeTenancyRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	u, _ := f.UserByEmail(ctx, email)
	return u != nil, nil
}

func (f *fakeTenancyRepo) CountUsersByRole(ctx context.Context, gymID uint, role tenancy.Role) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.GymID == gymID && u.Role == string(role) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTenancyRepo) RecomputeStatistics(ctx context.Context, gymID uint) (*models.GymStatistics, error) {
	return &models.GymStatistics{}, nil
}

var _ tenancy.Repository = (*fakeTenancyRepo)(nil)

// --------- Fixture ---------

func newAuthFixture(t *testing.T) (*gin.Engine, *fakeTenancyRepo, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeTenancyRepo()
	issuer := token.NewIssuer("test-secret", time.Hour)
	svc := registration.NewService(repo, nil)
	h := NewAuthHandler(svc, repo, issuer)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", middleware.AuthMiddleware(issuer), h.Me)
	return r, repo, issuer
}

func seedUser(t *testing.T, repo *fakeTenancyRepo, email, plain string, active bool) *models.User {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)

	user := &models.User{
		GymID:        1,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: hash,
		Role:         "member",
		IsActive:     active,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// --------- Tests ---------

func TestRegisterAdminEndpoint(t *testing.T) {
	r, repo, _ := newAuthFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
		"password":   "s3cret99",
		"role":       "admin",
		"gym_name":   "Powerhouse Gym",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)

	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["message"], "Your gym code is")

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.NotEmpty(t, data["gym_code"])

	require.Len(t, repo.gyms, 1)
	require.Len(t, repo.users, 1)
}

func TestRegisterMemberEndpoint(t *testing.T) {
	r, repo, _ := newAuthFixture(t)

	repo.gyms[1] = &models.Gym{
		ID:       1,
		Name:     "Powerhouse Gym",
		Code:     "POW123",
		IsActive: true,
		Settings: models.GymSettings{MaxMembers: 100, MaxTrainers: 10},
	}
	repo.nextGymID = 1

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"first_name": "Max",
		"last_name":  "Mitglied",
		"email":      "max@example.com",
		"password":   "s3cret99",
		"role":       "member",
		"gym_code":   "pow123",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Successfully registered as member", body["message"])
}

func TestRegisterInvalidGymCodeEndpoint(t *testing.T) {
	r, _, _ := newAuthFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"first_name": "Max",
		"last_name":  "Mitglied",
		"email":      "max@example.com",
		"password":   "s3cret99",
		"role":       "member",
		"gym_code":   "NOPE00",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid gym code")
}

func TestRegisterMissingFields(t *testing.T) {
	r, _, _ := newAuthFixture(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	r, repo, _ := newAuthFixture(t)
	seedUser(t, repo, "ada@example.com", "s3cret99", true)

	t.Run("success", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "Ada@Example.com",
			"password": "s3cret99",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "Login successful", body["message"])
		data := body["data"].(map[string]any)
		assert.NotEmpty(t, data["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "ada@example.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "ghost@example.com",
			"password": "s3cret99",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})
}

func TestLoginDeactivatedAccount(t *testing.T) {
	r, repo, _ := newAuthFixture(t)
	seedUser(t, repo, "ada@example.com", "s3cret99", false)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "ada@example.com",
		"password": "s3cret99",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Your account has been deactivated")
}

func TestMeEndpoint(t *testing.T) {
	r, repo, issuer := newAuthFixture(t)
	user := seedUser(t, repo, "ada@example.com", "s3cret99", true)

	tok, err := issuer.Issue(user.ID, user.GymID, user.Role)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ada@example.com", data["email"])
	assert.NotContains(t, w.Body.String(), "s3cret99")
}

func TestMeRequiresToken(t *testing.T) {
	r, _, _ := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
