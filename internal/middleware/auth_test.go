package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcore/gym-manager/internal/token"
)

func newAuthRouter(issuer *token.Issuer, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	group := r.Group("/", AuthMiddleware(issuer))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}

	group.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(ContextUserID).(uint),
			"gym_id":  c.MustGet(ContextGymID).(uint),
			"role":    c.GetString(ContextUserRole),
		})
	})
	return r
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	r := newAuthRouter(issuer)

	tok, err := issuer.Issue(42, 7, "trainer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"gym_id":7,"role":"trainer"}`, w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	other := token.NewIssuer("other-secret", time.Hour)
	r := newAuthRouter(issuer)

	foreign, err := other.Issue(1, 1, "admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed", "Bearer"},
		{"wrong signature", "Bearer " + foreign},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Not authorized to access this route")
		})
	}
}

func TestRequireRoles(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	r := newAuthRouter(issuer, "admin", "trainer")

	issue := func(role string) string {
		tok, err := issuer.Issue(1, 1, role)
		require.NoError(t, err)
		return tok
	}

	t.Run("allowed role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+issue("trainer"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other role forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+issue("member"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Your role is not authorized to access this route")
	})
}
