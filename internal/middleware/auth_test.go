package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideahub-dev/ideahub/internal/domain"
	jwt_internal "github.com/ideahub-dev/ideahub/internal/jwt"
)

func newToken(t *testing.T, svc jwt_internal.JwtService, role string) string {
	t.Helper()
	token, err := svc.NewToken(domain.User{Id: 7, Name: "Alice", Role: role, Department: "R&D"})
	require.NoError(t, err)
	return token
}

func okHandler(captured **domain.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestNeedAuth(t *testing.T) {
	svc := jwt_internal.New("test-key", time.Hour)
	auth := NewAuth(svc)

	t.Run("valid bearer token", func(t *testing.T) {
		var user *domain.User
		handler := auth.NeedAuth()(okHandler(&user))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+newToken(t, svc, domain.RoleStaff))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, user)
		assert.Equal(t, domain.UserId(7), user.Id)
		assert.Equal(t, domain.RoleStaff, user.Role)
	})

	t.Run("valid cookie token", func(t *testing.T) {
		var user *domain.User
		handler := auth.NeedAuth()(okHandler(&user))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: newToken(t, svc, domain.RoleStaff)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, user)
	})

	t.Run("missing token", func(t *testing.T) {
		var user *domain.User
		handler := auth.NeedAuth()(okHandler(&user))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, user)
	})

	t.Run("garbage token", func(t *testing.T) {
		var user *domain.User
		handler := auth.NeedAuth()(okHandler(&user))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt_internal.New("other-key", time.Hour)
		var user *domain.User
		handler := auth.NeedAuth()(okHandler(&user))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+newToken(t, other, domain.RoleStaff))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	svc := jwt_internal.New("test-key", time.Hour)
	auth := NewAuth(svc)

	testCases := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		role       string
		wantStatus int
	}{
		{"admin passes admin gate", auth.AdminOnly(), domain.RoleAdmin, http.StatusOK},
		{"staff fails admin gate", auth.AdminOnly(), domain.RoleStaff, http.StatusForbidden},
		{"coordinator passes qa gate", auth.RequireRole(domain.RoleQACoordinator, domain.RoleQAManager), domain.RoleQACoordinator, http.StatusOK},
		{"staff fails qa gate", auth.RequireRole(domain.RoleQACoordinator, domain.RoleQAManager), domain.RoleStaff, http.StatusForbidden},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var user *domain.User
			handler := tc.middleware(okHandler(&user))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+newToken(t, svc, tc.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	svc := jwt_internal.New("test-key", time.Hour)
	auth := NewAuth(svc)

	t.Run("no token still passes", func(t *testing.T) {
		var user *domain.User
		handler := auth.OptionalAuth()(okHandler(&user))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, user)
	})

	t.Run("valid token populates the context", func(t *testing.T) {
		var user *domain.User
		handler := auth.OptionalAuth()(okHandler(&user))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+newToken(t, svc, domain.RoleStaff))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, user)
		assert.Equal(t, "Alice", user.Name)
	})
}
