package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/application/testutil"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/infrastructure/auth"
	infraDirectory "github.com/orris-inc/permitgate/internal/infrastructure/directory"
	"github.com/orris-inc/permitgate/internal/shared/authorization"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/config"
)

const testSecret = "gateway-key"

var testNow = time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

func tokenService(secret string, at time.Time) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: secret}, biztime.NewFixedClock(at))
}

func bearer(t *testing.T, s *auth.JWTService, actorID uint) string {
	t.Helper()
	token, err := s.Sign(actorID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

// roleAuthorizer allows resource/action pairs listed per role.
type roleAuthorizer map[string][]string

func (a roleAuthorizer) Authorize(roles []string, resource authorization.Resource, action authorization.Action) (bool, error) {
	want := string(resource) + ":" + string(action)
	for _, role := range roles {
		for _, p := range a[role] {
			if p == want {
				return true, nil
			}
		}
	}
	return false, nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir, err := infraDirectory.NewStaticDirectory(
		&directory.Person{ID: 1, Name: "Vera", Roles: []directory.Role{directory.RoleVisitor}},
		&directory.Person{ID: 5, Name: "Sam", Roles: []directory.Role{directory.RoleSecurity}},
	)
	require.NoError(t, err)
	log := testutil.NewMockLogger()
	perm := NewPermissionMiddleware(roleAuthorizer{"security": {"access:check_in"}}, log)

	r := gin.New()
	r.Use(Recovery())
	r.POST("/check-in", Actor(tokenService(testSecret, testNow), dir, log), perm.RequirePermission(authorization.ResourceAccess, authorization.ActionCheckIn), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": ActorID(c)})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestActorAndPermission(t *testing.T) {
	r := newRouter(t)
	gateway := tokenService(testSecret, testNow)
	subjectOnly := func(sub string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return "Bearer " + token
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic dmVyYTpwdw==", http.StatusUnauthorized},
		{"forged signature", bearer(t, tokenService("not-the-gateway", testNow), 5), http.StatusUnauthorized},
		{"expired", bearer(t, tokenService(testSecret, testNow.Add(-3*time.Hour)), 5), http.StatusUnauthorized},
		{"subject not a number", subjectOnly("abc"), http.StatusUnauthorized},
		{"unknown person", bearer(t, gateway, 42), http.StatusUnauthorized},
		{"role lacks permission", bearer(t, gateway, 1), http.StatusForbidden},
		{"allowed", bearer(t, gateway, 5), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://kiosk.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://kiosk.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://kiosk.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
