package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// router echoes the resolved actor.
func router(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(&config.Config{JWTSecret: secret})}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"org":   OrganizationID(c),
			"actor": ActorFrom(c),
		})
	})
	r.GET("/x", handlers...)
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthBuildsActorFromClaims(t *testing.T) {
	var got domain.Actor
	r := gin.New()
	r.GET("/x", AuthMiddleware(&config.Config{JWTSecret: secret}), func(c *gin.Context) {
		got = ActorFrom(c)
		c.Status(http.StatusNoContent)
	})

	w := call(r, sign(t, jwt.MapClaims{
		"sub":            7,
		"organizationId": 3,
		"role":           models.RoleProfessional,
		"professionalId": 12,
	}))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, models.RoleProfessional, got.Role)
	require.NotNil(t, got.ProfessionalID)
	assert.Equal(t, uint(12), *got.ProfessionalID)
	assert.Nil(t, got.ClientID)
	assert.Equal(t, booking.ChannelStandard, got.Channel)
}

func TestAuthTagsAutomationChannel(t *testing.T) {
	var got domain.Actor
	r := gin.New()
	r.GET("/x", AuthMiddleware(&config.Config{JWTSecret: secret}), func(c *gin.Context) {
		got = ActorFrom(c)
	})

	w := call(r, sign(t, jwt.MapClaims{"sub": 1, "organizationId": 3, "role": models.RoleAutomation}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, booking.ChannelAutomation, got.Channel)
	assert.True(t, got.IsAutomation())
}

func TestAuthRejectsBadTokens(t *testing.T) {
	r := router()

	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "garbage").Code)

	expired := sign(t, jwt.MapClaims{"sub": 1, "organizationId": 3, "exp": time.Now().Add(-time.Minute).Unix()})
	assert.Equal(t, http.StatusUnauthorized, call(r, expired).Code)

	noOrg := sign(t, jwt.MapClaims{"sub": 1, "role": models.RoleOwner})
	assert.Equal(t, http.StatusUnauthorized, call(r, noOrg).Code)

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1, "organizationId": 3, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(r, other).Code)
}

func TestRequireRoles(t *testing.T) {
	r := router(RequireRoles(models.RoleOwner, models.RoleManager))

	owner := sign(t, jwt.MapClaims{"sub": 1, "organizationId": 3, "role": models.RoleOwner})
	assert.Equal(t, http.StatusOK, call(r, owner).Code)

	receptionist := sign(t, jwt.MapClaims{"sub": 2, "organizationId": 3, "role": models.RoleReceptionist})
	assert.Equal(t, http.StatusForbidden, call(r, receptionist).Code)
}

func TestRequestLoggerKeepsValidIDs(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(HeaderRequestID))
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	generated := w.Header().Get(HeaderRequestID)
	assert.NotEqual(t, "not-a-uuid", generated)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
}

func TestCORSOnlyReflectsAllowedOrigins(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://agenda.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://agenda.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://agenda.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
