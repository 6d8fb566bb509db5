package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ulok_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return "test-secret" }
func (testJWTConfig) GetJWTAudience() string     { return "authenticated" }

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/me", AuthRequired(testJWTConfig{}), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.UserID().String(), "email": id.Email()})
	})
	return engine
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{
		"sub":   userID.String(),
		"aud":   "authenticated",
		"email": "owner@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), "owner@example.com")
}

func TestAuthRequiredRejectsBadTokens(t *testing.T) {
	valid := jwt.MapClaims{"sub": uuid.NewString(), "aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()}

	cases := map[string]string{
		"missing":      "",
		"wrong secret": signToken(t, valid, "other-secret"),
		"expired":      signToken(t, jwt.MapClaims{"sub": uuid.NewString(), "aud": "authenticated", "exp": time.Now().Add(-time.Hour).Unix()}, "test-secret"),
		"wrong aud":    signToken(t, jwt.MapClaims{"sub": uuid.NewString(), "aud": "service_role", "exp": time.Now().Add(time.Hour).Unix()}, "test-secret"),
		"bad subject":  signToken(t, jwt.MapClaims{"sub": "not-a-uuid", "aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()}, "test-secret"),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			newAuthEngine().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthRequiredFallsBackToQueryToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": uuid.NewString(), "aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()}, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	rec := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleErrorHidesUnauthorizedDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	handled := HandleError(c, apperr.Unauthorized("owner directory entry missing for 1234"))

	assert.True(t, handled)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestHandleErrorPassesValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleError(c, apperr.ValidationFields("validation failed", []apperr.FieldError{{Field: "area", Reason: "must be greater than 0"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation failed","details":[{"field":"area","reason":"must be greater than 0"}]}`, rec.Body.String())
}
