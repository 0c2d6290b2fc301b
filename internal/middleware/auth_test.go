package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotline/ballotline-api/internal/logger"
)

const testSecret = "unit-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Initialize("error")
}

func identityRouter(requireAuth bool) *gin.Engine {
	router := gin.New()
	router.Use(Identity(testSecret))

	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c).String()})
	}

	if requireAuth {
		router.GET("/protected", RequireAuth(), handler)
	} else {
		router.GET("/open", handler)
	}
	return router
}

func TestIssueAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, err := IssueToken(testSecret, userID, time.Hour)
	require.NoError(t, err)

	parsed, err := parseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = parseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken(testSecret, uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, err = parseToken(testSecret, token)
	assert.Error(t, err)
}

func TestIdentityWithoutHeaderIsAnonymous(t *testing.T) {
	router := identityRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())
}

func TestIdentityWithValidToken(t *testing.T) {
	router := identityRouter(false)
	userID := uuid.New()

	token, err := IssueToken(testSecret, userID, time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestIdentityWithGarbageTokenAborts(t *testing.T) {
	router := identityRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	router := identityRouter(true)

	t.Run("anonymous rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated passes", func(t *testing.T) {
		token, err := IssueToken(testSecret, uuid.New(), time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
