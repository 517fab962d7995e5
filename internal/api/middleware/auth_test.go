package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vida-social/internal/config"
	"vida-social/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(cfg *config.JWTConfig, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetCurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/me", handlers...)
	return r
}

func doRequest(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "secret", ExpireHours: 1}
	r := newAuthEngine(cfg)

	token, err := utils.GenerateToken(cfg, "vida-social", 7)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user_id":7}`, w.Body.String())

	require.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	require.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer garbage").Code)
	require.Equal(t, http.StatusUnauthorized, doRequest(r, "Basic "+token).Code)
}

func TestAdminRequired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "secret", ExpireHours: 1}
	roles := map[int64]string{1: RoleAdmin, 2: "user"}
	fetch := func(_ context.Context, id int64) (string, error) {
		role, ok := roles[id]
		if !ok {
			return "", errors.New("not found")
		}
		return role, nil
	}
	r := newAuthEngine(cfg, AdminRequired(fetch))

	for _, tc := range []struct {
		userID int64
		status int
	}{
		{1, http.StatusOK},
		{2, http.StatusForbidden},
		{3, http.StatusUnauthorized},
	} {
		token, err := utils.GenerateToken(cfg, "vida-social", tc.userID)
		require.NoError(t, err)
		require.Equal(t, tc.status, doRequest(r, "Bearer "+token).Code, "user %d", tc.userID)
	}
}
