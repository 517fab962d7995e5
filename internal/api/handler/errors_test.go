package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vida-social/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestStatusForKind(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusForKind(service.KindValidation))
	require.Equal(t, http.StatusForbidden, statusForKind(service.KindPermission))
	require.Equal(t, http.StatusForbidden, statusForKind(service.KindAuthorization))
	require.Equal(t, http.StatusNotFound, statusForKind(service.KindNotFound))
	require.Equal(t, http.StatusInternalServerError, statusForKind("unknown"))
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 50},
		{"page=3&page_size=10", 3, 10},
		{"page=-1&page_size=1000", 1, 50},
		{"page=x&page_size=y", 1, 50},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

		page, pageSize := parsePagination(c, 50)
		require.Equal(t, tt.wantPage, page, tt.query)
		require.Equal(t, tt.wantPageSize, pageSize, tt.query)
	}
}

func TestParseIDParam(t *testing.T) {
	for _, tc := range []struct {
		raw   string
		valid bool
	}{
		{"42", true},
		{"0", false},
		{"-3", false},
		{"abc", false},
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tc.raw}}

		id, err := parseIDParam(c)
		if tc.valid {
			require.NoError(t, err)
			require.EqualValues(t, 42, id)
		} else {
			require.ErrorIs(t, err, service.ErrInvalidID)
		}
	}
}
