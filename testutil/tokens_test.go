package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailco/shopper/models"
)

var secret = []byte("test-secret")

func TestJWTRoundTrip(t *testing.T) {
	token, err := IssueJWT(&models.Customer{CustomerID: 12, Email: "ann@example.com"}, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.CustomerID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "12", claims.Subject)

	_, err = ValidateJWT(token, []byte("other"))
	assert.Error(t, err)

	expired, err := IssueJWT(&models.Customer{CustomerID: 12}, secret, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired, secret)
	assert.Error(t, err)
}

func TestBearerAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.GET("/me", BearerAuth(secret, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"customerId": c.GetInt64(CustomerIDKey),
			"email":      c.GetString(CustomerEmailKey),
		})
	})

	valid, err := IssueJWT(&models.Customer{CustomerID: 7, Email: "ann@example.com"}, secret, time.Hour)
	require.NoError(t, err)
	otherKey, err := IssueJWT(&models.Customer{CustomerID: 7}, []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"customerId":7,"email":"ann@example.com"}`, rec.Body.String())
			}
		})
	}
}
