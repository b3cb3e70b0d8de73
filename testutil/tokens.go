package testutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"retailco/shopper/models"
)

// Context keys set by BearerAuth.
const (
	CustomerIDKey    = "customer_id"
	CustomerEmailKey = "customer_email"
)

// Claims is the claim set the fake auth service puts in bearer tokens.
type Claims struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// IssueJWT signs an HS256 token for customer, valid for ttl (negative ttl
// gives an already expired token).
func IssueJWT(customer *models.Customer, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		CustomerID: customer.CustomerID,
		Email:      customer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "retail-api",
			Subject:   strconv.FormatInt(customer.CustomerID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT parses and validates a token string signed with secret.
func ValidateJWT(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// BearerAuth rejects requests without a valid bearer token signed with
// secret, and exposes the token's customer on the gin context.
func BearerAuth(secret []byte, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenString == "" {
			log.Debug("BearerAuth: no bearer token on request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}

		claims, err := ValidateJWT(tokenString, secret)
		if err != nil {
			log.WithError(err).Debug("BearerAuth: invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set(CustomerIDKey, claims.CustomerID)
		c.Set(CustomerEmailKey, claims.Email)
		c.Next()
	}
}
