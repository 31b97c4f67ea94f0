package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// sessionToken pulls the JWT from the session cookie or, failing that, the
// Authorization header. Token issuance belongs to the identity provider.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie("session"); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if userID, ok := claims["user_id"].(string); ok {
		c.Set("user_id", userID)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set("email", email)
	}
}

// ValidateToken rejects requests without a valid session.
func ValidateToken(c *gin.Context) {
	tokenString := sessionToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization is missing"})
		c.Abort()
		return
	}

	claims, err := parseClaims(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	setIdentity(c, claims)
	c.Next()
}

// OptionalToken attaches the identity when a valid session is present but
// never rejects the request. The permission endpoint relies on this to
// answer anonymous callers with 200 instead of 401.
func OptionalToken(c *gin.Context) {
	if tokenString := sessionToken(c); tokenString != "" {
		if claims, err := parseClaims(tokenString); err == nil {
			setIdentity(c, claims)
		}
	}
	c.Next()
}
