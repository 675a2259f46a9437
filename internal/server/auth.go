package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenSubject = "wellness-tracker"

// IssueToken signs an HS256 token for the API, valid for ttl.
func IssueToken(secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("WELLNESS_API_SECRET environment variable not set")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry and subject of an API token.
func ValidateToken(secret, tokenString string) error {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid || claims.Subject != tokenSubject {
		return errors.New("invalid token")
	}
	return nil
}

// AuthMiddleware requires a valid Bearer token. An empty secret disables it.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		if err := ValidateToken(secret, token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
			return
		}
		c.Next()
	}
}

const tokenCookie = "wellness_token"

// PageAuthMiddleware guards the HTML page and its forms with the API tokens.
// A token is read from the Authorization header or the session cookie; a
// valid ?token= query parameter starts a browser session by setting the
// cookie. An empty secret disables it.
func PageAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		if token := c.Query("token"); token != "" && ValidateToken(secret, token) == nil {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(tokenCookie, token, 0, "/", "", c.Request.TLS != nil, true)
			c.Next()
			return
		}
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok && ValidateToken(secret, token) == nil {
			c.Next()
			return
		}
		if token, err := c.Cookie(tokenCookie); err == nil && ValidateToken(secret, token) == nil {
			c.Next()
			return
		}

		c.String(http.StatusUnauthorized, "Unauthorized. Open /?token=<token> with a token from `wellness token`.\n")
		c.Abort()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
