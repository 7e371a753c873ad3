package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sumanshinde/cloth-pos/pkg/response"
)

const (
	// ContextSessionID is the gin context key holding the authenticated session id
	ContextSessionID = "sessionID"
	ContextUsername  = "username"

	TokenCookie = "access_token"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is what the terminal token carries
type SessionClaims struct {
	SessionID string
	Username  string
}

// ParseSessionToken verifies an HMAC-signed terminal token and extracts its session id
func ParseSessionToken(tokenString string, secret []byte) (SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return SessionClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	return SessionClaims{SessionID: sid, Username: sub}, nil
}

// SetTokenCookie stores the terminal token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	// cross-origin deployments need SameSite=None, which browsers only accept with Secure
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", secure, true)
}

// ClearTokenCookie removes the terminal token cookie
func ClearTokenCookie(c *gin.Context, secure bool) {
	SetTokenCookie(c, "", -1, secure)
}

// RequireSession validates the terminal token and puts the session id on the context
func RequireSession(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie(TokenCookie)
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				response.Abort(c, http.StatusUnauthorized, "Authorization is missing")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Abort(c, http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'")
				return
			}
			tokenString = parts[1]
		}

		claims, err := ParseSessionToken(tokenString, secret)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// SessionID returns the session id placed on the context by RequireSession
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
