package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("middleware-secret")

func sign(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{"sub": "asha", "sid": "session-1", "exp": time.Now().Add(time.Hour).Unix()}
}

func TestParseSessionToken(t *testing.T) {
	claims, err := ParseSessionToken(sign(t, secret, validClaims()), secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SessionID != "session-1" || claims.Username != "asha" {
		t.Errorf("unexpected claims %+v", claims)
	}

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noSession := validClaims()
	delete(noSession, "sid")

	for name, token := range map[string]string{
		"wrong secret": sign(t, []byte("other"), validClaims()),
		"expired":      sign(t, secret, expired),
		"no session":   sign(t, secret, noSession),
		"garbage":      "abc.def.ghi",
	} {
		if _, err := ParseSessionToken(token, secret); err != ErrInvalidToken {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", RequireSession(secret), func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})

	token := sign(t, secret, validClaims())
	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
	}{
		{name: "missing", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + token, wantCode: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token, wantCode: http.StatusOK},
		{name: "cookie", cookie: token, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != "session-1" {
				t.Errorf("expected session id on context, got %q", rec.Body.String())
			}
		})
	}
}
