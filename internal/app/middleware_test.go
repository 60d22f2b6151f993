package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSubjectUserId(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    int64
		wantErr bool
	}{
		{"numeric sub", jwt.MapClaims{"sub": float64(42)}, 42, false},
		{"string sub", jwt.MapClaims{"sub": "42"}, 42, false},
		{"non-numeric string sub", jwt.MapClaims{"sub": "abc"}, 0, true},
		{"missing sub", jwt.MapClaims{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := subjectUserId(tt.claims)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("subjectUserId() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequireAuthenticationRejectsBadTokens(t *testing.T) {
	app := newTestApplication()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": int64(1),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatal(err)
	}

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": int64(1)})
	wrongKeyToken, err := wrongKey.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"expired token", "Bearer " + expiredToken},
		{"wrong key", "Bearer " + wrongKeyToken},
		{"unsigned alg", "Bearer eyJhbGciOiJub25lIn0.eyJzdWIiOjF9."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := executeRequest(t, app, http.MethodGet, "/bookings", nil, tt.authHeader)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}
