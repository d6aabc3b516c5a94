package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func newEnv(t *testing.T) *Authenv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &Authenv{JWTkey: []byte("test-key"), Login: "admin", PasswordHash: string(hash)}
}

func login(t *testing.T, env *Authenv, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.AuthHandler(rec, req)
	return rec
}

func TestAuthHandler(t *testing.T) {
	env := newEnv(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"login":" admin ","password":"s3cret!"}`, http.StatusOK},
		{"wrong password", `{"login":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong login", `{"login":"root","password":"s3cret!"}`, http.StatusUnauthorized},
		{"missing fields", `{"login":"admin"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := login(t, env, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			hasCookie := len(rec.Result().Cookies()) > 0
			if hasCookie != (tt.want == http.StatusOK) {
				t.Fatalf("cookie presence = %v for status %d", hasCookie, rec.Code)
			}
		})
	}
}

func TestAuthHandler_CookieSecureFollowsTLS(t *testing.T) {
	for _, secure := range []bool{false, true} {
		env := newEnv(t)
		env.Secure = secure
		cookies := login(t, env, `{"login":"admin","password":"s3cret!"}`).Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected one cookie, got %d", len(cookies))
		}
		if cookies[0].Secure != secure {
			t.Fatalf("Secure = %v, want %v", cookies[0].Secure, secure)
		}
	}
}

func TestAuthHandler_NoCredentialConfigured(t *testing.T) {
	env := &Authenv{JWTkey: []byte("k")}
	rec := login(t, env, `{"login":"admin","password":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newEnv(t)
	var seen string
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = LoginFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// no cookie
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", rec.Code)
	}

	// valid cookie from login
	cookies := login(t, env, `{"login":"admin","password":"s3cret!"}`).Result().Cookies()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != "admin" {
		t.Fatalf("expected pass-through as admin, got %d login=%q", rec.Code, seen)
	}

	// token signed with another key
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"login": "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: forged})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rec.Code)
	}
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:" + string(rune('1'+i)) + "000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	// other client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected separate limiter per IP, got %d", rec.Code)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")) != nil {
		t.Fatalf("hash does not verify")
	}
}
