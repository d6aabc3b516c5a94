package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Equil/internal/config"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := config.Config{
		TokenKey:          []byte("test"),
		AdminLogin:        "admin",
		AdminPasswordHash: string(hash),
		RateLimit:         100,
		RateBurst:         100,
	}
	r := mux.NewRouter()
	HandleList(r, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(CORS(r))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, c *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes_Calc(t *testing.T) {
	srv := newServer(t)
	resp := post(t, srv.Client(), srv.URL+"/api/tools/weakacid/calc", `{"c0":1,"ka":1e-7}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"ph":3.5000`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestRoutes_SecureRequiresLogin(t *testing.T) {
	srv := newServer(t)
	resp := post(t, srv.Client(), srv.URL+"/api/user/tools/weakacid/report/pdf", `{"c0":0.1,"ka":1.8e-5}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRoutes_LoginThenExport(t *testing.T) {
	srv := newServer(t)
	client := srv.Client()

	resp := post(t, client, srv.URL+"/api/login", `{"login":"admin","password":"pw123456"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login did not set a cookie")
	}

	for _, path := range []string{"/api/user/tools/weakacid/report/pdf", "/api/user/tools/weakacid/export/xlsx"} {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(`{"c0":0.1,"ka":1.8e-5}`))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := newServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/tools/weakacid/calc", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	resp, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
