package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLoginAndRequireAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ventilar"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	h := NewAuthHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), AuthConfig{
		Username:     "operador",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
		rw := httptest.NewRecorder()
		h.Login(rw, req)
		return rw
	}

	rw := login(`{"username": "operador", "password": "errada"}`)
	if rw.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rw.Code)
	}

	rw = login(`{"username": "operador", "password": "ventilar"}`)
	if rw.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rw.Code, rw.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "Bearer" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	guarded := h.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rwDenied := httptest.NewRecorder()
	guarded.ServeHTTP(rwDenied, req)
	if rwDenied.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rwDenied.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	rwOK := httptest.NewRecorder()
	guarded.ServeHTTP(rwOK, req)
	if rwOK.Code != http.StatusOK {
		t.Fatalf("with token: expected 200, got %d", rwOK.Code)
	}
}
