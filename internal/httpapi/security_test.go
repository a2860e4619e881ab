package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/gateway"
	"inventora/webclient/internal/session"
)

func TestMiddlewareSetsSecurityHeaders(t *testing.T) {
	env := newTestAPI(t)
	res := env.do(t, http.MethodGet, "/healthz", "", nil)

	if got := res.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options nosniff, got %q", got)
	}
	if got := res.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected X-Frame-Options DENY, got %q", got)
	}
	if got := res.Header().Get("Access-Control-Expose-Headers"); got != "Content-Disposition" {
		t.Fatalf("expected Content-Disposition to be exposed, got %q", got)
	}
}

func TestPreflightReturnsNoContent(t *testing.T) {
	env := newTestAPI(t)
	res := env.do(t, http.MethodOptions, "/api/v1/customers", "", nil)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
}

func TestLoginRateLimitReturns429(t *testing.T) {
	env := newTestAPI(t)
	body, _ := json.Marshal(domain.LoginRequest{Email: "owner@shop.in", Password: "wrong-pass"})

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "127.0.0.1:5000"
		res := httptest.NewRecorder()

		env.api.Handler().ServeHTTP(res, req)

		if i < 5 && res.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d expected 401 before limit, got %d", i+1, res.Code)
		}
		if i == 5 && res.Code != http.StatusTooManyRequests {
			t.Fatalf("attempt 6 expected 429, got %d", res.Code)
		}
	}
}

func TestJSONBodyTooLargeRejected(t *testing.T) {
	env := newTestAPI(t)
	veryLong := strings.Repeat("a", (1<<20)+1024)
	body := fmt.Sprintf(`{"email":"%s","password":"x"}`, veryLong)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()

	env.api.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too large body, got %d", res.Code)
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	env := newTestAPI(t)
	res := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "owner@shop.in",
		"password": "password1",
		"role":     "admin",
	})

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", res.Code)
	}
}

func TestRequireAuthRejectsMissingAndForeignTokens(t *testing.T) {
	env := newTestAPI(t)

	if res := env.do(t, http.MethodGet, "/api/v1/customers", "", nil); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	foreign, _, err := NewAuthManager("another-secret-key-that-is-long-enough", 0).Issue("sess-x", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if res := env.do(t, http.MethodGet, "/api/v1/customers", foreign, nil); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with foreign token, got %d", res.Code)
	}

	// Valid signature but the session was never loaded.
	orphan, _, err := env.api.auth.Issue("sess-missing", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if res := env.do(t, http.MethodGet, "/api/v1/customers", orphan, nil); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown session, got %d", res.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{session.ErrExpired, http.StatusUnauthorized},
		{domain.Invalid("All fields are required!"), http.StatusBadRequest},
		{domain.ErrIncompleteSale, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: Rice", domain.ErrInsufficientStock), http.StatusConflict},
		{&gateway.APIError{StatusCode: http.StatusNotFound, Message: "Item not found"}, http.StatusNotFound},
		{&gateway.APIError{StatusCode: http.StatusForbidden, Message: "Forbidden"}, http.StatusForbidden},
		{&gateway.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}, http.StatusBadGateway},
		{fmt.Errorf("%w: smtp down", domain.ErrEmailDelivery), http.StatusBadGateway},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestInternalErrorMessageHidden(t *testing.T) {
	res := httptest.NewRecorder()
	writeError(res, http.StatusInternalServerError, errors.New("redis: connection refused"))

	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["error"] != "internal server error" {
		t.Fatalf("expected hidden message, got %q", payload["error"])
	}
}

func TestParsePositiveLimitCaps(t *testing.T) {
	if got := parsePositiveLimit("9999", 50, 200); got != 200 {
		t.Fatalf("expected capped limit 200, got %d", got)
	}
	if got := parsePositiveLimit("", 50, 200); got != 50 {
		t.Fatalf("expected fallback limit 50, got %d", got)
	}
	if got := parsePositiveLimit("invalid", 50, 200); got != 50 {
		t.Fatalf("expected fallback on invalid input, got %d", got)
	}
}
