package httpapi

import (
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestAuthManagerRoundTrip(t *testing.T) {
	manager := NewAuthManager("test-secret-key-test-secret-key!", time.Hour)

	token, expiresAt, err := manager.Issue("sess-1", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	sessionID, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sessionID != "sess-1" {
		t.Fatalf("expected sess-1, got %q", sessionID)
	}
}

func TestAuthManagerRejectsForeignSecret(t *testing.T) {
	issuer := NewAuthManager("secret-one-secret-one-secret-one", time.Hour)
	verifier := NewAuthManager("secret-two-secret-two-secret-two", time.Hour)

	token, _, err := issuer.Issue("sess-1", "u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}

func TestAuthManagerRejectsExpiredToken(t *testing.T) {
	manager := NewAuthManager("test-secret-key-test-secret-key!", time.Hour)
	token, err := manager.sign("sess-1", "u1", time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := manager.ParseToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestAuthManagerRejectsNoneAlgorithm(t *testing.T) {
	manager := NewAuthManager("test-secret-key-test-secret-key!", time.Hour)
	claims := sessionClaims{RegisteredClaims: jwtlib.RegisteredClaims{
		Subject:   "sess-1",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, claims).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := manager.ParseToken(unsigned); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
	if strings.Count(unsigned, ".") != 2 {
		t.Fatalf("unexpected token shape %q", unsigned)
	}
}
