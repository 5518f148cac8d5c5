package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "nnpgpt.test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()
	token, expiresIn, err := svc.GenerateToken("node-1", models.RoleLecturer, 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expiresIn=%d", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID != "node-1" || claims.Role != models.RoleLecturer || claims.Epoch != 3 {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.GenerateToken("node-1", models.RoleStudent, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _, err := newTestService().GenerateToken("node-1", models.RoleStudent, 1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "nnpgpt.test"})
	if _, err := other.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer a.b.c":     true,
		"a.b.c":            true,
		"\"Bearer a.b.c\"": true,
		"Bearer abc":       false,
		"":                 false,
	}
	for header, ok := range cases {
		_, err := ExtractBearerToken(header)
		if ok && err != nil {
			t.Fatalf("ExtractBearerToken(%q) unexpected error %v", header, err)
		}
		if !ok && err == nil {
			t.Fatalf("ExtractBearerToken(%q) expected error", header)
		}
	}
}

func TestPasscodeRoundTrip(t *testing.T) {
	hash, err := HashPasscode("lecture-hall-7")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasscode(hash, "lecture-hall-7") {
		t.Fatalf("expected passcode to match")
	}
	if CheckPasscode(hash, "wrong") {
		t.Fatalf("expected mismatch")
	}
}
