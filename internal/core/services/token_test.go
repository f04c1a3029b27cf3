package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewTokenService("unit-test-secret")
	userID := uuid.New()

	token, jti, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a non-empty jti")
	}

	sub, gotJTI, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sub != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, sub)
	}
	if gotJTI != jti {
		t.Fatalf("expected jti %s, got %s", jti, gotJTI)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	minter := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	token, _, err := minter.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService("unit-test-secret")
	for _, tokenStr := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, _, err := svc.ValidateToken(tokenStr); err == nil {
			t.Fatalf("expected rejection for %q", tokenStr)
		}
	}
}

func TestEachTokenGetsFreshJTI(t *testing.T) {
	svc := NewTokenService("unit-test-secret")
	userID := uuid.New()

	_, jti1, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, jti2, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if jti1 == jti2 {
		t.Fatal("two logins must be revocable independently")
	}
}
