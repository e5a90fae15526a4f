package security

import (
	"context"
	"os"
	"testing"

	"taskboard/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
)

func TestMain(m *testing.M) {
	config.Load()
	InitJWT()
	os.Exit(m.Run())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("plaintext stored as hash")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestGenerateToken_VerifiesAndBindsUserID(t *testing.T) {
	tokenString, err := GenerateToken("u1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		t.Fatalf("freshly issued token failed verification: %v", err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		t.Fatalf("reading claims: %v", err)
	}
	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		t.Fatalf("extracting user_id: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected user_id u1, got %q", userID)
	}
}

func TestVerifyToken_RejectsTampering(t *testing.T) {
	tokenString, err := GenerateToken("u1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	// Flip the last signature character.
	last := tokenString[len(tokenString)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := tokenString[:len(tokenString)-1] + string(flipped)

	if _, err := jwtauth.VerifyToken(TokenAuth, tampered); err == nil {
		t.Fatalf("tampered token accepted")
	}
}

func TestGetUserIDFromClaims_MissingOrWrongType(t *testing.T) {
	if _, err := GetUserIDFromClaims(map[string]interface{}{}); err == nil {
		t.Fatalf("expected error for missing claim")
	}
	if _, err := GetUserIDFromClaims(map[string]interface{}{"user_id": 42}); err == nil {
		t.Fatalf("expected error for non-string claim")
	}
	if _, err := GetUserIDFromClaims(map[string]interface{}{"user_id": ""}); err == nil {
		t.Fatalf("expected error for empty claim")
	}
}
