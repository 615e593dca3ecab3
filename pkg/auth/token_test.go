package auth

import (
	"testing"
	"time"

	"github.com/angelmondragon/creatordash-billing/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Audience: "authenticated"}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), time.Hour, AccessTokenPayload{UserID: userID, Email: "creator@example.com"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	got, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if got != userID {
		t.Fatalf("expected subject %s, got %s", userID, got)
	}
	if claims.Role != "authenticated" || claims.Email != "creator@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsWrongSecretAndAudience(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), time.Hour, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	wrongSecret := cfg
	wrongSecret.Secret = "other"
	if _, err := ParseAccessToken(wrongSecret, token); err == nil {
		t.Fatal("expected signature mismatch")
	}

	wrongAudience := cfg
	wrongAudience.Audience = "service_role"
	if _, err := ParseAccessToken(wrongAudience, token); err == nil {
		t.Fatal("expected audience mismatch")
	}
}

func TestParseAccessTokenRejectsNoneAlg(t *testing.T) {
	claims := jwt.MapClaims{"sub": uuid.NewString(), "aud": "authenticated", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseAccessToken(testJWTConfig(), token); err == nil {
		t.Fatal("expected alg=none to be rejected")
	}
}

func TestClaimsUserIDRequiresUUIDSubject(t *testing.T) {
	claims := &AccessTokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"}}
	if _, err := claims.UserID(); err == nil {
		t.Fatal("expected invalid subject error")
	}
	if _, err := (&AccessTokenClaims{}).UserID(); err == nil {
		t.Fatal("expected missing subject error")
	}
}
