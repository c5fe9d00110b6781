package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test_secret_key_with_at_least_32_characters"

func TestGenerateAndValidateIdentityToken(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		email   string
	}{
		{
			name:    "Valid token",
			subject: "user_2abc",
			email:   "a@x.com",
		},
		{
			name:    "Token without email",
			subject: "user_2def",
			email:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateIdentityToken(tt.subject, tt.email, testSecret, "", time.Hour)
			if err != nil {
				t.Fatalf("GenerateIdentityToken() error = %v", err)
			}

			if token == "" {
				t.Error("GenerateIdentityToken() returned empty token")
			}

			claims, err := ValidateIdentityToken(token, testSecret, "")
			if err != nil {
				t.Fatalf("ValidateIdentityToken() error = %v", err)
			}

			if claims.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", claims.Subject, tt.subject)
			}

			if claims.Email != tt.email {
				t.Errorf("Email = %q, want %q", claims.Email, tt.email)
			}
		})
	}
}

func TestValidateIdentityToken_InvalidSecret(t *testing.T) {
	token, err := GenerateIdentityToken("user_1", "", testSecret, "", time.Hour)
	if err != nil {
		t.Fatalf("GenerateIdentityToken() error = %v", err)
	}

	_, err = ValidateIdentityToken(token, "wrong_secret_key_with_at_least_32_chars", "")
	if err == nil {
		t.Error("ValidateIdentityToken() with wrong secret should return error")
	}
}

func TestValidateIdentityToken_Expired(t *testing.T) {
	token, err := GenerateIdentityToken("user_1", "", testSecret, "", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateIdentityToken() error = %v", err)
	}

	if _, err := ValidateIdentityToken(token, testSecret, ""); err == nil {
		t.Error("ValidateIdentityToken() with expired token should return error")
	}
}

func TestValidateIdentityToken_Issuer(t *testing.T) {
	token, err := GenerateIdentityToken("user_1", "", testSecret, "https://clerk.example", time.Hour)
	if err != nil {
		t.Fatalf("GenerateIdentityToken() error = %v", err)
	}

	if _, err := ValidateIdentityToken(token, testSecret, "https://clerk.example"); err != nil {
		t.Errorf("ValidateIdentityToken() matching issuer error = %v", err)
	}
	if _, err := ValidateIdentityToken(token, testSecret, "https://other.example"); err == nil {
		t.Error("ValidateIdentityToken() with wrong issuer should return error")
	}
}

func TestValidateIdentityToken_MissingSubject(t *testing.T) {
	claims := &IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := ValidateIdentityToken(token, testSecret, ""); err == nil {
		t.Error("ValidateIdentityToken() without subject should return error")
	}
}

func TestValidateIdentityToken_InvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Invalid format",
			token: "invalid.token.format",
		},
		{
			name:  "Random string",
			token: "randomstring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateIdentityToken(tt.token, testSecret, "")
			if err == nil {
				t.Error("ValidateIdentityToken() with invalid token should return error")
			}
		})
	}
}
