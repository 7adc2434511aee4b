package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr error
		wantSub string
	}{
		{
			name:    "empty",
			token:   "",
			wantErr: ErrMalformedToken,
		},
		{
			name:    "not a jwt",
			token:   "hello.world",
			wantErr: ErrMalformedToken,
		},
		{
			name:    "missing subject",
			token:   mustSign(jwt.MapClaims{"email": "x@example.com"}),
			wantErr: ErrMalformedToken,
		},
		{
			name:    "subject only",
			token:   mustSign(jwt.MapClaims{"sub": "alice"}),
			wantSub: "alice",
		},
		{
			name:    "full claims",
			token:   mustSign(jwt.MapClaims{"sub": "alice", "email": "a@b.c", "exp": time.Now().Add(time.Hour).Unix()}),
			wantSub: "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := DecodeToken(tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeToken() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeToken() error = %v", err)
			}
			if claims.Subject != tt.wantSub {
				t.Errorf("Subject = %q, want %q", claims.Subject, tt.wantSub)
			}
		})
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&Claims{Subject: "a"}).Expired(now) {
		t.Error("claims without expiration reported expired")
	}
	if !(&Claims{Subject: "a", ExpiresAt: &past}).Expired(now) {
		t.Error("past expiration not reported expired")
	}
	if (&Claims{Subject: "a", ExpiresAt: &future}).Expired(now) {
		t.Error("future expiration reported expired")
	}
	// Expiration exactly now is expired: validity requires strictly later
	if !(&Claims{Subject: "a", ExpiresAt: &now}).Expired(now) {
		t.Error("expiration equal to now not reported expired")
	}
}

func mustSign(claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret-key"))
	if err != nil {
		panic(err)
	}
	return signed
}
