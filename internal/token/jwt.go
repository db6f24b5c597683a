package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/s123600g/tokenforge/internal/model"
)

// Signer serializes claim sets into signed compact JWTs using symmetric
// HMAC-SHA-256. The signing key is a per-call input; the signer holds no
// key material of its own.
type Signer struct{}

// NewSigner creates a new HMAC token signer.
func NewSigner() *Signer {
	return &Signer{}
}

// Sign produces the signed token string for the given claims.
func (s *Signer) Sign(claims Claims, signKey string) (string, error) {
	if signKey == "" {
		return "", model.ErrEmptySignKey
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies the signature and standard validity claims of a presented
// token and returns its decoded claim set. Used by the transport layer to
// establish a token's authenticity before its ID is handed to the
// lifecycle core.
func (s *Signer) Parse(tokenString, signKey string) (Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(signKey), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return Claims{}, fmt.Errorf("token is invalid")
	}

	return *claims, nil
}
