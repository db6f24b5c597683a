package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/s123600g/tokenforge/internal/model"
)

// Claims is the claim set embedded in every issued token. Embedding
// jwt.RegisteredClaims keeps the serialization sparse: optional claims left
// empty (subject, audience) are omitted from the payload entirely rather
// than encoded as empty strings, which existing verifiers depend on.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims assembles a fresh claim set. The token ID is always generated
// here, never caller-supplied. Timestamps are UTC with iat == nbf and
// exp = now + expireMinutes, so nbf <= iat <= exp always holds.
func NewClaims(issuer, subject, audience string, expireMinutes int) (Claims, error) {
	if expireMinutes <= 0 {
		return Claims{}, model.ErrInvalidExpiry
	}

	now := time.Now().UTC()
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireMinutes) * time.Minute)),
		},
	}
	if audience != "" {
		c.Audience = jwt.ClaimStrings{audience}
	}

	return c, nil
}
