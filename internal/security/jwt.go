package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
)

// AccessClaims is the claim set carried by an access token: the subject is
// the user's email, user_id the stable account id.
type AccessClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies access tokens with HMAC-SHA256 and a
// symmetric secret.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Encode signs a token for subject with the given user id, expiring after ttl.
func (c *TokenCodec) Encode(subject, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of tokenStr and returns its
// claims. All failures, including attacker-controlled garbage, come back as
// unauthorized-kind errors.
func (c *TokenCodec) Decode(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("token expired")
		}
		return nil, apperr.Unauthorized("invalid token signature")
	}
	if !token.Valid {
		return nil, apperr.Unauthorized("invalid token signature")
	}
	if claims.Subject == "" || claims.UserID == "" {
		return nil, apperr.Unauthorized("malformed token claims")
	}
	return claims, nil
}
