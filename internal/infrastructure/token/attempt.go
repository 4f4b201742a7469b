// Package token signs the attempt tokens that bind gateway callbacks to the
// attempt and order they were issued for.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/savedeities/contribute/internal/application/checkout"
	"github.com/savedeities/contribute/internal/shared/biztime"
)

const (
	issuer     = "contribute"
	defaultTTL = 24 * time.Hour
)

// ErrEmptySecret is returned when no signing secret is configured.
var ErrEmptySecret = errors.New("attempt token secret is empty")

type attemptClaims struct {
	SessionID string `json:"sid"`
	AttemptID string `json:"aid"`
	OrderID   string `json:"oid"`
	jwt.RegisteredClaims
}

// AttemptTokenService issues HS256 attempt tokens.
type AttemptTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ checkout.AttemptTokens = (*AttemptTokenService)(nil)

func NewAttemptTokenService(secret string, ttl time.Duration) (*AttemptTokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &AttemptTokenService{secret: []byte(secret), ttl: ttl, now: biztime.NowUTC}, nil
}

func (s *AttemptTokenService) Issue(c checkout.AttemptClaims) (string, error) {
	now := s.now()
	claims := &attemptClaims{
		SessionID: c.SessionID,
		AttemptID: c.AttemptID,
		OrderID:   c.OrderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   c.AttemptID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign attempt token: %w", err)
	}
	return signed, nil
}

func (s *AttemptTokenService) Parse(tokenString string) (*checkout.AttemptClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &attemptClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse attempt token: %w", err)
	}

	claims, ok := token.Claims.(*attemptClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid attempt token")
	}
	if claims.SessionID == "" || claims.AttemptID == "" || claims.OrderID == "" {
		return nil, fmt.Errorf("attempt token is missing claims")
	}
	return &checkout.AttemptClaims{
		SessionID: claims.SessionID,
		AttemptID: claims.AttemptID,
		OrderID:   claims.OrderID,
	}, nil
}
