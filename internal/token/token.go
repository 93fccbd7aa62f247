// Package token issues and verifies the signed session tokens handed out at
// signup and signin.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"taskboard/internal/apperrors"
	"taskboard/pkg/logger"
)

// InsecureDefaultSecret is used when no signing key is configured.
const InsecureDefaultSecret = "your-secret-key"

const DefaultTTL = 24 * time.Hour

type Reason string

const (
	ReasonMalformed        Reason = "malformed"
	ReasonInvalidSignature Reason = "invalid signature"
	ReasonExpired          Reason = "expired"
)

// VerifyError keeps the concrete failure reason for server-side logging.
// Callers outside this package should only test for apperrors.ErrTokenInvalid.
type VerifyError struct {
	Reason Reason
	Err    error
}

func (e *VerifyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Reason, e.Err)
	}
	return "token " + string(e.Reason)
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}

func (e *VerifyError) Is(target error) bool {
	return target == apperrors.ErrTokenInvalid
}

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret string, ttl time.Duration, opts ...Option) *Service {
	if secret == "" {
		logger.SecurityLogger.Warn("JWT_SECRET is not set, falling back to the insecure default signing key")
		secret = InsecureDefaultSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID valid for the configured TTL.
func (s *Service) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("token: empty user id")
	}
	issuedAt := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
		UserID: userID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first and the expiry second, returning the
// user id embedded in a valid token.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0 {
			return "", &VerifyError{Reason: ReasonInvalidSignature, Err: err}
		}
		return "", &VerifyError{Reason: ReasonMalformed, Err: err}
	}

	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return "", &VerifyError{Reason: ReasonExpired}
	}
	if claims.UserID == "" {
		return "", &VerifyError{Reason: ReasonMalformed, Err: errors.New("missing user id claim")}
	}
	return claims.UserID, nil
}
