package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid is returned by Parse for any token that fails
// signature, structure or claim checks.
var ErrTokenInvalid = errors.New("invalid token")

// TokenService signs and verifies the bearer tokens that identify
// sessions. A parseable token is necessary but not sufficient for
// access: revocation lives in the session store, not here.
type TokenService interface {
	Issue(userID, projectID uuid.UUID) (token string, expiresAt time.Time, err error)
	Parse(token string) (*TokenClaims, error)
}

// TokenClaims binds a user to its project for the token's lifetime.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl}
}

func (s *tokenService) Issue(userID, projectID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := TokenClaims{
		UserID:    userID.String(),
		ProjectID: projectID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "wishbase-auth",
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and structure. Only HMAC signatures are
// accepted; a token claiming any other algorithm is rejected.
func (s *tokenService) Parse(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrTokenInvalid
	}
	if _, err := uuid.Parse(claims.ProjectID); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
