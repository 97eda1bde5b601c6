package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token has expired")
)

const tokenIssuer = "priority-matrix-api"

// Claims carries the identity embedded in a session token.
// UserID is the only field the rest of the system trusts.
type Claims struct {
	UserID string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates stateless, signed session tokens
type TokenManager struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager signing with secret
func NewTokenManager(secret []byte, maxAge time.Duration) *TokenManager {
	return &TokenManager{
		secret: secret,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// MaxAge returns the lifetime of issued tokens
func (tm *TokenManager) MaxAge() time.Duration {
	return tm.maxAge
}

// Issue signs a token for the given identity and returns it with its expiry
func (tm *TokenManager) Issue(userID, name, email string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("issue token: %w", ErrInvalidToken)
	}

	now := tm.now()
	expiresAt := now.Add(tm.maxAge)

	claims := Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse validates a token and returns its claims
func (tm *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || claims.Subject != claims.UserID {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
