// Package auth implements token issuance/verification and password hashing
// for staff users and library members.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"biblioteca-backend/internal/domain/access"
)

var (
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: jwt secret must be provided")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the given actor. The claims carry the public id,
// actor type, role and owning library.
func (s *TokenService) Issue(actor access.Actor) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  actor.PublicID,
		"typ":  string(actor.Type),
		"role": string(actor.Role),
		"lib":  actor.LibraryID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, rebuilding the Actor it was issued
// for. Expiry is enforced by the jwt library during Parse.
func (s *TokenService) Verify(tokenString string) (access.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return access.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.Actor{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	typ, _ := claims["typ"].(string)
	role, _ := claims["role"].(string)
	lib, _ := claims["lib"].(float64)
	actor := access.Actor{
		PublicID:  sub,
		Type:      access.ActorType(typ),
		Role:      access.Role(role),
		LibraryID: uint64(lib),
	}
	if actor.PublicID == "" || !actor.Role.Valid() {
		return access.Actor{}, ErrInvalidToken
	}
	return actor, nil
}
