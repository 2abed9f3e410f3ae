package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tablebooker/api/internal/domain"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are issued by the authentication service. Subject carries the user id.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenValidator interface {
	Validate(token string) (domain.User, error)
}

type JWTValidator struct {
	secret []byte
	now    func() time.Time
}

// NewJWTValidator validates HS256 tokens signed with secret.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

func (v *JWTValidator) Validate(token string) (domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return domain.User{}, ErrMissingToken
	}
	if len(v.secret) == 0 {
		return domain.User{}, fmt.Errorf("%w: jwt secret not configured", ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithTimeFunc(v.now))
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.User{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return domain.User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	roles := make([]string, 0, len(claims.Roles))
	for _, role := range claims.Roles {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			roles = append(roles, role)
		}
	}
	return domain.User{ID: claims.Subject, Roles: roles}, nil
}
