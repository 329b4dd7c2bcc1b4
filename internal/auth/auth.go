package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunanest/storytime/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Verifier validates bearer tokens issued by the external identity provider.
// Every request is authenticated independently; no session state is kept.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

func (v *Verifier) Verify(tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// The provider puts the stable user id in "sub"; some older tokens
	// carry "user_id" instead.
	sub, _ := claims["sub"].(string)
	if sub == "" {
		sub, _ = claims["user_id"].(string)
	}
	if sub == "" {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return &model.Identity{ID: sub, Email: email}, nil
}
