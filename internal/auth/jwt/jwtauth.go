package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// NewStateToken signs a short-lived OAuth state carrying nonce as its subject.
func NewStateToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, nonce string) (string, error) {
	claims := map[string]interface{}{
		"sub": nonce,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return "", err
	}
	return ts, nil
}

// VerifyStateToken checks signature and expiry and returns the nonce.
func VerifyStateToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	if t.Subject() == "" {
		return "", fmt.Errorf("state token has no nonce")
	}
	return t.Subject(), nil
}
