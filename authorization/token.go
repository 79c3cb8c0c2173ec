package authorization

import (
	"encoding/json"
	"time"

	"github.com/cristalhq/jwt/v4"

	"github.com/satyajeet03/rentApp/errors"
)

const DefaultTokenLifetime = 7 * 24 * time.Hour

// Claims carried by a session token. Only the user id travels in the
// token; role and profile are loaded per request.
type Claims struct {
	UserID    string    `json:"id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenService issues and verifies HS256 signed session tokens.
type TokenService struct {
	signer   jwt.Signer
	verifier jwt.Verifier
	lifetime time.Duration
}

func NewTokenService(secret []byte, lifetime time.Duration) (*TokenService, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, err
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenService{
		signer:   signer,
		verifier: verifier,
		lifetime: lifetime,
	}, nil
}

func (service *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(service.lifetime),
	}

	builder := jwt.NewBuilder(service.signer)
	token, err := builder.Build(claims)
	if err != nil {
		return "", err
	}

	return token.String(), nil
}

// Verify checks the signature and expiry. Malformed, tampered and expired
// tokens all come back as ErrInvalidToken.
func (service *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse([]byte(tokenString), service.verifier)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(token.Claims(), &claims); err != nil {
		return nil, errors.ErrInvalidToken
	}

	if claims.UserID == "" || time.Now().After(claims.ExpiresAt) {
		return nil, errors.ErrInvalidToken
	}

	return &claims, nil
}
