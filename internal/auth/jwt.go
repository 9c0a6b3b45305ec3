package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
)

// accessClaims is the payload of an access token issued by the auth provider
type accessClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email"`
	Name         string `json:"name"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
}

// displayName prefers the profile the user filled in over the top-level claim
func (c *accessClaims) displayName() string {
	for _, name := range []string{c.UserMetadata.FullName, c.UserMetadata.Name, c.Name} {
		if name != "" {
			return name
		}
	}
	return ""
}

// JWTValidator validates HS256 access tokens
type JWTValidator struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &JWTValidator{
		secret: []byte(cfg.JWTSecret),
		parser: jwt.NewParser(opts...),
	}
}

// ValidateToken checks signature, expiry, issuer and audience, and returns
// the person the token was issued to.
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: signing secret not configured", ErrInvalidToken)
	}

	var claims accessClaims
	_, err := v.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	userCtx := &UserContext{
		UserID:      userID,
		Email:       claims.Email,
		DisplayName: claims.displayName(),
		Token:       tokenString,
	}
	if claims.ExpiresAt != nil {
		userCtx.ExpiresAt = claims.ExpiresAt.Time
	}
	return userCtx, nil
}

// HashToken returns the hex SHA-256 of a raw token, the form revocations are stored in
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
