package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartrentsystem/backend/internal/domain/providers"
)

// ErrInvalidToken is returned for any token that does not verify
var ErrInvalidToken = errors.New("invalid token")

// JWTVerifier checks HMAC-signed tokens issued by the account service
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

var _ providers.TokenVerifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier accepting HS256 and HS512 tokens signed with secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS512.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify returns the user id carried in the sub claim, or in id when sub is empty
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: no user id claim", ErrInvalidToken)
}
