package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenLifetime = 7 * 24 * time.Hour

type TokenService struct {
	secretKey []byte
	issuer    string
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		issuer:    "neon-chat-backend",
	}
}

// GenerateToken mints an HS256 token for the user. The jti comes back
// separately so logout can revoke exactly this token.
func (s *TokenService) GenerateToken(userID uuid.UUID) (token string, jti string, err error) {
	jti = uuid.NewString()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"jti": jti,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenLifetime).Unix(),
		"iss": s.issuer,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	return token, jti, err
}

// ValidateToken parses the JWT and returns the subject user id and the jti.
func (s *TokenService) ValidateToken(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", "", fmt.Errorf("subject not found in token")
	}
	jti, _ := claims["jti"].(string)
	return sub, jti, nil
}

// Lifetime is the validity window for freshly minted tokens. Logout uses it
// as the revocation TTL so entries outlive any token they block.
func (s *TokenService) Lifetime() time.Duration {
	return tokenLifetime
}
