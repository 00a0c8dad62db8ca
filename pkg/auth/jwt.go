package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validation errors.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims holds the identity extracted from a validated access token.
// Supabase issues HS256 tokens with the user id in `sub`.
type Claims struct {
	UserID string
	Email  string
	Roles  []string
}

type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig configures token validation.
type JWTConfig struct {
	SigningMethod string
	SecretKey     string
	Issuer        string
	Audience      []string
}

// JWTValidator validates access tokens.
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a validator. Only HMAC signing is supported.
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	if config.SigningMethod == "" {
		config.SigningMethod = "HS256"
	}
	if config.SigningMethod != "HS256" {
		return nil, fmt.Errorf("unsupported signing method: %s", config.SigningMethod)
	}
	return &JWTValidator{config: config}, nil
}

// ValidateToken parses and validates a token, returning its claims.
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.config.SigningMethod}),
	}
	if v.config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.config.Issuer))
	}

	var claims jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	roles := []string{"authenticated"}
	if claims.Role != "" {
		roles = []string{claims.Role}
	}

	return &Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  roles,
	}, nil
}

// JWTGeneratorConfig configures token generation.
type JWTGeneratorConfig struct {
	SigningMethod string
	SecretKey     string
	Issuer        string
	Audience      []string
	ExpiryTime    time.Duration
}

// JWTGenerator mints tokens, used for development and tests.
type JWTGenerator struct {
	config JWTGeneratorConfig
}

// NewJWTGenerator creates a token generator.
func NewJWTGenerator(config JWTGeneratorConfig) (*JWTGenerator, error) {
	if config.SecretKey == "" {
		return nil, errors.New("jwt secret key is required")
	}
	if config.ExpiryTime == 0 {
		config.ExpiryTime = 24 * time.Hour
	}
	return &JWTGenerator{config: config}, nil
}

// GenerateToken mints a signed token for the given identity.
func (g *JWTGenerator) GenerateToken(userID, email string, roles []string) (string, error) {
	role := ""
	if len(roles) > 0 {
		role = roles[0]
	}

	now := time.Now()
	claims := jwtClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    g.config.Issuer,
			Audience:  g.config.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.config.ExpiryTime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.config.SecretKey))
}
