package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/canteen/config"
	"github.com/shashiranjanraj/canteen/pkg/cache"
)

type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

var (
	ErrWrongTokenType = errors.New("auth: wrong token type")
	ErrRevoked        = errors.New("auth: token revoked")
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint      `json:"user_id"`
	Role   string    `json:"role"`
	Type   TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// Pair is what login and register hand back to clients.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

func sign(userID uint, role string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateToken creates a short-lived access token.
func GenerateToken(userID uint, role string) (string, error) {
	return sign(userID, role, Access, config.JWTTTL())
}

// GenerateRefreshToken creates a long-lived token accepted only by Refresh.
func GenerateRefreshToken(userID uint, role string) (string, error) {
	return sign(userID, role, Refresh, config.JWTRefreshTTL())
}

// IssuePair creates an access and a refresh token together.
func IssuePair(userID uint, role string) (Pair, error) {
	access, err := GenerateToken(userID, role)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := GenerateRefreshToken(userID, role)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// ValidateToken parses a token and checks signature and expiry.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ValidateAccess accepts only access tokens. Tokens minted without a type
// are treated as access tokens.
func ValidateAccess(t string) (*Claims, error) {
	c, err := ValidateToken(t)
	if err != nil {
		return nil, err
	}
	if c.Type != Access && c.Type != "" {
		return nil, ErrWrongTokenType
	}
	return c, nil
}

// RefreshAccess exchanges a live refresh token for a new access token.
func RefreshAccess(ctx context.Context, refresh string) (string, error) {
	c, err := ValidateToken(refresh)
	if err != nil {
		return "", err
	}
	if c.Type != Refresh {
		return "", ErrWrongTokenType
	}
	if IsRevoked(ctx, c.ID) {
		return "", ErrRevoked
	}
	return GenerateToken(c.UserID, c.Role)
}

func revokedKey(jti string) string { return "auth:revoked:" + jti }

// Revoke blacklists a refresh token until it would have expired anyway.
func Revoke(ctx context.Context, refresh string) error {
	c, err := ValidateToken(refresh)
	if err != nil {
		return err
	}
	if c.Type != Refresh {
		return ErrWrongTokenType
	}
	ttl := time.Until(c.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return cache.Set(ctx, revokedKey(c.ID), true, ttl)
}

func IsRevoked(ctx context.Context, jti string) bool {
	return jti != "" && cache.Has(ctx, revokedKey(jti))
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
