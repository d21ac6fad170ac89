package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotRefreshToken is returned when a refresh operation receives an
	// access token (or any token without the refresh marker).
	ErrNotRefreshToken = errors.New("not a refresh token")
)

// TokenTypeRefresh marks refresh tokens. Access tokens carry no type claim;
// the access gate rejects any token carrying this marker.
const TokenTypeRefresh = "refresh"

// Claims holds JWT claims including user ID and token type.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	TokenType string    `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// TokenPair is the access/refresh token pair returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// JWTService handles token generation and validation.
type JWTService struct {
	secret        []byte
	accessExpire  time.Duration
	refreshExpire time.Duration
}

// NewJWTService creates a JWT service.
func NewJWTService(secret string, accessExpireMin, refreshExpireDays int) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		accessExpire:  time.Duration(accessExpireMin) * time.Minute,
		refreshExpire: time.Duration(refreshExpireDays) * 24 * time.Hour,
	}
}

// GeneratePair creates an access/refresh token pair for the user.
func (s *JWTService) GeneratePair(userID uuid.UUID, email string) (*TokenPair, error) {
	access, err := s.generate(userID, email, "", s.accessExpire)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generate(userID, email, TokenTypeRefresh, s.refreshExpire)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *JWTService) generate(userID uuid.UUID, email, tokenType string, expire time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a JWT, returning claims or error.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccess validates a token and rejects refresh tokens. The access
// gate uses this so a leaked refresh token cannot authenticate requests.
func (s *JWTService) ValidateAccess(tokenString string) (*Claims, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.IsRefresh() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefresh validates a token and requires the refresh marker.
func (s *JWTService) ValidateRefresh(tokenString string) (*Claims, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefresh() {
		return nil, ErrNotRefreshToken
	}
	return claims, nil
}
