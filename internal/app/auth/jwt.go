package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService - emissão e validação de tokens de acesso/refresh
type JWTService struct {
	secret        []byte
	accessExpire  time.Duration
	refreshExpire time.Duration
}

// Claims - claims customizados dos tokens
type Claims struct {
	UserUUID string `json:"user_uuid"`
	Role     string `json:"role"`
	Type     string `json:"type"` // access | refresh
	jwt.RegisteredClaims
}

func NewJWTService(secret string, accessExpire, refreshExpire time.Duration) *JWTService {
	return &JWTService{
		secret:        []byte(secret),
		accessExpire:  accessExpire,
		refreshExpire: refreshExpire,
	}
}

// GenerateAccessToken - gera token de acesso de curta duração
func (s *JWTService) GenerateAccessToken(userUUID, role string) (string, error) {
	return s.generate(userUUID, role, "access", s.accessExpire)
}

// GenerateRefreshToken - gera token de refresh de longa duração
func (s *JWTService) GenerateRefreshToken(userUUID, role string) (string, error) {
	return s.generate(userUUID, role, "refresh", s.refreshExpire)
}

func (s *JWTService) generate(userUUID, role, tokenType string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserUUID: userUUID,
		Role:     role,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken - valida assinatura e expiração, retornando os claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RefreshTokenPair - emite um novo par de tokens a partir de um refresh válido
func (s *JWTService) RefreshTokenPair(refreshToken string) (string, string, error) {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.Type != "refresh" {
		return "", "", errors.New("invalid token type")
	}

	access, err := s.GenerateAccessToken(claims.UserUUID, claims.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.GenerateRefreshToken(claims.UserUUID, claims.Role)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
