package service

import (
	"errors"
	"time"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/auth"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/ds"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/repository"
)

// AuthService - serviço de autenticação (JWT stateless, sem sessão em Redis)
type AuthService struct {
	repo       *repository.Repository
	jwtService *auth.JWTService
}

func NewAuthService(repo *repository.Repository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtService: jwtService,
	}
}

// RegisterRequest - requisição de cadastro de usuário
type RegisterRequest struct {
	Login    string `json:"login" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// LoginRequest - requisição de login
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse - resposta de autenticação
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         ds.User   `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Register - cadastro de usuário (senha já chega com hash do handler)
func (s *AuthService) Register(req RegisterRequest) (*AuthResponse, error) {
	_, err := s.repo.GetUserByLogin(req.Login)
	if err == nil {
		return nil, errors.New("user with this login already exists")
	}

	role := req.Role
	if role == "" {
		role = ds.RoleDriver
	}

	user := ds.User{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     role,
	}

	if err := s.repo.CreateUser(&user); err != nil {
		return nil, errors.New("failed to create user")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.UUID, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.UUID, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	user.Password = ""

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}, nil
}

// Login - autenticação de usuário (hash já conferido no handler)
func (s *AuthService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByLogin(req.Login)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.UUID, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.UUID, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	user.Password = ""

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}, nil
}

// Logout - JWT stateless: o servidor não guarda sessão, o cliente descarta o token
func (s *AuthService) Logout(userUUID, accessToken string) error {
	_ = userUUID
	_ = accessToken
	return nil
}

// RefreshTokens - renovação do par de tokens
func (s *AuthService) RefreshTokens(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if claims.Type != "refresh" {
		return nil, errors.New("invalid token type")
	}

	user, err := s.repo.GetUserByUUID(claims.UserUUID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	accessToken, newRefreshToken, err := s.jwtService.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, errors.New("failed to refresh token pair")
	}

	user.Password = ""

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         user,
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}, nil
}
