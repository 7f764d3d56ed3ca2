package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/mdfe"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/middleware"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/repository"
	"github.com/Nicolasirrigpenapolis/NewSistema-sub000/internal/app/service"
)

type Handler struct {
	Repository     *repository.Repository
	AuthService    *service.AuthService
	AuthMiddleware *middleware.AuthMiddleware
	Assembler      *mdfe.Assembler
	Fiscal         *mdfe.Service
	Ini            *mdfe.IniGenerator
	Conformidade   *mdfe.ConformanceChecker
}

func NewHandler(r *repository.Repository, authService *service.AuthService, authMiddleware *middleware.AuthMiddleware, assembler *mdfe.Assembler, fiscal *mdfe.Service) *Handler {
	return &Handler{
		Repository:     r,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Assembler:      assembler,
		Fiscal:         fiscal,
		Ini:            mdfe.NewIniGenerator(),
		Conformidade:   mdfe.NewConformanceChecker(),
	}
}

// helper para erros uniformes
func fail(ctx *gin.Context, code int, message string) {
	ctx.JSON(code, gin.H{
		"status":  "fail",
		"message": message,
	})
}

// ==================== Autenticação ====================

// RegisterUser - cadastro de usuário
// @Summary Register new user
// @Description Create a user account and return a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration data"
// @Success 201 {object} service.AuthResponse "User created"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Login already taken"
// @Router /register [post]
func (h *Handler) RegisterUser(ctx *gin.Context) {
	var req service.RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}
	req.Password = string(hashedPassword)

	response, err := h.AuthService.Register(req)
	if err != nil {
		if err.Error() == "user with this login already exists" {
			fail(ctx, http.StatusConflict, "user with this login already exists")
			return
		}
		fail(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":        "success",
		"message":       "User registered successfully",
		"access_token":  response.AccessToken,
		"refresh_token": response.RefreshToken,
		"user":          response.User,
		"expires_at":    response.ExpiresAt,
	})
}

// LoginUser - autenticação
// @Summary User login
// @Description Authenticate user with login and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResponse "Login successful"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /login [post]
func (h *Handler) LoginUser(ctx *gin.Context) {
	var req service.LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Repository.GetUserByLogin(req.Login)
	if err != nil {
		fail(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		fail(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	response, err := h.AuthService.Login(req)
	if err != nil {
		fail(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// LogoutUser - encerramento de sessão (JWT stateless, o cliente descarta o token)
func (h *Handler) LogoutUser(ctx *gin.Context) {
	userUUID, exists := middleware.GetUserUUID(ctx)
	if !exists {
		fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.AuthService.Logout(userUUID, ""); err != nil {
		fail(ctx, http.StatusInternalServerError, "failed to logout")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "logged out"})
}

// RefreshToken - renovação do par de tokens
func (h *Handler) RefreshToken(ctx *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.AuthService.RefreshTokens(req.RefreshToken)
	if err != nil {
		fail(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetUserProfile - perfil do usuário autenticado
func (h *Handler) GetUserProfile(ctx *gin.Context) {
	userUUID, exists := middleware.GetUserUUID(ctx)
	if !exists {
		fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.Repository.GetUserByUUID(userUUID)
	if err != nil {
		fail(ctx, http.StatusNotFound, "user not found")
		return
	}

	user.Password = ""
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "user": user})
}

// UpdateUserProfile - atualização de dados do próprio usuário
func (h *Handler) UpdateUserProfile(ctx *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "invalid request body")
		return
	}

	userUUID, exists := middleware.GetUserUUID(ctx)
	if !exists {
		fail(ctx, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.Repository.GetUserByUUID(userUUID)
	if err != nil {
		fail(ctx, http.StatusNotFound, "user not found")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := h.Repository.UpdateUser(&user); err != nil {
		fail(ctx, http.StatusInternalServerError, "failed to update user")
		return
	}

	user.Password = ""
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "user": user})
}
