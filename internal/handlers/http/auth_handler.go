package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/handlers/dto"
	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
	"github.com/maisaeducacao/students-api/internal/services"
)

// AuthHandler lida com cadastro e sessão de administradores
type AuthHandler struct {
	authService *services.AuthService
	validator   *dto.Validator
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(authService *services.AuthService, validator *dto.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Signup godoc
// @Summary Cadastra um administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Dados do administrador"
// @Success 201 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalid_request_body")
		return
	}
	if errs := req.Validate(h.validator); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		CPF:      req.CPF,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewResponse(http.StatusCreated, dto.ToUserResponse(user)))
}

// Signin godoc
// @Summary Autentica um administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SigninRequest true "Credenciais"
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalid_request_body")
		return
	}
	if errs := req.Validate(h.validator); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	token, err := h.authService.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.TokenResponse{AccessToken: token}))
}

// Me godoc
// @Summary Retorna o administrador autenticado
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		_ = c.Error(domainerrors.ErrUnauthorized)
		return
	}

	user, err := h.authService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(user)))
}

// Signout godoc
// @Summary Revoga o token de acesso atual
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response[dto.MessageResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		_ = c.Error(domainerrors.ErrUnauthorized)
		return
	}

	if err := h.authService.Signout(c.Request.Context(), claims); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.MessageResponse{
		Message: dto.T(c, "message.signed_out"),
	}))
}
