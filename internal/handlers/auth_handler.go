package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/services"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

// magicLinkFailure is the only thing a caller learns about a failed request
const magicLinkFailure = "Unable to send login link"

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(g RouteGroups) {
	auth := g.Public.Group("/auth")
	{
		auth.POST("/magic-link", h.RequestMagicLink)
		auth.POST("/callback", h.MagicLinkCallback)
		auth.GET("/callback", h.MagicLinkCallback)
		auth.POST("/login", h.Login)
		auth.POST("/password-strength", h.PasswordStrength)
	}

	session := g.Session.Group("/auth")
	{
		session.GET("/session", h.Session)
		session.POST("/change-password", h.ChangePassword)
	}
}

// RequestMagicLink godoc
// @Summary Email a one-time sign-in link
// @Description Answers with a generic message; which step failed is only logged.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 429 {object} apperrors.AppError
// @Router /auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req dto.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validator.Validate(&req) != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: magicLinkFailure})
		return
	}

	err := h.authService.RequestMagicLink(c.Request.Context(), h.GetDB(c), &req, c.ClientIP())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTooManyRequests) {
			h.HandleServiceError(c, err)
			return
		}
		logger.CtxWarn(c.Request.Context(), "Magic link request failed", "error", err)
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: magicLinkFailure})
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Check your email for the login link"})
}

// MagicLinkCallback godoc
// @Summary Exchange a magic link token for a session
// @Tags auth
// @Accept json
// @Produce json
// @Param token query string false "Token from the link"
// @Param request body dto.MagicLinkCallbackRequest false "Token from the link"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.AppError
// @Router /auth/callback [post]
func (h *AuthHandler) MagicLinkCallback(c *gin.Context) {
	var req dto.MagicLinkCallbackRequest
	if c.Request.Method == http.MethodGet {
		if !h.BindAndValidate_Query(c, &req) {
			return
		}
	} else if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.CompleteMagicLink(c.Request.Context(), h.GetDB(c), req.Token)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Login godoc
// @Summary Password sign-in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.AppError
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req dto.PasswordStrengthRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.authService.PasswordStrength(req.Password))
}

// Session godoc
// @Summary Current user and where the UI should send them
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.authService.Session(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangePassword godoc
// @Summary Replace the temporary password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "New password twice"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.AppError
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.ChangePassword(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
