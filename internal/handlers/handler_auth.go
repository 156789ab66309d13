package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/coinadmin/backend/internal/apperrors"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
	"github.com/coinadmin/backend/internal/dto"
	"github.com/coinadmin/backend/internal/middleware"
	"github.com/coinadmin/backend/pkg/config"
)

// authHandler handles administrator authentication and profile requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes registers the public login route and the authenticated
// profile routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(authService)

	public := r.Group("/api/auth")
	if loginLimiter != nil {
		public.POST("/login", middleware.RateLimit(loginLimiter), h.login)
	} else {
		public.POST("/login", h.login)
	}

	authed := r.Group("/api/auth", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/profile", h.getProfile)
		authed.PUT("/profile", h.updateProfile)
		authed.PUT("/change-password", h.changePassword)
		authed.POST("/logout", h.logout)
	}
}

// login godoc
// @Summary Authenticate an administrator
// @Description Verifies email and password and returns a signed bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials or account disabled"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /api/auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, admin, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		} else {
			logger.Error("Failed to login", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	logger.Info("Admin logged in", slog.String("admin_id", admin.AdminID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		Admin:   dto.ToAdminResponse(admin),
	})
}

// getProfile godoc
// @Summary Get the authenticated admin's profile
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AdminResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Admin not found"
// @Security BearerAuth
// @Router /api/auth/profile [get]
func (h *authHandler) getProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	admin, err := h.authService.GetProfile(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		} else {
			logger.Error("Failed to get profile", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAdminResponse(admin))
}

// updateProfile godoc
// @Summary Update the authenticated admin's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.AdminResponse
// @Failure 400 {object} map[string]string "Invalid input or email already in use"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/auth/profile [put]
func (h *authHandler) updateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	admin, err := h.authService.UpdateProfile(c.Request.Context(), adminID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		} else {
			logger.Error("Failed to update profile", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	logger.Info("Admin profile updated", slog.String("admin_id", adminID))
	c.JSON(http.StatusOK, dto.ToAdminResponse(admin))
}

// changePassword godoc
// @Summary Change the authenticated admin's password
// @Tags auth
// @Accept json
// @Produce json
// @Param passwords body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input or wrong current password"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/auth/change-password [put]
func (h *authHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangePassword", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), adminID, req); err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		} else {
			logger.Error("Failed to change password", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}

	logger.Info("Admin password changed", slog.String("admin_id", adminID))
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// logout godoc
// @Summary Log out
// @Description Tokens are stateless; logout is informational and the client discards the token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /api/auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
