package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dnoglop/task-joule/middleware"
	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

type AuthenticationHandler struct {
	authService services.AuthenticationService
}

func NewAuthenticationHandler(authService services.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authService: authService}
}

func (h *AuthenticationHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("login successful", resp))
}

func (h *AuthenticationHandler) AcceptInvite(c *gin.Context) {
	var req models.AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	resp, err := h.authService.AcceptInvite(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("invite accepted", resp))
}

func (h *AuthenticationHandler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, "unauthorized", nil))
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), claims, req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("password changed", nil))
}
