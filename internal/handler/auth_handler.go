package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler sets up the routing dependencies for login/logout endpoints
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// RegisterRoutes binds login on the public group and the rest on the authenticated one
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.GetMe)
}

// Login exchanges backend credentials for a terminal session token
// @Summary      Login
// @Description  Authenticates against the backend and opens a till session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Payload"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetTokenCookie(c, res.Token, int(time.Until(res.ExpiresAt).Seconds()), h.secureCookies)
	response.JSON(c, http.StatusOK, res)
}

// Logout closes the till session
// @Summary      Logout
// @Description  Drops the session with its cart and return draft
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.secureCookies)
	if err := h.authService.Logout(middleware.SessionID(c)); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Logged out successfully")
}

// GetMe returns the current session
// @Summary      Get current session
// @Description  Get the cashier and state of the current till session
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.SessionInfo}
// @Failure      401  {object}  response.Response
// @Router       /api/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	info, err := h.authService.Me(middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}
