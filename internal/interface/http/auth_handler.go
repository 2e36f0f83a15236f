package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yogapw/forumgo/internal/application"
	"github.com/yogapw/forumgo/pkg/helpers"
	"github.com/yogapw/forumgo/pkg/response"
	"github.com/yogapw/forumgo/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.Service
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.Service, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,uname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.Logger.WithError(err).Warn("registration failed")
		response.Error[any](c, http.StatusBadRequest, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, userView(u), "registered", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	if _, err := h.Svc.OpenSession(c.Request.Context(), u); err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("open session failed")
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	access, aexp, err := h.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	refresh, rexp, err := h.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	h.Cookies.SetPair(c, access, aexp, refresh, rexp)
	response.Success(c, http.StatusOK, userView(u), "login successful", gin.H{"access_expires_at": aexp, "refresh_expires_at": rexp})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	claims, err := h.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	u, err := h.Svc.GetUser(claims.UserID)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "refresh failed", nil)
		return
	}
	if _, err := h.Svc.OpenSession(c.Request.Context(), u); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "refresh failed", nil)
		return
	}

	access, aexp, err := h.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "refresh failed", nil)
		return
	}
	refresh, rexp, err := h.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "refresh failed", nil)
		return
	}

	h.Cookies.SetPair(c, access, aexp, refresh, rexp)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{"access_expires_at": aexp, "refresh_expires_at": rexp})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.CloseSession(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
