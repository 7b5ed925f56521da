package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario-backend/internal/services"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int(h.svc.TokenTTL().Seconds()), "/", "", false, true)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var in services.SignupInput
	if !bindJSON(c, &in) {
		return
	}

	user, token, err := h.svc.Signup(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "success login", "user": user, "token": token})
}

// Logout expires the token cookie. Bearer tokens stay valid until their
// expiry; the client is expected to discard them.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in struct {
		Email       string `json:"email" binding:"required"`
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}

	user, token, err := h.svc.ChangePassword(c.Request.Context(), in.Email, in.OldPassword, in.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully", "user": user, "token": token})
}
