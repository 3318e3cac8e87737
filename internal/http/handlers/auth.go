package handlers

import (
	"learnquest/internal/domain"
	"learnquest/internal/http/response"
	"learnquest/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type authResponse struct {
	*service.TokenPair
	User *domain.User `json:"user"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	res, err := h.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, authResponse{TokenPair: res.Tokens, User: res.User})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	res, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, authResponse{TokenPair: res.Tokens, User: res.User})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Unauthorized(c)
		return
	}

	pair, ok := h.Tokens.Refresh(c.Request.Context(), req.RefreshToken)
	if !ok {
		response.Unauthorized(c)
		return
	}
	response.OK(c, pair)
}

// Logout only records the event; tokens expire on their own.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.Accounts.Logout(c.Request.Context(), userID)
	response.Message(c, "Logged out successfully")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	if err := h.Accounts.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Password changed successfully")
}

// RequestPasswordReset answers identically whether or not the email is registered.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	token, ok, err := h.Accounts.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := gin.H{"message": "If email exists, reset instructions have been sent", "success": true}
	if h.DevMode && ok {
		body["reset_token"] = token
	}
	response.OK(c, body)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	if err := h.Accounts.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Password reset successfully")
}
