package handlers

import (
	"learnquest/internal/http/middleware"
	"learnquest/internal/http/response"
	"learnquest/internal/service"

	"github.com/gin-gonic/gin"
)

// Me returns the profile loaded by the auth middleware.
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	response.OK(c, user)
}

// UpdateMe accepts only first_name, last_name, email and active_theme. Other keys are ignored.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "bad request")
		return
	}

	user, err := h.Accounts.UpdateProfile(c.Request.Context(), userID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

func (h *Handler) MyTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	txs, err := h.Progression.Ledger(c.Request.Context(), userID, queryLimit(c, 50))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"transactions": txs})
}

func (h *Handler) MyActivity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit := min(queryLimit(c, 50), 100)
	logs, err := h.Activity.GetUserAuditLogs(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"activity": logs})
}
