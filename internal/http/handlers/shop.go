package handlers

import (
	"learnquest/internal/http/response"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListThemes(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	catalog, err := h.Shop.ListThemes(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, catalog)
}

func (h *Handler) PurchaseTheme(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	res, err := h.Shop.Purchase(c.Request.Context(), userID, c.Param("theme_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"message":      "Theme purchased successfully",
		"theme_id":     res.ThemeID,
		"remaining_sp": res.RemainingSP,
	})
}

func (h *Handler) ActivateTheme(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	active, err := h.Shop.Activate(c.Request.Context(), userID, c.Param("theme_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Theme activated successfully", "active_theme": active})
}
