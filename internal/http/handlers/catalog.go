package handlers

import (
	"learnquest/internal/http/middleware"
	"learnquest/internal/http/response"
	"learnquest/internal/planner"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPaths(c *gin.Context) {
	paths, err := h.Catalog.ListPaths(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, paths)
}

func (h *Handler) GetPath(c *gin.Context) {
	pathID, ok := paramID(c, "id")
	if !ok {
		return
	}
	path, err := h.Catalog.GetPath(c.Request.Context(), pathID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, path)
}

// SkillTree is public; with a valid token nodes carry the caller's unlock state.
func (h *Handler) SkillTree(c *gin.Context) {
	pathID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	tree, err := h.Catalog.GetSkillTree(c.Request.Context(), pathID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tree)
}

// GeneratePath always answers with a plan; generator failures produce the fallback.
func (h *Handler) GeneratePath(c *gin.Context) {
	var req planner.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "bad request")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	plan, source := h.Planner.GeneratePlan(c.Request.Context(), req)
	c.Header("X-Plan-Source", source)
	response.OK(c, plan)
}
