package handlers

import (
	"errors"
	"io"

	"learnquest/internal/http/response"

	"github.com/gin-gonic/gin"
)

type CompleteLessonRequest struct {
	Score *int `json:"score"`
}

func (h *Handler) CompleteLesson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	lessonID, ok := paramID(c, "id")
	if !ok {
		return
	}

	// score may also come as a query parameter; the body is optional
	var req CompleteLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "bad request")
		return
	}
	if req.Score == nil {
		var q struct {
			Score *int `form:"score"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			response.BadRequest(c, "invalid score")
			return
		}
		req.Score = q.Score
	}

	reward, err := h.Progression.CompleteLesson(c.Request.Context(), userID, lessonID, req.Score)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Lesson completed successfully"
	if reward.AlreadyCompleted {
		message = "Lesson already completed"
	}
	response.OK(c, gin.H{"message": message, "reward": reward, "xp_gained": reward.XPGained, "sp_gained": reward.SPGained})
}

func (h *Handler) UnlockSkill(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	nodeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	res, err := h.Progression.UnlockSkill(c.Request.Context(), userID, nodeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"message":       "Skill unlocked successfully",
		"skill_node_id": res.SkillNodeID,
		"sp_cost":       res.SPCost,
		"remaining_sp":  res.RemainingSP,
	})
}

func (h *Handler) Progress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.Progression.GetProgressSummary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
