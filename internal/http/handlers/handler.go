package handlers

import (
	"context"
	"strconv"

	"learnquest/internal/domain"
	"learnquest/internal/http/middleware"
	"learnquest/internal/http/response"
	"learnquest/internal/planner"
	"learnquest/internal/service"

	"github.com/gin-gonic/gin"
)

type Accounts interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, username, password string) (*service.AuthResult, error)
	Logout(ctx context.Context, userID int64)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (string, bool, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, patch service.ProfilePatch) (*domain.User, error)
}

type Tokens interface {
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, bool)
}

type Progression interface {
	CompleteLesson(ctx context.Context, userID, lessonID int64, score *int) (*service.LessonReward, error)
	UnlockSkill(ctx context.Context, userID, nodeID int64) (*service.UnlockResult, error)
	GetProgressSummary(ctx context.Context, userID int64) (*service.ProgressSummary, error)
	Ledger(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)
}

type Shop interface {
	ListThemes(ctx context.Context, userID int64) (*service.ThemeCatalog, error)
	Purchase(ctx context.Context, userID int64, themeID string) (*service.PurchaseResult, error)
	Activate(ctx context.Context, userID int64, themeID string) (string, error)
}

type Catalog interface {
	ListPaths(ctx context.Context) ([]*domain.LearningPath, error)
	GetPath(ctx context.Context, pathID int64) (*service.PathDetail, error)
	GetSkillTree(ctx context.Context, pathID, userID int64) (*service.SkillTreeView, error)
}

type Planner interface {
	GeneratePlan(ctx context.Context, req planner.Request) (*planner.Plan, string)
}

type Activity interface {
	GetUserAuditLogs(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error)
}

type Handler struct {
	Accounts    Accounts
	Tokens      Tokens
	Progression Progression
	Shop        Shop
	Catalog     Catalog
	Planner     Planner
	Activity    Activity

	// DevMode echoes password reset tokens in the response instead of mailing them.
	DevMode bool
}

func requireUserID(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c)
	}
	return id, ok
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context, def int) int {
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
