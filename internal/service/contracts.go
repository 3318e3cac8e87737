package service

import (
	"context"
	"time"

	"learnquest/internal/domain"
)

// Transactor runs fn in one database transaction carried by ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateProgression(ctx context.Context, u *domain.User) error
	UpdateProfile(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type CatalogRepository interface {
	ListActivePaths(ctx context.Context) ([]*domain.LearningPath, error)
	GetPath(ctx context.Context, id int64) (*domain.LearningPath, error)
	ListModules(ctx context.Context, pathID int64) ([]*domain.Module, error)
	ListLessons(ctx context.Context, pathID int64) ([]*domain.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*domain.Lesson, error)
	CountLessons(ctx context.Context) (int64, error)
}

type ProgressRepository interface {
	MarkCompleted(ctx context.Context, userID, lessonID int64, score *int, at time.Time) (bool, error)
}

type SkillRepository interface {
	GetNode(ctx context.Context, id int64) (*domain.SkillNode, error)
	GetTreeByPath(ctx context.Context, pathID int64) (*domain.SkillTree, error)
	CreateUnlock(ctx context.Context, userID, nodeID int64, at time.Time) error
}

type ThemeRepository interface {
	ListActive(ctx context.Context) ([]*domain.Theme, error)
	GetActive(ctx context.Context, themeID string) (*domain.Theme, error)
	CreatePurchase(ctx context.Context, userID int64, themeID string, at time.Time) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.AuditLog, error)
}

type PasswordResetRepository interface {
	Create(ctx context.Context, p *domain.PasswordReset) error
	GetByHashForUpdate(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, id int64, at time.Time) error
}
