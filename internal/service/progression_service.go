package service

import (
	"context"
	"errors"
	"time"

	"learnquest/internal/apperr"
	"learnquest/internal/domain"
	"learnquest/internal/logger"
	"learnquest/internal/metrics"
	"learnquest/internal/repository"
)

// streakCap bounds the placeholder streak policy: streak = min(completed, streakCap).
// No daily completion history exists yet.
const streakCap = 7

type LessonReward struct {
	LessonID         int64 `json:"lesson_id"`
	XPGained         int64 `json:"xp_gained"`
	SPGained         int64 `json:"sp_gained"`
	XP               int64 `json:"total_xp"`
	SP               int64 `json:"total_sp"`
	Level            int   `json:"level"`
	LeveledUp        bool  `json:"leveled_up"`
	AlreadyCompleted bool  `json:"already_completed"`
}

type UnlockResult struct {
	SkillNodeID int64 `json:"skill_node_id"`
	SPCost      int64 `json:"sp_cost"`
	RemainingSP int64 `json:"remaining_sp"`
}

type ProgressSummary struct {
	TotalLessons       int64 `json:"total_lessons"`
	CompletedLessons   int64 `json:"completed_lessons"`
	CurrentStreak      int64 `json:"current_streak"`
	TotalXP            int64 `json:"total_xp"`
	TotalSP            int64 `json:"total_sp"`
	Level              int   `json:"level"`
	ProgressPercentage int64 `json:"progress_percentage"`
}

type ProgressionService struct {
	tx       Transactor
	users    UserRepository
	catalog  CatalogRepository
	progress ProgressRepository
	skills   SkillRepository
	ledger   TransactionRepository
	audit    *AuditService
	now      func() time.Time
}

func NewProgressionService(
	tx Transactor,
	users UserRepository,
	catalog CatalogRepository,
	progress ProgressRepository,
	skills SkillRepository,
	ledger TransactionRepository,
	audit *AuditService,
) *ProgressionService {
	return &ProgressionService{
		tx:       tx,
		users:    users,
		catalog:  catalog,
		progress: progress,
		skills:   skills,
		ledger:   ledger,
		audit:    audit,
		now:      time.Now,
	}
}

func lockUser(ctx context.Context, users UserRepository, userID int64) (*domain.User, error) {
	u, err := users.GetByIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// CompleteLesson grants the lesson's rewards once per (user, lesson). Later calls
// succeed with zero gains and AlreadyCompleted set.
func (s *ProgressionService) CompleteLesson(ctx context.Context, userID, lessonID int64, score *int) (*LessonReward, error) {
	if score != nil && (*score < 0 || *score > 100) {
		return nil, ErrInvalidInput
	}

	lesson, err := s.catalog.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, apperr.Internal(err)
	}

	var reward *LessonReward
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := lockUser(ctx, s.users, userID)
		if err != nil {
			return err
		}

		reward = &LessonReward{LessonID: lesson.ID}

		created, err := s.progress.MarkCompleted(ctx, u.ID, lesson.ID, score, s.now())
		if err != nil {
			return apperr.Internal(err)
		}
		if !created {
			reward.AlreadyCompleted = true
			reward.XP, reward.SP, reward.Level = u.XP, u.SP, u.Level
			return nil
		}

		reward.LeveledUp = u.AddXP(lesson.XPReward)
		u.SP += lesson.SPReward
		u.AddCompletedLesson(lesson.ID)

		if err := s.users.UpdateProgression(ctx, u); err != nil {
			return apperr.Internal(err)
		}
		if lesson.SPReward > 0 {
			if err := s.ledger.Create(ctx, &domain.Transaction{
				UserID: u.ID,
				Type:   domain.TxTypeLessonReward,
				Amount: lesson.SPReward,
				Meta:   map[string]interface{}{"lesson_id": lesson.ID, "xp": lesson.XPReward},
			}); err != nil {
				return apperr.Internal(err)
			}
		}

		reward.XPGained = lesson.XPReward
		reward.SPGained = lesson.SPReward
		reward.XP, reward.SP, reward.Level = u.XP, u.SP, u.Level
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !reward.AlreadyCompleted {
		metrics.RecordLessonCompleted(reward.SPGained)
		logger.WithContext(ctx).Infow("lesson completed",
			"user_id", userID, "lesson_id", lessonID, "xp_gained", reward.XPGained, "level", reward.Level)
	}
	return reward, nil
}

// UnlockSkill checks, in order: node exists, not already unlocked, enough SP, prerequisites unlocked.
func (s *ProgressionService) UnlockSkill(ctx context.Context, userID, nodeID int64) (*UnlockResult, error) {
	node, err := s.skills.GetNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSkillNodeNotFound
		}
		return nil, apperr.Internal(err)
	}

	var result *UnlockResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := lockUser(ctx, s.users, userID)
		if err != nil {
			return err
		}

		if u.HasUnlockedSkill(node.ID) {
			return ErrAlreadyUnlocked
		}
		if u.SP < node.SPCost {
			return ErrInsufficientSkillPoints
		}
		for _, prereq := range node.Prerequisites {
			if !u.HasUnlockedSkill(prereq) {
				return ErrPrerequisitesNotMet
			}
		}

		if err := s.skills.CreateUnlock(ctx, u.ID, node.ID, s.now()); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyUnlocked
			}
			return apperr.Internal(err)
		}

		u.SP -= node.SPCost
		u.AddUnlockedSkill(node.ID)
		if err := s.users.UpdateProgression(ctx, u); err != nil {
			return apperr.Internal(err)
		}
		if node.SPCost > 0 {
			if err := s.ledger.Create(ctx, &domain.Transaction{
				UserID: u.ID,
				Type:   domain.TxTypeSkillUnlock,
				Amount: -node.SPCost,
				Meta:   map[string]interface{}{"skill_node_id": node.ID},
			}); err != nil {
				return apperr.Internal(err)
			}
		}

		result = &UnlockResult{SkillNodeID: node.ID, SPCost: node.SPCost, RemainingSP: u.SP}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogSkillUnlock(ctx, userID, node.ID, node.SPCost)
	metrics.RecordSkillUnlocked(node.SPCost)
	return result, nil
}

func (s *ProgressionService) GetProgressSummary(ctx context.Context, userID int64) (*ProgressSummary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(err)
	}
	total, err := s.catalog.CountLessons(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	completed := int64(len(u.CompletedLessons))
	summary := &ProgressSummary{
		TotalLessons:     total,
		CompletedLessons: completed,
		CurrentStreak:    min(completed, streakCap),
		TotalXP:          u.XP,
		TotalSP:          u.SP,
		Level:            u.Level,
	}
	if total > 0 {
		summary.ProgressPercentage = min(completed*100/total, 100)
	}
	return summary, nil
}

// Ledger returns the user's most recent SP movements.
func (s *ProgressionService) Ledger(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	switch {
	case limit <= 0:
		limit = 50
	case limit > 100:
		limit = 100
	}
	txs, err := s.ledger.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return txs, nil
}
