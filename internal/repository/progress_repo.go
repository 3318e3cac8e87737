package repository

import (
	"context"
	"time"

	"learnquest/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgressRepository struct {
	db *pgxpool.Pool
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: pool}
}

// MarkCompleted upserts the (user, lesson) record. It reports false when the
// lesson was already completed, leaving the stored record untouched.
func (r *ProgressRepository) MarkCompleted(ctx context.Context, userID, lessonID int64, score *int, at time.Time) (bool, error) {
	var id int64
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO user_progress (user_id, lesson_id, completed, score, completed_at)
		 VALUES ($1, $2, TRUE, $3, $4)
		 ON CONFLICT ON CONSTRAINT user_progress_user_lesson_key DO UPDATE
		 SET completed = TRUE, score = EXCLUDED.score, completed_at = EXCLUDED.completed_at
		 WHERE user_progress.completed = FALSE
		 RETURNING id`,
		userID, lessonID, score, at,
	).Scan(&id)
	if err != nil {
		if mapNoRows(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
