package repository

import (
	"context"
	"time"

	"learnquest/internal/db"
	"learnquest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PasswordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(pool *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: pool}
}

func (r *PasswordResetRepository) Create(ctx context.Context, p *domain.PasswordReset) error {
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO password_resets (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		p.UserID, p.TokenHash, p.ExpiresAt,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByHashForUpdate locks the reset row so a token is consumed at most once.
func (r *PasswordResetRepository) GetByHashForUpdate(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, used_at, created_at
		 FROM password_resets
		 WHERE token_hash = $1
		 FOR UPDATE`, tokenHash,
	).Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &p.UsedAt, &p.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64, at time.Time) error {
	_, err := db.Conn(ctx, r.db).Exec(ctx,
		`UPDATE password_resets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`, at, id)
	return err
}
