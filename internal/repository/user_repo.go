package repository

import (
	"context"
	"fmt"

	"learnquest/internal/db"
	"learnquest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, is_active,
	xp, sp, level, completed_lessons, unlocked_skills, purchased_themes, active_theme,
	created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.XP,
		&u.SP,
		&u.Level,
		&u.CompletedLessons,
		&u.UnlockedSkills,
		&u.PurchasedThemes,
		&u.ActiveTheme,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

// Create inserts u and fills ID and timestamps. Unique violations map to ErrDuplicateUsername/ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, is_active,
		                    xp, sp, level, completed_lessons, unlocked_skills, purchased_themes, active_theme)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.IsActive,
		u.XP, u.SP, u.Level, u.CompletedLessons, u.UnlockedSkills, u.PurchasedThemes, u.ActiveTheme,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if constraint, ok := uniqueConstraint(err); ok {
		switch constraint {
		case "users_username_key":
			return ErrDuplicateUsername
		case "users_email_key":
			return ErrDuplicateEmail
		}
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// EmailExists ignores the row of excludeID (0 checks every account).
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, excludeID).Scan(&exists)
	return exists, err
}

// UpdateProgression writes the balances, derived level and the append-only sets.
func (r *UserRepository) UpdateProgression(ctx context.Context, u *domain.User) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users
		 SET xp = $1, sp = $2, level = $3, completed_lessons = $4, unlocked_skills = $5,
		     purchased_themes = $6, active_theme = $7, updated_at = NOW()
		 WHERE id = $8`,
		u.XP, u.SP, domain.LevelForXP(u.XP), u.CompletedLessons, u.UnlockedSkills,
		u.PurchasedThemes, u.ActiveTheme, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update progression: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users
		 SET first_name = $1, last_name = $2, email = $3, active_theme = $4, updated_at = NOW()
		 WHERE id = $5`,
		u.FirstName, u.LastName, u.Email, u.ActiveTheme, u.ID,
	)
	if constraint, ok := uniqueConstraint(err); ok && constraint == "users_email_key" {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
