package repository

import (
	"context"
	"time"

	"learnquest/internal/db"
	"learnquest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ThemeRepository struct {
	db *pgxpool.Pool
}

func NewThemeRepository(pool *pgxpool.Pool) *ThemeRepository {
	return &ThemeRepository{db: pool}
}

const themeColumns = `id, theme_id, title, description, preview_icon, sp_cost, is_active, created_at`

func scanTheme(row interface{ Scan(dest ...any) error }) (*domain.Theme, error) {
	var t domain.Theme
	if err := row.Scan(&t.ID, &t.ThemeID, &t.Title, &t.Description, &t.PreviewIcon,
		&t.SPCost, &t.IsActive, &t.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return &t, nil
}

// ListActive returns purchasable themes, cheapest first
func (r *ThemeRepository) ListActive(ctx context.Context) ([]*domain.Theme, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx,
		`SELECT `+themeColumns+` FROM themes WHERE is_active = TRUE ORDER BY sp_cost, theme_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	themes := make([]*domain.Theme, 0)
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// GetActive looks a theme up by its public identifier. Inactive themes are not found.
func (r *ThemeRepository) GetActive(ctx context.Context, themeID string) (*domain.Theme, error) {
	return scanTheme(db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+themeColumns+` FROM themes WHERE theme_id = $1 AND is_active = TRUE`, themeID))
}

func (r *ThemeRepository) CreatePurchase(ctx context.Context, userID int64, themeID string, at time.Time) error {
	_, err := db.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO user_theme_purchases (user_id, theme_id, purchased_at) VALUES ($1, $2, $3)`,
		userID, themeID, at)
	if _, ok := uniqueConstraint(err); ok {
		return ErrDuplicate
	}
	return err
}

// Upsert is used by the catalog seeder.
func (r *ThemeRepository) Upsert(ctx context.Context, t *domain.Theme) error {
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO themes (theme_id, title, description, preview_icon, sp_cost, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (theme_id) DO UPDATE
		 SET title = EXCLUDED.title, description = EXCLUDED.description,
		     preview_icon = EXCLUDED.preview_icon, sp_cost = EXCLUDED.sp_cost, is_active = EXCLUDED.is_active
		 RETURNING id, created_at`,
		t.ThemeID, t.Title, t.Description, t.PreviewIcon, t.SPCost, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt)
}
