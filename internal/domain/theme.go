package domain

import "time"

// Theme - косметическая тема из магазина
type Theme struct {
	ID          int64     `db:"id" json:"-"`
	ThemeID     string    `db:"theme_id" json:"theme_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	PreviewIcon string    `db:"preview_icon" json:"preview_icon"`
	SPCost      int64     `db:"sp_cost" json:"sp_cost"`
	IsActive    bool      `db:"is_active" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

type UserThemePurchase struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	ThemeID     string    `db:"theme_id" json:"theme_id"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
}
