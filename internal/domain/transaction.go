package domain

import "time"

// Transaction is one signed change of a user's SP balance.
type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// SP ledger transaction types
const (
	TxTypeLessonReward  = "lesson_reward"
	TxTypeSkillUnlock   = "skill_unlock"
	TxTypeThemePurchase = "theme_purchase"
)
