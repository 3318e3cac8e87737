package domain

import (
	"slices"
	"time"
)

const (
	DefaultTheme = "default"

	XPPerLevel = 1000
	MaxLevel   = 100
)

type User struct {
	ID               int64     `db:"id" json:"id"`
	Username         string    `db:"username" json:"username"`
	Email            string    `db:"email" json:"email"`
	PasswordHash     string    `db:"password_hash" json:"-"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	IsActive         bool      `db:"is_active" json:"-"`
	XP               int64     `db:"xp" json:"xp"`
	SP               int64     `db:"sp" json:"sp"`
	Level            int       `db:"level" json:"level"`
	CompletedLessons []int64   `db:"completed_lessons" json:"completed_lessons"`
	UnlockedSkills   []int64   `db:"unlocked_skills" json:"unlocked_skills"`
	PurchasedThemes  []string  `db:"purchased_themes" json:"purchased_themes"`
	ActiveTheme      string    `db:"active_theme" json:"active_theme"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser returns an active account with zero balances and the default theme.
func NewUser(username, email, passwordHash, firstName, lastName string) *User {
	return &User{
		Username:         username,
		Email:            email,
		PasswordHash:     passwordHash,
		FirstName:        firstName,
		LastName:         lastName,
		IsActive:         true,
		Level:            LevelForXP(0),
		CompletedLessons: []int64{},
		UnlockedSkills:   []int64{},
		PurchasedThemes:  []string{DefaultTheme},
		ActiveTheme:      DefaultTheme,
	}
}

// LevelForXP returns min(100, floor(xp/1000)+1).
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	level := xp/XPPerLevel + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return int(level)
}

// AddXP credits xp and recomputes the level. It reports whether the level changed.
func (u *User) AddXP(amount int64) bool {
	if amount < 0 {
		amount = 0
	}
	before := u.Level
	u.XP += amount
	u.Level = LevelForXP(u.XP)
	return u.Level != before
}

func (u *User) HasCompletedLesson(lessonID int64) bool {
	return slices.Contains(u.CompletedLessons, lessonID)
}

// AddCompletedLesson appends lessonID unless it is already present.
func (u *User) AddCompletedLesson(lessonID int64) bool {
	if u.HasCompletedLesson(lessonID) {
		return false
	}
	u.CompletedLessons = append(u.CompletedLessons, lessonID)
	return true
}

func (u *User) HasUnlockedSkill(nodeID int64) bool {
	return slices.Contains(u.UnlockedSkills, nodeID)
}

func (u *User) AddUnlockedSkill(nodeID int64) bool {
	if u.HasUnlockedSkill(nodeID) {
		return false
	}
	u.UnlockedSkills = append(u.UnlockedSkills, nodeID)
	return true
}

// OwnsTheme treats the default theme as always owned.
func (u *User) OwnsTheme(themeID string) bool {
	return themeID == DefaultTheme || slices.Contains(u.PurchasedThemes, themeID)
}

func (u *User) AddPurchasedTheme(themeID string) bool {
	if slices.Contains(u.PurchasedThemes, themeID) {
		return false
	}
	u.PurchasedThemes = append(u.PurchasedThemes, themeID)
	return true
}
