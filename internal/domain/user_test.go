package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{5500, 6},
		{98999, 99},
		{99000, 100},
		{999999, 100},
		{-10, 1},
	}

	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d) = %d; want %d", tc.xp, got, tc.want)
		}
	}
}

func TestAddXPRecomputesLevel(t *testing.T) {
	u := NewUser("alice", "alice@example.com", "hash", "", "")
	assert.Equal(t, 1, u.Level)

	assert.False(t, u.AddXP(999))
	assert.Equal(t, 1, u.Level)

	assert.True(t, u.AddXP(1))
	assert.Equal(t, int64(1000), u.XP)
	assert.Equal(t, 2, u.Level)
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("bob", "bob@example.com", "hash", "Bob", "B")

	assert.True(t, u.IsActive)
	assert.Zero(t, u.XP)
	assert.Zero(t, u.SP)
	assert.Equal(t, []string{DefaultTheme}, u.PurchasedThemes)
	assert.Equal(t, DefaultTheme, u.ActiveTheme)
	assert.True(t, u.OwnsTheme(DefaultTheme))
}

func TestSetsAreAppendOnlyWithoutDuplicates(t *testing.T) {
	u := NewUser("carol", "carol@example.com", "hash", "", "")

	assert.True(t, u.AddCompletedLesson(7))
	assert.False(t, u.AddCompletedLesson(7))
	assert.Equal(t, []int64{7}, u.CompletedLessons)

	assert.True(t, u.AddUnlockedSkill(3))
	assert.False(t, u.AddUnlockedSkill(3))
	assert.Equal(t, []int64{3}, u.UnlockedSkills)

	assert.False(t, u.AddPurchasedTheme(DefaultTheme))
	assert.True(t, u.AddPurchasedTheme("dark"))
	assert.Equal(t, []string{DefaultTheme, "dark"}, u.PurchasedThemes)
}
