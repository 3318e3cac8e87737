package domain

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type LessonType string

const (
	LessonTypeLesson  LessonType = "lesson"
	LessonTypeQuiz    LessonType = "quiz"
	LessonTypeProject LessonType = "project"
)

// LearningPath - курс, набор модулей
type LearningPath struct {
	ID                int64      `db:"id" json:"id"`
	Title             string     `db:"title" json:"title"`
	Description       string     `db:"description" json:"description"`
	Category          string     `db:"category" json:"category"`
	DifficultyLevel   Difficulty `db:"difficulty_level" json:"difficulty_level"`
	EstimatedDuration string     `db:"estimated_duration" json:"estimated_duration"`
	IsActive          bool       `db:"is_active" json:"is_active"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

type Module struct {
	ID          int64  `db:"id" json:"id"`
	PathID      int64  `db:"path_id" json:"path_id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Order       int    `db:"sort_order" json:"order"`
}

// Lesson rewards are fixed when the lesson is authored.
type Lesson struct {
	ID            int64      `db:"id" json:"id"`
	ModuleID      int64      `db:"module_id" json:"module_id"`
	Title         string     `db:"title" json:"title"`
	Content       string     `db:"content" json:"content"`
	LessonType    LessonType `db:"lesson_type" json:"lesson_type"`
	XPReward      int64      `db:"xp_reward" json:"xp_reward"`
	SPReward      int64      `db:"sp_reward" json:"sp_reward"`
	Order         int        `db:"sort_order" json:"order"`
	EstimatedTime int        `db:"estimated_time" json:"estimated_time"` // minutes
}

// UserProgress - прохождение урока, одна запись на пару (user, lesson)
type UserProgress struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	LessonID    int64      `db:"lesson_id" json:"lesson_id"`
	Completed   bool       `db:"completed" json:"completed"`
	Score       *int       `db:"score" json:"score,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
