package main

import (
	"context"
	"os"

	"learnquest/internal/db"
	"learnquest/internal/domain"
	"learnquest/internal/logger"
	"learnquest/internal/repository"

	"github.com/joho/godotenv"
)

var themes = []*domain.Theme{
	{ThemeID: domain.DefaultTheme, Title: "Default", Description: "The classic light look", PreviewIcon: "☀️", SPCost: 0, IsActive: true},
	{ThemeID: "dark", Title: "Dark Mode", Description: "Easy on the eyes for late night study", PreviewIcon: "🌙", SPCost: 100, IsActive: true},
	{ThemeID: "cyberpunk", Title: "Cyberpunk", Description: "Neon colors for the future hacker", PreviewIcon: "🌆", SPCost: 150, IsActive: true},
}

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)
	defer logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer pool.Close()

	themeRepo := repository.NewThemeRepository(pool)
	catalog := repository.NewCatalogRepository(pool)
	skills := repository.NewSkillRepository(pool)

	err = db.NewTransactor(pool).WithinTx(ctx, func(ctx context.Context) error {
		for _, t := range themes {
			if err := themeRepo.Upsert(ctx, t); err != nil {
				return err
			}
		}
		logger.Info("themes seeded", "count", len(themes))

		existing, err := catalog.ListActivePaths(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Info("catalog already seeded, skipping paths", "paths", len(existing))
			return nil
		}
		return seedPythonPath(ctx, catalog, skills)
	})
	if err != nil {
		logger.Fatal("seed failed", "error", err)
	}
}

func seedPythonPath(ctx context.Context, catalog *repository.CatalogRepository, skills *repository.SkillRepository) error {
	path := &domain.LearningPath{
		Title:             "Python Fundamentals",
		Description:       "Learn Python from scratch",
		Category:          "programming",
		DifficultyLevel:   domain.DifficultyBeginner,
		EstimatedDuration: "4 weeks",
		IsActive:          true,
	}
	if err := catalog.CreatePath(ctx, path); err != nil {
		return err
	}

	mod := &domain.Module{PathID: path.ID, Title: "Getting Started", Description: "Syntax, variables and control flow", Order: 1}
	if err := catalog.CreateModule(ctx, mod); err != nil {
		return err
	}

	lessons := []*domain.Lesson{
		{Title: "Hello, Python", Content: "Install Python and run your first script.", LessonType: domain.LessonTypeLesson, XPReward: 50, SPReward: 10, EstimatedTime: 15},
		{Title: "Variables and Types", Content: "Numbers, strings and booleans.", LessonType: domain.LessonTypeLesson, XPReward: 50, SPReward: 10, EstimatedTime: 20},
		{Title: "Control Flow Quiz", Content: "Check your understanding of if and for.", LessonType: domain.LessonTypeQuiz, XPReward: 100, SPReward: 20, EstimatedTime: 10},
		{Title: "Number Guessing Game", Content: "Put it all together in a small project.", LessonType: domain.LessonTypeProject, XPReward: 200, SPReward: 40, EstimatedTime: 60},
	}
	for i, l := range lessons {
		l.ModuleID = mod.ID
		l.Order = i + 1
		if err := catalog.CreateLesson(ctx, l); err != nil {
			return err
		}
	}

	tree := &domain.SkillTree{PathID: path.ID, Title: "Python Skills", Description: "Unlock abilities as you learn"}
	if err := skills.CreateTree(ctx, tree); err != nil {
		return err
	}

	basics := &domain.SkillNode{SkillTreeID: tree.ID, Title: "Basics", NodeType: domain.NodeTypePassive, SPCost: 10, PositionX: 0, PositionY: 0}
	if err := skills.CreateNode(ctx, basics); err != nil {
		return err
	}
	functions := &domain.SkillNode{SkillTreeID: tree.ID, Title: "Functions", NodeType: domain.NodeTypeActive, SPCost: 15,
		Prerequisites: []int64{basics.ID}, PositionX: 1, PositionY: 0}
	if err := skills.CreateNode(ctx, functions); err != nil {
		return err
	}
	classes := &domain.SkillNode{SkillTreeID: tree.ID, Title: "Classes", NodeType: domain.NodeTypeActive, SPCost: 20,
		Prerequisites: []int64{basics.ID, functions.ID}, PositionX: 2, PositionY: 0}
	if err := skills.CreateNode(ctx, classes); err != nil {
		return err
	}

	logger.Info("catalog seeded", "path_id", path.ID, "lessons", len(lessons), "skill_nodes", 3)
	return nil
}
