package repository

import (
	"context"

	"learnquest/internal/db"
	"learnquest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository reads authored content: paths, modules and lessons.
type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: pool}
}

func (r *CatalogRepository) ListActivePaths(ctx context.Context) ([]*domain.LearningPath, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx,
		`SELECT id, title, description, category, difficulty_level, estimated_duration, is_active, created_at
		 FROM learning_paths
		 WHERE is_active = TRUE
		 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make([]*domain.LearningPath, 0)
	for rows.Next() {
		var p domain.LearningPath
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.DifficultyLevel,
			&p.EstimatedDuration, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		paths = append(paths, &p)
	}
	return paths, rows.Err()
}

func (r *CatalogRepository) GetPath(ctx context.Context, id int64) (*domain.LearningPath, error) {
	var p domain.LearningPath
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, title, description, category, difficulty_level, estimated_duration, is_active, created_at
		 FROM learning_paths
		 WHERE id = $1 AND is_active = TRUE`, id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.DifficultyLevel,
		&p.EstimatedDuration, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

func (r *CatalogRepository) ListModules(ctx context.Context, pathID int64) ([]*domain.Module, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx,
		`SELECT id, path_id, title, description, sort_order
		 FROM modules
		 WHERE path_id = $1
		 ORDER BY sort_order, id`, pathID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]*domain.Module, 0)
	for rows.Next() {
		var m domain.Module
		if err := rows.Scan(&m.ID, &m.PathID, &m.Title, &m.Description, &m.Order); err != nil {
			return nil, err
		}
		modules = append(modules, &m)
	}
	return modules, rows.Err()
}

// ListLessons returns the lessons of every module in the path, in module then lesson order.
func (r *CatalogRepository) ListLessons(ctx context.Context, pathID int64) ([]*domain.Lesson, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx,
		`SELECT l.id, l.module_id, l.title, l.content, l.lesson_type, l.xp_reward, l.sp_reward, l.sort_order, l.estimated_time
		 FROM lessons l
		 JOIN modules m ON m.id = l.module_id
		 WHERE m.path_id = $1
		 ORDER BY m.sort_order, m.id, l.sort_order, l.id`, pathID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := make([]*domain.Lesson, 0)
	for rows.Next() {
		var l domain.Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.LessonType,
			&l.XPReward, &l.SPReward, &l.Order, &l.EstimatedTime); err != nil {
			return nil, err
		}
		lessons = append(lessons, &l)
	}
	return lessons, rows.Err()
}

func (r *CatalogRepository) GetLesson(ctx context.Context, id int64) (*domain.Lesson, error) {
	var l domain.Lesson
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, module_id, title, content, lesson_type, xp_reward, sp_reward, sort_order, estimated_time
		 FROM lessons WHERE id = $1`, id,
	).Scan(&l.ID, &l.ModuleID, &l.Title, &l.Content, &l.LessonType,
		&l.XPReward, &l.SPReward, &l.Order, &l.EstimatedTime)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &l, nil
}

func (r *CatalogRepository) CountLessons(ctx context.Context) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&n)
	return n, err
}

// CreatePath, CreateModule and CreateLesson are used by the catalog seeder.
func (r *CatalogRepository) CreatePath(ctx context.Context, p *domain.LearningPath) error {
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO learning_paths (title, description, category, difficulty_level, estimated_duration, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.Title, p.Description, p.Category, p.DifficultyLevel, p.EstimatedDuration, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *CatalogRepository) CreateModule(ctx context.Context, m *domain.Module) error {
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO modules (path_id, title, description, sort_order) VALUES ($1, $2, $3, $4) RETURNING id`,
		m.PathID, m.Title, m.Description, m.Order,
	).Scan(&m.ID)
}

func (r *CatalogRepository) CreateLesson(ctx context.Context, l *domain.Lesson) error {
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO lessons (module_id, title, content, lesson_type, xp_reward, sp_reward, sort_order, estimated_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		l.ModuleID, l.Title, l.Content, l.LessonType, l.XPReward, l.SPReward, l.Order, l.EstimatedTime,
	).Scan(&l.ID)
}
