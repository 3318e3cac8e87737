package repository

import (
	"context"
	"time"

	"learnquest/internal/db"
	"learnquest/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SkillRepository struct {
	db *pgxpool.Pool
}

func NewSkillRepository(pool *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{db: pool}
}

const skillNodeColumns = `id, skill_tree_id, title, description, node_type, sp_cost, prerequisites, position_x, position_y`

func scanSkillNode(row interface{ Scan(dest ...any) error }) (*domain.SkillNode, error) {
	var n domain.SkillNode
	if err := row.Scan(&n.ID, &n.SkillTreeID, &n.Title, &n.Description, &n.NodeType,
		&n.SPCost, &n.Prerequisites, &n.PositionX, &n.PositionY); err != nil {
		return nil, mapNoRows(err)
	}
	return &n, nil
}

func (r *SkillRepository) GetNode(ctx context.Context, id int64) (*domain.SkillNode, error) {
	return scanSkillNode(db.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT `+skillNodeColumns+` FROM skill_nodes WHERE id = $1`, id))
}

// GetTreeByPath loads the tree of a learning path with its nodes.
func (r *SkillRepository) GetTreeByPath(ctx context.Context, pathID int64) (*domain.SkillTree, error) {
	conn := db.Conn(ctx, r.db)

	var t domain.SkillTree
	err := conn.QueryRow(ctx,
		`SELECT id, path_id, title, description FROM skill_trees WHERE path_id = $1`, pathID,
	).Scan(&t.ID, &t.PathID, &t.Title, &t.Description)
	if err != nil {
		return nil, mapNoRows(err)
	}

	rows, err := conn.Query(ctx,
		`SELECT `+skillNodeColumns+` FROM skill_nodes WHERE skill_tree_id = $1 ORDER BY id`, t.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t.Nodes = make([]*domain.SkillNode, 0)
	for rows.Next() {
		n, err := scanSkillNode(rows)
		if err != nil {
			return nil, err
		}
		t.Nodes = append(t.Nodes, n)
	}
	return &t, rows.Err()
}

// CreateUnlock records an unlock. A second unlock of the same node returns ErrDuplicate.
func (r *SkillRepository) CreateUnlock(ctx context.Context, userID, nodeID int64, at time.Time) error {
	_, err := db.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO user_skill_unlocks (user_id, skill_node_id, unlocked_at) VALUES ($1, $2, $3)`,
		userID, nodeID, at)
	if _, ok := uniqueConstraint(err); ok {
		return ErrDuplicate
	}
	return err
}

func (r *SkillRepository) CreateTree(ctx context.Context, t *domain.SkillTree) error {
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO skill_trees (path_id, title, description) VALUES ($1, $2, $3) RETURNING id`,
		t.PathID, t.Title, t.Description,
	).Scan(&t.ID)
}

// CreateNode expects prerequisites to reference nodes already in the same tree.
func (r *SkillRepository) CreateNode(ctx context.Context, n *domain.SkillNode) error {
	if n.Prerequisites == nil {
		n.Prerequisites = []int64{}
	}
	return db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO skill_nodes (skill_tree_id, title, description, node_type, sp_cost, prerequisites, position_x, position_y)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		n.SkillTreeID, n.Title, n.Description, n.NodeType, n.SPCost, n.Prerequisites, n.PositionX, n.PositionY,
	).Scan(&n.ID)
}
