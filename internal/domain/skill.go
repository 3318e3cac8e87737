package domain

import "time"

type NodeType string

const (
	NodeTypePassive NodeType = "passive"
	NodeTypeActive  NodeType = "active"
)

type SkillTree struct {
	ID          int64        `db:"id" json:"id"`
	PathID      int64        `db:"path_id" json:"path_id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Nodes       []*SkillNode `json:"nodes"`
}

// SkillNode is a vertex of the skill tree DAG. Prerequisites hold node IDs of the same tree.
type SkillNode struct {
	ID            int64    `db:"id" json:"id"`
	SkillTreeID   int64    `db:"skill_tree_id" json:"skill_tree_id"`
	Title         string   `db:"title" json:"title"`
	Description   string   `db:"description" json:"description"`
	NodeType      NodeType `db:"node_type" json:"node_type"`
	SPCost        int64    `db:"sp_cost" json:"sp_cost"`
	Prerequisites []int64  `db:"prerequisites" json:"prerequisites"`
	PositionX     float64  `db:"position_x" json:"position_x"`
	PositionY     float64  `db:"position_y" json:"position_y"`
}

type UserSkillUnlock struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	SkillNodeID int64     `db:"skill_node_id" json:"skill_node_id"`
	UnlockedAt  time.Time `db:"unlocked_at" json:"unlocked_at"`
}
