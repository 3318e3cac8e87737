package service

import (
	"context"
	"errors"

	"learnquest/internal/apperr"
	"learnquest/internal/domain"
	"learnquest/internal/repository"
)

type ModuleView struct {
	*domain.Module
	Lessons []*domain.Lesson `json:"lessons"`
}

type PathDetail struct {
	*domain.LearningPath
	Modules []ModuleView `json:"modules"`
}

type SkillNodeView struct {
	*domain.SkillNode
	Unlocked bool `json:"unlocked"`
}

type SkillTreeView struct {
	ID          int64           `json:"id"`
	PathID      int64           `json:"path_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Nodes       []SkillNodeView `json:"nodes"`
}

// CatalogService serves authored content. It never mutates state.
type CatalogService struct {
	catalog CatalogRepository
	skills  SkillRepository
	users   UserRepository
}

func NewCatalogService(catalog CatalogRepository, skills SkillRepository, users UserRepository) *CatalogService {
	return &CatalogService{catalog: catalog, skills: skills, users: users}
}

func (s *CatalogService) ListPaths(ctx context.Context) ([]*domain.LearningPath, error) {
	paths, err := s.catalog.ListActivePaths(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return paths, nil
}

// GetPath returns the path with its modules and their lessons in order.
func (s *CatalogService) GetPath(ctx context.Context, pathID int64) (*PathDetail, error) {
	path, err := s.catalog.GetPath(ctx, pathID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPathNotFound
		}
		return nil, apperr.Internal(err)
	}
	modules, err := s.catalog.ListModules(ctx, pathID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	lessons, err := s.catalog.ListLessons(ctx, pathID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byModule := make(map[int64][]*domain.Lesson, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}

	detail := &PathDetail{LearningPath: path, Modules: make([]ModuleView, 0, len(modules))}
	for _, m := range modules {
		ls := byModule[m.ID]
		if ls == nil {
			ls = []*domain.Lesson{}
		}
		detail.Modules = append(detail.Modules, ModuleView{Module: m, Lessons: ls})
	}
	return detail, nil
}

// GetSkillTree marks nodes unlocked for userID; 0 means anonymous, nothing unlocked.
func (s *CatalogService) GetSkillTree(ctx context.Context, pathID, userID int64) (*SkillTreeView, error) {
	tree, err := s.skills.GetTreeByPath(ctx, pathID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPathNotFound
		}
		return nil, apperr.Internal(err)
	}

	var u *domain.User
	if userID != 0 {
		u, err = s.users.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal(err)
		}
	}

	view := &SkillTreeView{
		ID:          tree.ID,
		PathID:      tree.PathID,
		Title:       tree.Title,
		Description: tree.Description,
		Nodes:       make([]SkillNodeView, 0, len(tree.Nodes)),
	}
	for _, n := range tree.Nodes {
		view.Nodes = append(view.Nodes, SkillNodeView{
			SkillNode: n,
			Unlocked:  u != nil && u.HasUnlockedSkill(n.ID),
		})
	}
	return view, nil
}
