package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/project"
)

type projectRepository struct {
	db *projectTable
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *DB) project.Repository {
	return &projectRepository{db: db.project}
}

func (repo *projectRepository) query() []project.Project {
	prjs := make([]project.Project, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		prjs = append(prjs, *p)
	}
	sort.Slice(prjs, func(i, j int) bool { return prjs[i].CreatedAt.After(prjs[j].CreatedAt) })
	return prjs
}

func (repo *projectRepository) CreateProject(_ context.Context, prj project.Project, _ ...core.DBExecutor) (project.Project, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	prj.ID = uuid.New().String()
	repo.db.table[prj.ID] = &prj
	return prj, nil
}

func (repo *projectRepository) GetProject(_ context.Context, id string, _ ...core.DBExecutor) (project.Project, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prj, ok := repo.db.table[id]; ok {
		return *prj, nil
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *projectRepository) QueryProjects(_ context.Context, filter *project.QueryFilter, _ []core.DBOrdering, _ ...core.DBExecutor) ([]project.Project, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	prjs := repo.query()
	if filter == nil {
		return prjs, nil
	}

	var filtered []project.Project
	for _, p := range prjs {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Address), search) {
				continue
			}
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ClientCompanyID != "" && p.ClientCompanyID != filter.ClientCompanyID {
			continue
		}
		if !filter.StartedFrom.IsZero() && p.StartDate.Before(filter.StartedFrom) {
			continue
		}
		if !filter.StartedTo.IsZero() && p.StartDate.After(filter.StartedTo) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func (repo *projectRepository) UpdateProject(_ context.Context, prj project.Project, _ ...core.DBExecutor) (project.Project, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[prj.ID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	prj.CreatedAt = orig.CreatedAt
	repo.db.table[prj.ID] = &prj
	return prj, nil
}

func (repo *projectRepository) DeleteProjectsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
