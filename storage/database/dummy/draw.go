package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/draw"
)

type drawRepository struct {
	db *drawTable
}

var _ draw.Repository = (*drawRepository)(nil) // interface compliance check

func NewDrawRepository(db *DB) draw.Repository {
	return &drawRepository{db: db.draw}
}

func (repo *drawRepository) CreateDraw(_ context.Context, drw draw.Draw, _ ...core.DBExecutor) (draw.Draw, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	drw.ID = uuid.New().String()
	repo.db.table[drw.ID] = &drw
	return drw, nil
}

func (repo *drawRepository) GetDraw(_ context.Context, projectID, id string, _ ...core.DBExecutor) (draw.Draw, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if drw, ok := repo.db.table[id]; ok && drw.ProjectID == projectID {
		return *drw, nil
	}
	return draw.Draw{}, draw.ErrNotFound
}

func (repo *drawRepository) QueryDraws(_ context.Context, projectID string, _ ...core.DBExecutor) ([]draw.Draw, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	draws := make([]draw.Draw, 0, len(repo.db.table))
	for _, drw := range repo.db.table {
		if drw.ProjectID == projectID {
			draws = append(draws, *drw)
		}
	}
	sort.Slice(draws, func(i, j int) bool {
		if draws[i].SortOrder != draws[j].SortOrder {
			return draws[i].SortOrder < draws[j].SortOrder
		}
		return draws[i].CreatedAt.Before(draws[j].CreatedAt)
	})
	return draws, nil
}

func (repo *drawRepository) UpdateDraw(_ context.Context, drw draw.Draw, _ ...core.DBExecutor) (draw.Draw, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[drw.ID]
	if !ok || orig.ProjectID != drw.ProjectID {
		return draw.Draw{}, draw.ErrNotFound
	}
	drw.CreatedAt = orig.CreatedAt
	repo.db.table[drw.ID] = &drw
	return drw, nil
}

func (repo *drawRepository) DeleteDrawsByID(_ context.Context, projectID string, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if drw, ok := repo.db.table[id]; ok && drw.ProjectID == projectID {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
