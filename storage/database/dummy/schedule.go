package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) queryItems(projectID string) []schedule.Item {
	items := make([]schedule.Item, 0, len(repo.db.items))
	for _, itm := range repo.db.items {
		if itm.ProjectID == projectID {
			items = append(items, *itm)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (repo *scheduleRepository) CreateItem(_ context.Context, itm schedule.Item, _ ...core.DBExecutor) (schedule.Item, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	itm.ID = uuid.New().String()
	repo.db.items[itm.ID] = &itm
	return itm, nil
}

func (repo *scheduleRepository) GetItem(_ context.Context, projectID, id string, _ ...core.DBExecutor) (schedule.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if itm, ok := repo.db.items[id]; ok && itm.ProjectID == projectID {
		return *itm, nil
	}
	return schedule.Item{}, schedule.ErrItemNotFound
}

func (repo *scheduleRepository) QueryItems(_ context.Context, projectID string, filter *schedule.ItemFilter, _ []core.DBOrdering, _ ...core.DBExecutor) ([]schedule.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	items := repo.queryItems(projectID)
	if filter == nil {
		return items, nil
	}

	var filtered []schedule.Item
	for _, itm := range items {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(itm.Name), search) &&
				!strings.Contains(strings.ToLower(itm.Notes), search) {
				continue
			}
		}
		if filter.Kind != "" && itm.Kind != filter.Kind {
			continue
		}
		if filter.Trade != "" && itm.Trade != filter.Trade {
			continue
		}
		if filter.Status != "" && itm.Status != filter.Status {
			continue
		}
		if filter.AssigneeID != "" && itm.AssigneeCompanyID != filter.AssigneeID {
			continue
		}
		if filter.CriticalOnly != nil && itm.IsCritical != *filter.CriticalOnly {
			continue
		}
		filtered = append(filtered, itm)
	}
	return filtered, nil
}

func (repo *scheduleRepository) UpdateItem(_ context.Context, itm schedule.Item, _ ...core.DBExecutor) (schedule.Item, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.items[itm.ID]
	if !ok || orig.ProjectID != itm.ProjectID {
		return schedule.Item{}, schedule.ErrItemNotFound
	}
	// derived fields are only written through SaveComputed
	itm.EarlyStart = orig.EarlyStart
	itm.EarlyFinish = orig.EarlyFinish
	itm.LateStart = orig.LateStart
	itm.LateFinish = orig.LateFinish
	itm.FloatDays = orig.FloatDays
	itm.IsCritical = orig.IsCritical
	itm.CreatedAt = orig.CreatedAt
	repo.db.items[itm.ID] = &itm
	return itm, nil
}

func (repo *scheduleRepository) DeleteItemsByID(_ context.Context, projectID string, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if itm, ok := repo.db.items[id]; ok && itm.ProjectID == projectID {
			delete(repo.db.items, id)
			cnt++
			// cascade
			for depID, dep := range repo.db.deps {
				if dep.PredecessorID == id || dep.SuccessorID == id {
					delete(repo.db.deps, depID)
				}
			}
		}
	}
	return cnt, nil
}

func (repo *scheduleRepository) SaveComputed(_ context.Context, items []schedule.Item, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, itm := range items {
		orig, ok := repo.db.items[itm.ID]
		if !ok {
			continue
		}
		orig.EarlyStart = itm.EarlyStart
		orig.EarlyFinish = itm.EarlyFinish
		orig.LateStart = itm.LateStart
		orig.LateFinish = itm.LateFinish
		orig.FloatDays = itm.FloatDays
		orig.IsCritical = itm.IsCritical
	}
	return nil
}

func (repo *scheduleRepository) CreateDependency(_ context.Context, dep schedule.Dependency, _ ...core.DBExecutor) (schedule.Dependency, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	dep.ID = uuid.New().String()
	repo.db.deps[dep.ID] = &dep
	return dep, nil
}

func (repo *scheduleRepository) QueryDependencies(_ context.Context, projectID string, _ ...core.DBExecutor) ([]schedule.Dependency, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	deps := make([]schedule.Dependency, 0, len(repo.db.deps))
	for _, dep := range repo.db.deps {
		if dep.ProjectID == projectID {
			deps = append(deps, *dep)
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].CreatedAt.Before(deps[j].CreatedAt) })
	return deps, nil
}

func (repo *scheduleRepository) DeleteDependenciesByID(_ context.Context, projectID string, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if dep, ok := repo.db.deps[id]; ok && dep.ProjectID == projectID {
			delete(repo.db.deps, id)
			cnt++
		}
	}
	return cnt, nil
}
