package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/task"
)

type taskRepository struct {
	db *taskTable
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task}
}

func (repo *taskRepository) query(projectID string) []task.Task {
	tasks := make([]task.Task, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		if t.ProjectID == projectID {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks
}

func (repo *taskRepository) CreateTask(_ context.Context, tsk task.Task, _ ...core.DBExecutor) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk.ID = uuid.New().String()
	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) GetTask(_ context.Context, projectID, id string, _ ...core.DBExecutor) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tsk, ok := repo.db.table[id]; ok && tsk.ProjectID == projectID {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryTasks(_ context.Context, projectID string, filter *task.QueryFilter, _ []core.DBOrdering, _ ...core.DBExecutor) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := repo.query(projectID)
	if filter == nil {
		return tasks, nil
	}

	var filtered []task.Task
	for _, t := range tasks {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(t.Title), search) &&
				!strings.Contains(strings.ToLower(t.Description), search) {
				continue
			}
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if !filter.DueFrom.IsZero() && t.DueDate.Before(filter.DueFrom) {
			continue
		}
		if !filter.DueTo.IsZero() && t.DueDate.After(filter.DueTo) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

func (repo *taskRepository) UpdateTask(_ context.Context, tsk task.Task, _ ...core.DBExecutor) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[tsk.ID]
	if !ok || orig.ProjectID != tsk.ProjectID {
		return task.Task{}, task.ErrNotFound
	}
	tsk.CreatedAt = orig.CreatedAt
	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) DeleteTasksByID(_ context.Context, projectID string, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if tsk, ok := repo.db.table[id]; ok && tsk.ProjectID == projectID {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}
