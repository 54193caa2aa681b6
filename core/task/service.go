package task

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
)

var ErrNotFound = errors.New("task not found")

type (
	Repository interface {
		CreateTask(ctx context.Context, tsk Task, exec ...core.DBExecutor) (Task, error)
		GetTask(ctx context.Context, projectID, id string, exec ...core.DBExecutor) (Task, error)
		// QueryTasks applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Task.Title or Task.Description.
		QueryTasks(ctx context.Context, projectID string, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Task, error)
		UpdateTask(ctx context.Context, tsk Task, exec ...core.DBExecutor) (Task, error)
		DeleteTasksByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Create(ctx context.Context, projectID string, nt NewTask) (Task, error)
		GetByID(ctx context.Context, projectID, id string) (Task, error)
		Query(ctx context.Context, projectID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Task, error)
		Update(ctx context.Context, projectID, id string, ut UpdateTask) (Task, error)
		Delete(ctx context.Context, projectID string, ids ...string) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, projectID string, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	tsk := Task{
		ProjectID:   projectID,
		Title:       nt.Title,
		Description: nt.Description,
		Status:      StatusOpen,
		Priority:    nt.Priority,
		AssigneeID:  nt.AssigneeID,
		DueDate:     nt.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateTask(ctx, tsk)
}

func (svc *service) GetByID(ctx context.Context, projectID, id string) (Task, error) {
	return svc.repo.GetTask(ctx, projectID, id)
}

func (svc *service) Query(ctx context.Context, projectID string, filter *QueryFilter, ordering []core.DBOrdering) ([]Task, error) {
	return svc.repo.QueryTasks(ctx, projectID, filter, ordering)
}

func (svc *service) Update(ctx context.Context, projectID, id string, ut UpdateTask) (Task, error) {
	tsk := Task{
		ID:          id,
		ProjectID:   projectID,
		Title:       ut.Title,
		Description: ut.Description,
		Status:      ut.Status,
		Priority:    ut.Priority,
		AssigneeID:  ut.AssigneeID,
		DueDate:     ut.DueDate,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateTask(ctx, tsk)
}

func (svc *service) Delete(ctx context.Context, projectID string, ids ...string) (int, error) {
	return svc.repo.DeleteTasksByID(ctx, projectID, ids)
}
