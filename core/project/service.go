package project

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
)

var ErrNotFound = errors.New("project not found")

type (
	Repository interface {
		CreateProject(ctx context.Context, prj Project, exec ...core.DBExecutor) (Project, error)
		GetProject(ctx context.Context, id string, exec ...core.DBExecutor) (Project, error)
		// QueryProjects applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Project.Name or Project.Address.
		QueryProjects(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Project, error)
		UpdateProject(ctx context.Context, prj Project, exec ...core.DBExecutor) (Project, error)
		DeleteProjectsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Create(ctx context.Context, np NewProject) (Project, error)
		GetByID(ctx context.Context, id string) (Project, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Project, error)
		Update(ctx context.Context, id string, up UpdateProject) (Project, error)
		Delete(ctx context.Context, ids ...string) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, np NewProject) (Project, error) {
	now := time.Now().UTC()
	prj := Project{
		Name:                np.Name,
		Address:             np.Address,
		Status:              np.Status,
		ClientCompanyID:     np.ClientCompanyID,
		ContractAmountCents: np.ContractAmountCents,
		StartDate:           np.StartDate,
		Notes:               np.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	return svc.repo.CreateProject(ctx, prj)
}

func (svc *service) GetByID(ctx context.Context, id string) (Project, error) {
	return svc.repo.GetProject(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Project, error) {
	return svc.repo.QueryProjects(ctx, filter, ordering)
}

func (svc *service) Update(ctx context.Context, id string, up UpdateProject) (Project, error) {
	prj := Project{
		ID:              id,
		Name:            up.Name,
		Address:         up.Address,
		Status:          up.Status,
		ClientCompanyID: up.ClientCompanyID,
		StartDate:       up.StartDate,
		Notes:           up.Notes,
		UpdatedAt:       time.Now().UTC(),
	}
	if up.ContractAmountCents != nil {
		prj.ContractAmountCents = *up.ContractAmountCents
	} else {
		orig, err := svc.repo.GetProject(ctx, id)
		if err != nil {
			return Project{}, err
		}
		prj.ContractAmountCents = orig.ContractAmountCents
	}
	return svc.repo.UpdateProject(ctx, prj)
}

func (svc *service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteProjectsByID(ctx, ids)
}
