package draw

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/project"
)

var (
	ErrNotFound       = errors.New("draw not found")
	ErrPercentExceeds = errors.New("draw schedule exceeds 100% of the contract amount")
)

type (
	Repository interface {
		CreateDraw(ctx context.Context, drw Draw, exec ...core.DBExecutor) (Draw, error)
		GetDraw(ctx context.Context, projectID, id string, exec ...core.DBExecutor) (Draw, error)
		QueryDraws(ctx context.Context, projectID string, exec ...core.DBExecutor) ([]Draw, error)
		UpdateDraw(ctx context.Context, drw Draw, exec ...core.DBExecutor) (Draw, error)
		DeleteDrawsByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Create(ctx context.Context, projectID string, nd NewDraw) (Draw, error)
		GetByID(ctx context.Context, projectID, id string) (Draw, error)
		Query(ctx context.Context, projectID string) ([]Draw, error)
		Update(ctx context.Context, projectID, id string, ud UpdateDraw) (Draw, error)
		Delete(ctx context.Context, projectID string, ids ...string) (int, error)
	}

	service struct {
		db      core.DB
		repo    Repository
		projSvc project.Service
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, projSvc project.Service) Service {
	return &service{db: db, repo: repo, projSvc: projSvc}
}

// checkTotal rejects a draw schedule whose percents would exceed 100%.
// excludeID leaves the draw being updated out of the running total.
func (svc *service) checkTotal(ctx context.Context, projectID string, addBps int, excludeID string, exec ...core.DBExecutor) error {
	draws, err := svc.repo.QueryDraws(ctx, projectID, exec...)
	if err != nil {
		return err
	}
	total := addBps
	for _, drw := range draws {
		if drw.ID == excludeID {
			continue
		}
		total += drw.PercentBps
	}
	if total > maxTotalBps {
		return core.NewValidationError(ErrPercentExceeds, core.FieldError{
			Field: "percent_bps",
			Error: fmt.Sprintf("total would reach %.2f%%", float64(total)/100),
		})
	}
	return nil
}

func (svc *service) withAmount(drw Draw, prj project.Project) Draw {
	drw.AmountCents = drw.Amount(prj.ContractAmountCents)
	return drw
}

// mutate runs fn in a transaction so the percent total check and the write
// cannot interleave with a concurrent draw mutation on the same project.
func (svc *service) mutate(ctx context.Context, fn func(tx core.DBTransactor) (Draw, error)) (Draw, error) {
	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return Draw{}, errors.Wrap(err, "beginning transaction")
	}
	drw, err := fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return Draw{}, core.NewShutdownError("cannot roll back draw transaction: " + rbErr.Error())
		}
		return Draw{}, err
	}
	if err = tx.Commit(); err != nil {
		return Draw{}, errors.Wrap(err, "committing transaction")
	}
	return drw, nil
}

func (svc *service) Create(ctx context.Context, projectID string, nd NewDraw) (Draw, error) {
	prj, err := svc.projSvc.GetByID(ctx, projectID)
	if err != nil {
		return Draw{}, err
	}

	drw, err := svc.mutate(ctx, func(tx core.DBTransactor) (Draw, error) {
		if err := svc.checkTotal(ctx, projectID, nd.PercentBps, "", tx); err != nil {
			return Draw{}, err
		}
		now := time.Now().UTC()
		return svc.repo.CreateDraw(ctx, Draw{
			ProjectID:  projectID,
			Name:       nd.Name,
			PercentBps: nd.PercentBps,
			Status:     StatusPending,
			SortOrder:  nd.SortOrder,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, tx)
	})
	if err != nil {
		return Draw{}, err
	}
	return svc.withAmount(drw, prj), nil
}

func (svc *service) GetByID(ctx context.Context, projectID, id string) (Draw, error) {
	prj, err := svc.projSvc.GetByID(ctx, projectID)
	if err != nil {
		return Draw{}, err
	}
	drw, err := svc.repo.GetDraw(ctx, projectID, id)
	if err != nil {
		return Draw{}, err
	}
	return svc.withAmount(drw, prj), nil
}

func (svc *service) Query(ctx context.Context, projectID string) ([]Draw, error) {
	prj, err := svc.projSvc.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	draws, err := svc.repo.QueryDraws(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range draws {
		draws[i] = svc.withAmount(draws[i], prj)
	}
	return draws, nil
}

func (svc *service) Update(ctx context.Context, projectID, id string, ud UpdateDraw) (Draw, error) {
	prj, err := svc.projSvc.GetByID(ctx, projectID)
	if err != nil {
		return Draw{}, err
	}
	drw, err := svc.mutate(ctx, func(tx core.DBTransactor) (Draw, error) {
		orig, err := svc.repo.GetDraw(ctx, projectID, id, tx)
		if err != nil {
			return Draw{}, err
		}

		drw := Draw{
			ID:         id,
			ProjectID:  projectID,
			Name:       ud.Name,
			PercentBps: orig.PercentBps,
			Status:     ud.Status,
			SortOrder:  orig.SortOrder,
			CreatedAt:  orig.CreatedAt,
			UpdatedAt:  time.Now().UTC(),
		}
		if ud.PercentBps != nil {
			drw.PercentBps = *ud.PercentBps
		}
		if ud.SortOrder != nil {
			drw.SortOrder = *ud.SortOrder
		}
		if err = svc.checkTotal(ctx, projectID, drw.PercentBps, id, tx); err != nil {
			return Draw{}, err
		}
		return svc.repo.UpdateDraw(ctx, drw, tx)
	})
	if err != nil {
		return Draw{}, err
	}
	return svc.withAmount(drw, prj), nil
}

func (svc *service) Delete(ctx context.Context, projectID string, ids ...string) (int, error) {
	return svc.repo.DeleteDrawsByID(ctx, projectID, ids)
}
