package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/project"
)

type (
	Repository interface {
		CreateItem(ctx context.Context, itm Item, exec ...core.DBExecutor) (Item, error)
		GetItem(ctx context.Context, projectID, id string, exec ...core.DBExecutor) (Item, error)
		// QueryItems applies AND operation on available ItemFilter fields.
		// ItemFilter.Search does a case-insensitive match on Item.Name or Item.Notes.
		QueryItems(ctx context.Context, projectID string, filter *ItemFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Item, error)
		UpdateItem(ctx context.Context, itm Item, exec ...core.DBExecutor) (Item, error)
		DeleteItemsByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error)
		// SaveComputed persists the derived scheduling fields of every item.
		SaveComputed(ctx context.Context, items []Item, exec ...core.DBExecutor) error

		CreateDependency(ctx context.Context, dep Dependency, exec ...core.DBExecutor) (Dependency, error)
		QueryDependencies(ctx context.Context, projectID string, exec ...core.DBExecutor) ([]Dependency, error)
		DeleteDependenciesByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Timeline(ctx context.Context, projectID string, filter *ItemFilter, ordering []core.DBOrdering) ([]Item, error)
		GetItem(ctx context.Context, projectID, id string) (Item, error)
		CreateItem(ctx context.Context, projectID string, ni NewItem) (Item, error)
		UpdateItem(ctx context.Context, projectID, id string, ui UpdateItem) (Item, error)
		MoveItem(ctx context.Context, projectID, id string, mv MoveItem) (Item, error)
		ResizeItem(ctx context.Context, projectID, id string, rs ResizeItem) (Item, error)
		BulkUpdate(ctx context.Context, projectID string, bu BulkUpdate) ([]Item, error)
		DeleteItems(ctx context.Context, projectID string, ids ...string) (int, error)

		Dependencies(ctx context.Context, projectID string) ([]Dependency, error)
		AddDependency(ctx context.Context, projectID string, nd NewDependency) (Dependency, error)
		RemoveDependency(ctx context.Context, projectID, id string) error

		Recompute(ctx context.Context, projectID string) ([]Item, error)
		CriticalPath(ctx context.Context, projectID string) ([]Item, error)
		Lookahead(ctx context.Context, projectID string, weeks int) (*Lookahead, error)
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

func (svc *service) Timeline(ctx context.Context, projectID string, filter *ItemFilter, ordering []core.DBOrdering) ([]Item, error) {
	if _, err := svc.projSvc.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return svc.repo.QueryItems(ctx, projectID, filter, ordering)
}

func (svc *service) GetItem(ctx context.Context, projectID, id string) (Item, error) {
	return svc.repo.GetItem(ctx, projectID, id)
}

func (svc *service) CreateItem(ctx context.Context, projectID string, ni NewItem) (Item, error) {
	if ni.Kind == KindMilestone {
		ni.DurationDays = 0
	}
	now := time.Now().UTC()
	itm := Item{
		ProjectID:         projectID,
		Name:              ni.Name,
		Kind:              ni.Kind,
		Trade:             ni.Trade,
		Status:            StatusPlanned,
		DurationDays:      ni.DurationDays,
		Constraint:        ni.Constraint,
		ConstraintDate:    ni.ConstraintDate,
		AssigneeCompanyID: ni.AssigneeCompanyID,
		Notes:             ni.Notes,
		SortOrder:         ni.SortOrder,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var created Item
	items, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		var err error
		created, err = svc.repo.CreateItem(ctx, itm, tx)
		return errors.Wrap(err, "creating schedule item")
	})
	if err != nil {
		return Item{}, err
	}
	return pickItem(items, created.ID), nil
}

func (svc *service) UpdateItem(ctx context.Context, projectID, id string, ui UpdateItem) (Item, error) {
	itm := Item{
		ID:                id,
		ProjectID:         projectID,
		Name:              ui.Name,
		Kind:              ui.Kind,
		Trade:             ui.Trade,
		Status:            ui.Status,
		Constraint:        ui.Constraint,
		ConstraintDate:    ui.ConstraintDate,
		ActualStart:       ui.ActualStart,
		AssigneeCompanyID: ui.AssigneeCompanyID,
		Notes:             ui.Notes,
		UpdatedAt:         time.Now().UTC(),
	}

	items, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		orig, err := svc.repo.GetItem(ctx, projectID, id, tx)
		if err != nil {
			return err
		}
		if ui.DurationDays != nil {
			itm.DurationDays = *ui.DurationDays
		} else {
			itm.DurationDays = orig.DurationDays
		}
		if itm.Kind == KindMilestone {
			itm.DurationDays = 0
		}
		if ui.SortOrder != nil {
			itm.SortOrder = *ui.SortOrder
		} else {
			itm.SortOrder = orig.SortOrder
		}
		// starting work records the actual start
		if itm.Status != StatusPlanned && itm.ActualStart.IsZero() {
			itm.ActualStart = dateOnly(time.Now())
		}
		_, err = svc.repo.UpdateItem(ctx, itm, tx)
		return errors.Wrap(err, "updating schedule item")
	})
	if err != nil {
		return Item{}, err
	}
	return pickItem(items, id), nil
}

// MoveItem pins the item at the dropped date so a recompute does not snap it back.
func (svc *service) MoveItem(ctx context.Context, projectID, id string, mv MoveItem) (Item, error) {
	items, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		itm, err := svc.repo.GetItem(ctx, projectID, id, tx)
		if err != nil {
			return err
		}
		itm.Constraint = ConstraintStartNoEarlier
		itm.ConstraintDate = NextWorkday(mv.StartDate)
		itm.UpdatedAt = time.Now().UTC()
		_, err = svc.repo.UpdateItem(ctx, itm, tx)
		return errors.Wrap(err, "moving schedule item")
	})
	if err != nil {
		return Item{}, err
	}
	return pickItem(items, id), nil
}

func (svc *service) ResizeItem(ctx context.Context, projectID, id string, rs ResizeItem) (Item, error) {
	items, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		itm, err := svc.repo.GetItem(ctx, projectID, id, tx)
		if err != nil {
			return err
		}
		if itm.Kind == KindMilestone {
			return core.NewValidationError(errors.New("a milestone has no duration"))
		}
		itm.DurationDays = rs.DurationDays
		itm.UpdatedAt = time.Now().UTC()
		_, err = svc.repo.UpdateItem(ctx, itm, tx)
		return errors.Wrap(err, "resizing schedule item")
	})
	if err != nil {
		return Item{}, err
	}
	return pickItem(items, id), nil
}

func (svc *service) BulkUpdate(ctx context.Context, projectID string, bu BulkUpdate) ([]Item, error) {
	return svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		now := time.Now().UTC()
		for _, entry := range bu.Items {
			itm, err := svc.repo.GetItem(ctx, projectID, entry.ID, tx)
			if err != nil {
				return errors.Wrapf(err, "bulk updating item %s", entry.ID)
			}
			if entry.StartDate != nil {
				itm.Constraint = ConstraintStartNoEarlier
				itm.ConstraintDate = NextWorkday(*entry.StartDate)
			}
			if entry.DurationDays != nil && itm.Kind != KindMilestone {
				itm.DurationDays = *entry.DurationDays
			}
			if entry.Status != "" {
				itm.Status = entry.Status
				if itm.Status != StatusPlanned && itm.ActualStart.IsZero() {
					itm.ActualStart = dateOnly(now)
				}
			}
			if entry.SortOrder != nil {
				itm.SortOrder = *entry.SortOrder
			}
			itm.UpdatedAt = now
			if _, err = svc.repo.UpdateItem(ctx, itm, tx); err != nil {
				return errors.Wrapf(err, "bulk updating item %s", entry.ID)
			}
		}
		return nil
	})
}

func (svc *service) DeleteItems(ctx context.Context, projectID string, ids ...string) (int, error) {
	var cnt int
	_, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		var err error
		cnt, err = svc.repo.DeleteItemsByID(ctx, projectID, ids, tx)
		return errors.Wrap(err, "deleting schedule items")
	})
	return cnt, err
}

func (svc *service) Dependencies(ctx context.Context, projectID string) ([]Dependency, error) {
	return svc.repo.QueryDependencies(ctx, projectID)
}

func (svc *service) AddDependency(ctx context.Context, projectID string, nd NewDependency) (Dependency, error) {
	var created Dependency
	_, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		// both endpoints must exist in this project
		if _, err := svc.repo.GetItem(ctx, projectID, nd.PredecessorID, tx); err != nil {
			return errors.Wrap(err, "checking predecessor")
		}
		if _, err := svc.repo.GetItem(ctx, projectID, nd.SuccessorID, tx); err != nil {
			return errors.Wrap(err, "checking successor")
		}

		deps, err := svc.repo.QueryDependencies(ctx, projectID, tx)
		if err != nil {
			return errors.Wrap(err, "querying dependencies")
		}
		for _, dep := range deps {
			if dep.PredecessorID == nd.PredecessorID && dep.SuccessorID == nd.SuccessorID {
				return core.NewValidationError(ErrDuplicateEdge)
			}
		}
		if ok, path := wouldCycle(deps, nd.PredecessorID, nd.SuccessorID); ok {
			cycle := append([]string{nd.PredecessorID}, path...)
			return core.NewValidationError(&CycleError{Path: normalizeCycle(cycle[:len(cycle)-1])})
		}

		if nd.Type == "" {
			nd.Type = DepFinishToStart
		}
		created, err = svc.repo.CreateDependency(ctx, Dependency{
			ProjectID:     projectID,
			PredecessorID: nd.PredecessorID,
			SuccessorID:   nd.SuccessorID,
			Type:          nd.Type,
			LagDays:       nd.LagDays,
			CreatedAt:     time.Now().UTC(),
		}, tx)
		return errors.Wrap(err, "creating dependency")
	})
	if err != nil {
		return Dependency{}, err
	}
	return created, nil
}

func (svc *service) RemoveDependency(ctx context.Context, projectID, id string) error {
	_, err := svc.mutate(ctx, projectID, func(tx core.DBTransactor) error {
		cnt, err := svc.repo.DeleteDependenciesByID(ctx, projectID, []string{id}, tx)
		if err != nil {
			return errors.Wrap(err, "deleting dependency")
		}
		if cnt == 0 {
			return ErrDependencyNotFound
		}
		return nil
	})
	return err
}

func (svc *service) Recompute(ctx context.Context, projectID string) ([]Item, error) {
	return svc.mutate(ctx, projectID, func(core.DBTransactor) error { return nil })
}

func (svc *service) CriticalPath(ctx context.Context, projectID string) ([]Item, error) {
	items, err := svc.repo.QueryItems(ctx, projectID, nil, nil)
	if err != nil {
		return nil, err
	}
	critical := make([]Item, 0, len(items))
	for _, itm := range items {
		if itm.IsCritical {
			critical = append(critical, itm)
		}
	}
	sortItemsByStart(critical)
	return critical, nil
}

// mutate runs fn and a full CPM recompute of the project in one transaction,
// and returns the project's items with fresh derived fields.
func (svc *service) mutate(ctx context.Context, projectID string, fn func(tx core.DBTransactor) error) ([]Item, error) {
	prj, err := svc.projSvc.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	rollback := func(err error) ([]Item, error) {
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, core.NewShutdownError("cannot roll back schedule transaction: " + rbErr.Error())
		}
		return nil, err
	}

	if err = fn(tx); err != nil {
		return rollback(err)
	}

	items, err := svc.recompute(ctx, prj, tx)
	if err != nil {
		return rollback(err)
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing transaction")
	}
	return items, nil
}

func (svc *service) recompute(ctx context.Context, prj project.Project, tx core.DBTransactor) ([]Item, error) {
	items, err := svc.repo.QueryItems(ctx, prj.ID, nil, nil, tx)
	if err != nil {
		return nil, errors.Wrap(err, "querying schedule items")
	}
	deps, err := svc.repo.QueryDependencies(ctx, prj.ID, tx)
	if err != nil {
		return nil, errors.Wrap(err, "querying dependencies")
	}

	res, err := Compute(prj.StartDate, items, deps)
	if err != nil {
		if cycErr, ok := errors.Cause(err).(*CycleError); ok {
			return nil, core.NewValidationError(cycErr)
		}
		return nil, errors.Wrap(err, "computing schedule")
	}

	items = res.apply(items)
	if err = svc.repo.SaveComputed(ctx, items, tx); err != nil {
		return nil, errors.Wrap(err, "saving computed schedule")
	}
	return items, nil
}

func pickItem(items []Item, id string) Item {
	for _, itm := range items {
		if itm.ID == id {
			return itm
		}
	}
	return Item{}
}

func sortItemsByStart(items []Item) {
	sortItems(items, func(a, b Item) bool {
		if !a.EarlyStart.Equal(b.EarlyStart) {
			return a.EarlyStart.Before(b.EarlyStart)
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
