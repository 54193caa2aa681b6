package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/schedule"
)

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) *scheduleRepository {
	return &scheduleRepository{db: db}
}

type itemRow struct {
	ID                string      `db:"id"`
	ProjectID         string      `db:"project_id"`
	Name              string      `db:"name"`
	Kind              string      `db:"kind"`
	Trade             string      `db:"trade"`
	Status            string      `db:"status"`
	DurationDays      int         `db:"duration_days"`
	Constraint        string      `db:"constraint_type"`
	ConstraintDate    null.Time   `db:"constraint_date"`
	ActualStart       null.Time   `db:"actual_start"`
	AssigneeCompanyID null.String `db:"assignee_company_id"`
	Notes             string      `db:"notes"`
	SortOrder         int         `db:"sort_order"`
	EarlyStart        null.Time   `db:"early_start"`
	EarlyFinish       null.Time   `db:"early_finish"`
	LateStart         null.Time   `db:"late_start"`
	LateFinish        null.Time   `db:"late_finish"`
	FloatDays         int         `db:"float_days"`
	IsCritical        bool        `db:"is_critical"`
	CreatedAt         time.Time   `db:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at"`
}

func (r itemRow) item() schedule.Item {
	return schedule.Item{
		ID:                r.ID,
		ProjectID:         r.ProjectID,
		Name:              r.Name,
		Kind:              r.Kind,
		Trade:             r.Trade,
		Status:            r.Status,
		DurationDays:      r.DurationDays,
		Constraint:        r.Constraint,
		ConstraintDate:    r.ConstraintDate.Time,
		ActualStart:       r.ActualStart.Time,
		AssigneeCompanyID: r.AssigneeCompanyID.String,
		Notes:             r.Notes,
		SortOrder:         r.SortOrder,
		EarlyStart:        r.EarlyStart.Time,
		EarlyFinish:       r.EarlyFinish.Time,
		LateStart:         r.LateStart.Time,
		LateFinish:        r.LateFinish.Time,
		FloatDays:         r.FloatDays,
		IsCritical:        r.IsCritical,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

type depRow struct {
	ID            string    `db:"id"`
	ProjectID     string    `db:"project_id"`
	PredecessorID string    `db:"predecessor_id"`
	SuccessorID   string    `db:"successor_id"`
	Type          string    `db:"dep_type"`
	LagDays       int       `db:"lag_days"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r depRow) dependency() schedule.Dependency {
	return schedule.Dependency{
		ID:            r.ID,
		ProjectID:     r.ProjectID,
		PredecessorID: r.PredecessorID,
		SuccessorID:   r.SuccessorID,
		Type:          r.Type,
		LagDays:       r.LagDays,
		CreatedAt:     r.CreatedAt,
	}
}

const itemCols = `id, project_id, name, kind, trade, status, duration_days, constraint_type, constraint_date,
actual_start, assignee_company_id, notes, sort_order, early_start, early_finish, late_start, late_finish,
float_days, is_critical, created_at, updated_at`

func nullDate(t time.Time) null.Time {
	return null.NewTime(t, !t.IsZero())
}

func (repo scheduleRepository) CreateItem(ctx context.Context, itm schedule.Item, exec ...core.DBExecutor) (schedule.Item, error) {
	itm.ID = uuid.New().String()

	q := `
INSERT INTO schedule_items (` + itemCols + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		itm.ID, itm.ProjectID, itm.Name, itm.Kind, itm.Trade, itm.Status, itm.DurationDays,
		itm.Constraint, nullDate(itm.ConstraintDate), nullDate(itm.ActualStart),
		null.NewString(itm.AssigneeCompanyID, itm.AssigneeCompanyID != ""), itm.Notes, itm.SortOrder,
		nullDate(itm.EarlyStart), nullDate(itm.EarlyFinish), nullDate(itm.LateStart), nullDate(itm.LateFinish),
		itm.FloatDays, itm.IsCritical, itm.CreatedAt.UTC(), itm.UpdatedAt.UTC(),
	)
	if err != nil {
		return schedule.Item{}, errors.Wrap(err, "inserting schedule item")
	}
	return itm, nil
}

func (repo scheduleRepository) GetItem(ctx context.Context, projectID, id string, exec ...core.DBExecutor) (schedule.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return schedule.Item{}, schedule.ErrItemNotFound
	}

	var row itemRow
	q := "SELECT " + itemCols + " FROM schedule_items WHERE project_id = $1 AND id = $2"
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, projectID, id); err != nil {
		return schedule.Item{}, trapNoRowsErr(err, schedule.ErrItemNotFound, "finding schedule item")
	}
	return row.item(), nil
}

func (repo scheduleRepository) QueryItems(ctx context.Context, projectID string, filter *schedule.ItemFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]schedule.Item, error) {
	exe := getExec(repo.db, exec)

	conds := []string{"project_id = ?"}
	args := []interface{}{projectID}
	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, "(name ILIKE ? OR notes ILIKE ?)")
			args = append(args, val, val)
		}
		if filter.Kind != "" {
			conds = append(conds, "kind = ?")
			args = append(args, filter.Kind)
		}
		if filter.Trade != "" {
			conds = append(conds, "trade = ?")
			args = append(args, filter.Trade)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
		if filter.AssigneeID != "" {
			conds = append(conds, "assignee_company_id = ?")
			args = append(args, filter.AssigneeID)
		}
		if filter.CriticalOnly != nil {
			conds = append(conds, "is_critical = ?")
			args = append(args, *filter.CriticalOnly)
		}
	}

	q := "SELECT " + itemCols + " FROM schedule_items WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY " + orderBy(ordering, "sort_order ASC, created_at ASC")

	var rows []itemRow
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying schedule items")
	}
	items := make([]schedule.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.item())
	}
	return items, nil
}

func (repo scheduleRepository) UpdateItem(ctx context.Context, itm schedule.Item, exec ...core.DBExecutor) (schedule.Item, error) {
	q := `
UPDATE schedule_items
SET name = $3, kind = $4, trade = $5, status = $6, duration_days = $7, constraint_type = $8,
    constraint_date = $9, actual_start = $10, assignee_company_id = $11, notes = $12,
    sort_order = $13, updated_at = $14
WHERE project_id = $1 AND id = $2`
	res, err := getExec(repo.db, exec).ExecContext(ctx, q,
		itm.ProjectID, itm.ID, itm.Name, itm.Kind, itm.Trade, itm.Status, itm.DurationDays,
		itm.Constraint, nullDate(itm.ConstraintDate), nullDate(itm.ActualStart),
		null.NewString(itm.AssigneeCompanyID, itm.AssigneeCompanyID != ""), itm.Notes,
		itm.SortOrder, itm.UpdatedAt.UTC(),
	)
	if err != nil {
		return schedule.Item{}, errors.Wrap(err, "updating schedule item")
	}
	if rowsAffected(res) == 0 {
		return schedule.Item{}, schedule.ErrItemNotFound
	}
	return repo.GetItem(ctx, itm.ProjectID, itm.ID, exec...)
}

func (repo scheduleRepository) DeleteItemsByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM schedule_items WHERE project_id = ? AND id IN (?)", projectID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting schedule items")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting schedule items")
	}
	return rowsAffected(res), nil
}

func (repo scheduleRepository) SaveComputed(ctx context.Context, items []schedule.Item, exec ...core.DBExecutor) error {
	exe := getExec(repo.db, exec)

	q := `
UPDATE schedule_items
SET early_start = $2, early_finish = $3, late_start = $4, late_finish = $5, float_days = $6, is_critical = $7
WHERE id = $1`
	for _, itm := range items {
		_, err := exe.ExecContext(ctx, q,
			itm.ID, nullDate(itm.EarlyStart), nullDate(itm.EarlyFinish),
			nullDate(itm.LateStart), nullDate(itm.LateFinish), itm.FloatDays, itm.IsCritical,
		)
		if err != nil {
			return errors.Wrapf(err, "saving computed schedule for item %s", itm.ID)
		}
	}
	return nil
}

func (repo scheduleRepository) CreateDependency(ctx context.Context, dep schedule.Dependency, exec ...core.DBExecutor) (schedule.Dependency, error) {
	dep.ID = uuid.New().String()

	q := `
INSERT INTO schedule_dependencies (id, project_id, predecessor_id, successor_id, dep_type, lag_days, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		dep.ID, dep.ProjectID, dep.PredecessorID, dep.SuccessorID, dep.Type, dep.LagDays, dep.CreatedAt.UTC(),
	)
	if err != nil {
		return schedule.Dependency{}, errors.Wrap(err, "inserting dependency")
	}
	return dep, nil
}

func (repo scheduleRepository) QueryDependencies(ctx context.Context, projectID string, exec ...core.DBExecutor) ([]schedule.Dependency, error) {
	var rows []depRow
	q := `
SELECT id, project_id, predecessor_id, successor_id, dep_type, lag_days, created_at
FROM schedule_dependencies WHERE project_id = $1 ORDER BY created_at ASC`
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, projectID); err != nil {
		return nil, errors.Wrap(err, "querying dependencies")
	}
	deps := make([]schedule.Dependency, 0, len(rows))
	for _, r := range rows {
		deps = append(deps, r.dependency())
	}
	return deps, nil
}

func (repo scheduleRepository) DeleteDependenciesByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM schedule_dependencies WHERE project_id = ? AND id IN (?)", projectID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting dependencies")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting dependencies")
	}
	return rowsAffected(res), nil
}
