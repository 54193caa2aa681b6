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
	"github.com/trezcool/fundi/core/task"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

type taskRow struct {
	ID          string      `db:"id"`
	ProjectID   string      `db:"project_id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Status      string      `db:"status"`
	Priority    string      `db:"priority"`
	AssigneeID  null.String `db:"assignee_id"`
	DueDate     null.Time   `db:"due_date"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r taskRow) task() task.Task {
	return task.Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssigneeID:  r.AssigneeID.String,
		DueDate:     r.DueDate.Time,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const taskCols = "id, project_id, title, description, status, priority, assignee_id, due_date, created_at, updated_at"

func (repo taskRepository) CreateTask(ctx context.Context, tsk task.Task, exec ...core.DBExecutor) (task.Task, error) {
	tsk.ID = uuid.New().String()

	q := `
INSERT INTO tasks (` + taskCols + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		tsk.ID, tsk.ProjectID, tsk.Title, tsk.Description, tsk.Status, tsk.Priority,
		null.NewString(tsk.AssigneeID, tsk.AssigneeID != ""), nullDate(tsk.DueDate),
		tsk.CreatedAt.UTC(), tsk.UpdatedAt.UTC(),
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return tsk, nil
}

func (repo taskRepository) GetTask(ctx context.Context, projectID, id string, exec ...core.DBExecutor) (task.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return task.Task{}, task.ErrNotFound
	}

	var row taskRow
	q := "SELECT " + taskCols + " FROM tasks WHERE project_id = $1 AND id = $2"
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, projectID, id); err != nil {
		return task.Task{}, trapNoRowsErr(err, task.ErrNotFound, "finding task")
	}
	return row.task(), nil
}

func (repo taskRepository) QueryTasks(ctx context.Context, projectID string, filter *task.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]task.Task, error) {
	exe := getExec(repo.db, exec)

	conds := []string{"project_id = ?"}
	args := []interface{}{projectID}
	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, "(title ILIKE ? OR description ILIKE ?)")
			args = append(args, val, val)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
		if filter.Priority != "" {
			conds = append(conds, "priority = ?")
			args = append(args, filter.Priority)
		}
		if filter.AssigneeID != "" {
			conds = append(conds, "assignee_id = ?")
			args = append(args, filter.AssigneeID)
		}
		if !filter.DueFrom.IsZero() {
			conds = append(conds, "due_date >= ?")
			args = append(args, filter.DueFrom)
		}
		if !filter.DueTo.IsZero() {
			conds = append(conds, "due_date <= ?")
			args = append(args, filter.DueTo)
		}
	}

	q := "SELECT " + taskCols + " FROM tasks WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY " + orderBy(ordering, "created_at DESC")

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.task())
	}
	return tasks, nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, tsk task.Task, exec ...core.DBExecutor) (task.Task, error) {
	q := `
UPDATE tasks
SET title = $3, description = $4, status = $5, priority = $6, assignee_id = $7, due_date = $8, updated_at = $9
WHERE project_id = $1 AND id = $2`
	res, err := getExec(repo.db, exec).ExecContext(ctx, q,
		tsk.ProjectID, tsk.ID, tsk.Title, tsk.Description, tsk.Status, tsk.Priority,
		null.NewString(tsk.AssigneeID, tsk.AssigneeID != ""), nullDate(tsk.DueDate), tsk.UpdatedAt.UTC(),
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if rowsAffected(res) == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return repo.GetTask(ctx, tsk.ProjectID, tsk.ID, exec...)
}

func (repo taskRepository) DeleteTasksByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM tasks WHERE project_id = ? AND id IN (?)", projectID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting tasks")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting tasks")
	}
	return rowsAffected(res), nil
}
