package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/draw"
)

type drawRepository struct {
	db *sqlx.DB
}

var _ draw.Repository = (*drawRepository)(nil) // interface compliance check

func NewDrawRepository(db *sqlx.DB) *drawRepository {
	return &drawRepository{db: db}
}

type drawRow struct {
	ID         string    `db:"id"`
	ProjectID  string    `db:"project_id"`
	Name       string    `db:"name"`
	PercentBps int       `db:"percent_bps"`
	Status     string    `db:"status"`
	SortOrder  int       `db:"sort_order"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r drawRow) draw() draw.Draw {
	return draw.Draw{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		Name:       r.Name,
		PercentBps: r.PercentBps,
		Status:     r.Status,
		SortOrder:  r.SortOrder,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

const drawCols = "id, project_id, name, percent_bps, status, sort_order, created_at, updated_at"

func (repo drawRepository) CreateDraw(ctx context.Context, drw draw.Draw, exec ...core.DBExecutor) (draw.Draw, error) {
	drw.ID = uuid.New().String()

	q := `
INSERT INTO draws (` + drawCols + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		drw.ID, drw.ProjectID, drw.Name, drw.PercentBps, drw.Status, drw.SortOrder,
		drw.CreatedAt.UTC(), drw.UpdatedAt.UTC(),
	)
	if err != nil {
		return draw.Draw{}, errors.Wrap(err, "inserting draw")
	}
	return drw, nil
}

func (repo drawRepository) GetDraw(ctx context.Context, projectID, id string, exec ...core.DBExecutor) (draw.Draw, error) {
	if _, err := uuid.Parse(id); err != nil {
		return draw.Draw{}, draw.ErrNotFound
	}

	var row drawRow
	q := "SELECT " + drawCols + " FROM draws WHERE project_id = $1 AND id = $2"
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, projectID, id); err != nil {
		return draw.Draw{}, trapNoRowsErr(err, draw.ErrNotFound, "finding draw")
	}
	return row.draw(), nil
}

func (repo drawRepository) QueryDraws(ctx context.Context, projectID string, exec ...core.DBExecutor) ([]draw.Draw, error) {
	var rows []drawRow
	q := "SELECT " + drawCols + " FROM draws WHERE project_id = $1 ORDER BY sort_order ASC, created_at ASC"
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, projectID); err != nil {
		return nil, errors.Wrap(err, "querying draws")
	}
	draws := make([]draw.Draw, 0, len(rows))
	for _, r := range rows {
		draws = append(draws, r.draw())
	}
	return draws, nil
}

func (repo drawRepository) UpdateDraw(ctx context.Context, drw draw.Draw, exec ...core.DBExecutor) (draw.Draw, error) {
	q := `
UPDATE draws
SET name = $3, percent_bps = $4, status = $5, sort_order = $6, updated_at = $7
WHERE project_id = $1 AND id = $2`
	res, err := getExec(repo.db, exec).ExecContext(ctx, q,
		drw.ProjectID, drw.ID, drw.Name, drw.PercentBps, drw.Status, drw.SortOrder, drw.UpdatedAt.UTC(),
	)
	if err != nil {
		return draw.Draw{}, errors.Wrap(err, "updating draw")
	}
	if rowsAffected(res) == 0 {
		return draw.Draw{}, draw.ErrNotFound
	}
	return repo.GetDraw(ctx, drw.ProjectID, drw.ID, exec...)
}

func (repo drawRepository) DeleteDrawsByID(ctx context.Context, projectID string, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM draws WHERE project_id = ? AND id IN (?)", projectID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting draws")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting draws")
	}
	return rowsAffected(res), nil
}
