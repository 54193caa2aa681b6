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
	"github.com/trezcool/fundi/core/project"
)

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *sqlx.DB) *projectRepository {
	return &projectRepository{db: db}
}

type projectRow struct {
	ID                  string      `db:"id"`
	Name                string      `db:"name"`
	Address             string      `db:"address"`
	Status              string      `db:"status"`
	ClientCompanyID     null.String `db:"client_company_id"`
	ContractAmountCents int64       `db:"contract_amount_cents"`
	StartDate           time.Time   `db:"start_date"`
	Notes               string      `db:"notes"`
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at"`
}

func (r projectRow) project() project.Project {
	return project.Project{
		ID:                  r.ID,
		Name:                r.Name,
		Address:             r.Address,
		Status:              r.Status,
		ClientCompanyID:     r.ClientCompanyID.String,
		ContractAmountCents: r.ContractAmountCents,
		StartDate:           r.StartDate,
		Notes:               r.Notes,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

const projectCols = "id, name, address, status, client_company_id, contract_amount_cents, start_date, notes, created_at, updated_at"

func (repo projectRepository) CreateProject(ctx context.Context, prj project.Project, exec ...core.DBExecutor) (project.Project, error) {
	prj.ID = uuid.New().String()

	q := `
INSERT INTO projects (` + projectCols + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		prj.ID, prj.Name, prj.Address, prj.Status,
		null.NewString(prj.ClientCompanyID, prj.ClientCompanyID != ""),
		prj.ContractAmountCents, prj.StartDate, prj.Notes,
		prj.CreatedAt.UTC(), prj.UpdatedAt.UTC(),
	)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "inserting project")
	}
	return prj, nil
}

func (repo projectRepository) GetProject(ctx context.Context, id string, exec ...core.DBExecutor) (project.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return project.Project{}, project.ErrNotFound
	}

	var row projectRow
	q := "SELECT " + projectCols + " FROM projects WHERE id = $1"
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		return project.Project{}, trapNoRowsErr(err, project.ErrNotFound, "finding project")
	}
	return row.project(), nil
}

func (repo projectRepository) QueryProjects(ctx context.Context, filter *project.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]project.Project, error) {
	exe := getExec(repo.db, exec)

	var conds []string
	var args []interface{}
	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, "(name ILIKE ? OR address ILIKE ?)")
			args = append(args, val, val)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
		if filter.ClientCompanyID != "" {
			conds = append(conds, "client_company_id = ?")
			args = append(args, filter.ClientCompanyID)
		}
		if !filter.StartedFrom.IsZero() {
			conds = append(conds, "start_date >= ?")
			args = append(args, filter.StartedFrom)
		}
		if !filter.StartedTo.IsZero() {
			conds = append(conds, "start_date <= ?")
			args = append(args, filter.StartedTo)
		}
	}

	q := "SELECT " + projectCols + " FROM projects"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering, "created_at DESC")

	var rows []projectRow
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	prjs := make([]project.Project, 0, len(rows))
	for _, r := range rows {
		prjs = append(prjs, r.project())
	}
	return prjs, nil
}

func (repo projectRepository) UpdateProject(ctx context.Context, prj project.Project, exec ...core.DBExecutor) (project.Project, error) {
	q := `
UPDATE projects
SET name = $2, address = $3, status = $4, client_company_id = $5,
    contract_amount_cents = $6, start_date = $7, notes = $8, updated_at = $9
WHERE id = $1`
	res, err := getExec(repo.db, exec).ExecContext(ctx, q,
		prj.ID, prj.Name, prj.Address, prj.Status,
		null.NewString(prj.ClientCompanyID, prj.ClientCompanyID != ""),
		prj.ContractAmountCents, prj.StartDate, prj.Notes, prj.UpdatedAt.UTC(),
	)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "updating project")
	}
	if rowsAffected(res) == 0 {
		return project.Project{}, project.ErrNotFound
	}
	return repo.GetProject(ctx, prj.ID, exec...)
}

func (repo projectRepository) DeleteProjectsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM projects WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting projects")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting projects")
	}
	return rowsAffected(res), nil
}
