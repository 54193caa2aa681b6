package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/directory"
)

type directoryRepository struct {
	db *sqlx.DB
}

var _ directory.Repository = (*directoryRepository)(nil) // interface compliance check

func NewDirectoryRepository(db *sqlx.DB) *directoryRepository {
	return &directoryRepository{db: db}
}

type companyRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	Trade     string    `db:"trade"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	Address   string    `db:"address"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r companyRow) company() directory.Company {
	return directory.Company{
		ID:        r.ID,
		Name:      r.Name,
		Kind:      r.Kind,
		Trade:     r.Trade,
		Phone:     r.Phone,
		Email:     r.Email,
		Address:   r.Address,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type contactRow struct {
	ID        string    `db:"id"`
	CompanyID string    `db:"company_id"`
	Name      string    `db:"name"`
	Title     string    `db:"title"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r contactRow) contact() directory.Contact {
	return directory.Contact{
		ID:        r.ID,
		CompanyID: r.CompanyID,
		Name:      r.Name,
		Title:     r.Title,
		Phone:     r.Phone,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const (
	companyCols = "id, name, kind, trade, phone, email, address, notes, created_at, updated_at"
	contactCols = "id, company_id, name, title, phone, email, created_at, updated_at"
)

func (repo directoryRepository) CreateCompany(ctx context.Context, cpy directory.Company, exec ...core.DBExecutor) (directory.Company, error) {
	cpy.ID = uuid.New().String()

	q := `
INSERT INTO companies (` + companyCols + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		cpy.ID, cpy.Name, cpy.Kind, cpy.Trade, cpy.Phone, cpy.Email, cpy.Address, cpy.Notes,
		cpy.CreatedAt.UTC(), cpy.UpdatedAt.UTC(),
	)
	if err != nil {
		return directory.Company{}, errors.Wrap(err, "inserting company")
	}
	return cpy, nil
}

func (repo directoryRepository) GetCompany(ctx context.Context, id string, exec ...core.DBExecutor) (directory.Company, error) {
	if _, err := uuid.Parse(id); err != nil {
		return directory.Company{}, directory.ErrCompanyNotFound
	}

	var row companyRow
	q := "SELECT " + companyCols + " FROM companies WHERE id = $1"
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		return directory.Company{}, trapNoRowsErr(err, directory.ErrCompanyNotFound, "finding company")
	}
	return row.company(), nil
}

func (repo directoryRepository) QueryCompanies(ctx context.Context, filter *directory.CompanyFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]directory.Company, error) {
	exe := getExec(repo.db, exec)

	var conds []string
	var args []interface{}
	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, "(name ILIKE ? OR email ILIKE ?)")
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
	}

	q := "SELECT " + companyCols + " FROM companies"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY " + orderBy(ordering, "name ASC")

	var rows []companyRow
	if err := sqlx.SelectContext(ctx, exe, &rows, exe.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying companies")
	}
	companies := make([]directory.Company, 0, len(rows))
	for _, r := range rows {
		companies = append(companies, r.company())
	}
	return companies, nil
}

func (repo directoryRepository) UpdateCompany(ctx context.Context, cpy directory.Company, exec ...core.DBExecutor) (directory.Company, error) {
	q := `
UPDATE companies
SET name = $2, kind = $3, trade = $4, phone = $5, email = $6, address = $7, notes = $8, updated_at = $9
WHERE id = $1`
	res, err := getExec(repo.db, exec).ExecContext(ctx, q,
		cpy.ID, cpy.Name, cpy.Kind, cpy.Trade, cpy.Phone, cpy.Email, cpy.Address, cpy.Notes, cpy.UpdatedAt.UTC(),
	)
	if err != nil {
		return directory.Company{}, errors.Wrap(err, "updating company")
	}
	if rowsAffected(res) == 0 {
		return directory.Company{}, directory.ErrCompanyNotFound
	}
	return repo.GetCompany(ctx, cpy.ID, exec...)
}

func (repo directoryRepository) DeleteCompaniesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM companies WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting companies")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting companies")
	}
	return rowsAffected(res), nil
}

func (repo directoryRepository) CreateContact(ctx context.Context, cnt directory.Contact, exec ...core.DBExecutor) (directory.Contact, error) {
	cnt.ID = uuid.New().String()

	q := `
INSERT INTO contacts (` + contactCols + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := getExec(repo.db, exec).ExecContext(ctx, q,
		cnt.ID, cnt.CompanyID, cnt.Name, cnt.Title, cnt.Phone, cnt.Email,
		cnt.CreatedAt.UTC(), cnt.UpdatedAt.UTC(),
	)
	if err != nil {
		return directory.Contact{}, errors.Wrap(err, "inserting contact")
	}
	return cnt, nil
}

func (repo directoryRepository) GetContact(ctx context.Context, id string, exec ...core.DBExecutor) (directory.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return directory.Contact{}, directory.ErrContactNotFound
	}

	var row contactRow
	q := "SELECT " + contactCols + " FROM contacts WHERE id = $1"
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, q, id); err != nil {
		return directory.Contact{}, trapNoRowsErr(err, directory.ErrContactNotFound, "finding contact")
	}
	return row.contact(), nil
}

func (repo directoryRepository) QueryContacts(ctx context.Context, companyID string, exec ...core.DBExecutor) ([]directory.Contact, error) {
	var rows []contactRow
	q := "SELECT " + contactCols + " FROM contacts WHERE company_id = $1 ORDER BY name ASC"
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, companyID); err != nil {
		return nil, errors.Wrap(err, "querying contacts")
	}
	contacts := make([]directory.Contact, 0, len(rows))
	for _, r := range rows {
		contacts = append(contacts, r.contact())
	}
	return contacts, nil
}

func (repo directoryRepository) UpdateContact(ctx context.Context, cnt directory.Contact, exec ...core.DBExecutor) (directory.Contact, error) {
	q := `
UPDATE contacts
SET company_id = $2, name = $3, title = $4, phone = $5, email = $6, updated_at = $7
WHERE id = $1`
	res, err := getExec(repo.db, exec).ExecContext(ctx, q,
		cnt.ID, cnt.CompanyID, cnt.Name, cnt.Title, cnt.Phone, cnt.Email, cnt.UpdatedAt.UTC(),
	)
	if err != nil {
		return directory.Contact{}, errors.Wrap(err, "updating contact")
	}
	if rowsAffected(res) == 0 {
		return directory.Contact{}, directory.ErrContactNotFound
	}
	return repo.GetContact(ctx, cnt.ID, exec...)
}

func (repo directoryRepository) DeleteContactsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	exe := getExec(repo.db, exec)

	q, args, err := sqlx.In("DELETE FROM contacts WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting contacts")
	}
	res, err := exe.ExecContext(ctx, exe.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting contacts")
	}
	return rowsAffected(res), nil
}
