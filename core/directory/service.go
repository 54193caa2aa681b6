package directory

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrContactNotFound = errors.New("contact not found")
)

type (
	Repository interface {
		CreateCompany(ctx context.Context, cpy Company, exec ...core.DBExecutor) (Company, error)
		GetCompany(ctx context.Context, id string, exec ...core.DBExecutor) (Company, error)
		// QueryCompanies applies AND operation on available CompanyFilter fields.
		// CompanyFilter.Search does a case-insensitive match on Company.Name or Company.Email.
		QueryCompanies(ctx context.Context, filter *CompanyFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Company, error)
		UpdateCompany(ctx context.Context, cpy Company, exec ...core.DBExecutor) (Company, error)
		DeleteCompaniesByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)

		CreateContact(ctx context.Context, cnt Contact, exec ...core.DBExecutor) (Contact, error)
		GetContact(ctx context.Context, id string, exec ...core.DBExecutor) (Contact, error)
		QueryContacts(ctx context.Context, companyID string, exec ...core.DBExecutor) ([]Contact, error)
		UpdateContact(ctx context.Context, cnt Contact, exec ...core.DBExecutor) (Contact, error)
		DeleteContactsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		CreateCompany(ctx context.Context, nc NewCompany) (Company, error)
		GetCompanyByID(ctx context.Context, id string) (Company, error)
		QueryCompanies(ctx context.Context, filter *CompanyFilter, ordering []core.DBOrdering) ([]Company, error)
		UpdateCompany(ctx context.Context, id string, uc UpdateCompany) (Company, error)
		DeleteCompanies(ctx context.Context, ids ...string) (int, error)

		CreateContact(ctx context.Context, nc NewContact) (Contact, error)
		GetContactByID(ctx context.Context, id string) (Contact, error)
		QueryContacts(ctx context.Context, companyID string) ([]Contact, error)
		UpdateContact(ctx context.Context, id string, uc UpdateContact) (Contact, error)
		DeleteContacts(ctx context.Context, ids ...string) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateCompany(ctx context.Context, nc NewCompany) (Company, error) {
	now := time.Now().UTC()
	cpy := Company{
		Name:      nc.Name,
		Kind:      nc.Kind,
		Trade:     nc.Trade,
		Phone:     nc.Phone,
		Email:     nc.Email,
		Address:   nc.Address,
		Notes:     nc.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCompany(ctx, cpy)
}

func (svc *service) GetCompanyByID(ctx context.Context, id string) (Company, error) {
	return svc.repo.GetCompany(ctx, id)
}

func (svc *service) QueryCompanies(ctx context.Context, filter *CompanyFilter, ordering []core.DBOrdering) ([]Company, error) {
	return svc.repo.QueryCompanies(ctx, filter, ordering)
}

func (svc *service) UpdateCompany(ctx context.Context, id string, uc UpdateCompany) (Company, error) {
	cpy := Company{
		ID:        id,
		Name:      uc.Name,
		Kind:      uc.Kind,
		Trade:     uc.Trade,
		Phone:     uc.Phone,
		Email:     uc.Email,
		Address:   uc.Address,
		Notes:     uc.Notes,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateCompany(ctx, cpy)
}

func (svc *service) DeleteCompanies(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteCompaniesByID(ctx, ids)
}

func (svc *service) CreateContact(ctx context.Context, nc NewContact) (Contact, error) {
	if _, err := svc.repo.GetCompany(ctx, nc.CompanyID); err != nil {
		if errors.Cause(err) == ErrCompanyNotFound {
			return Contact{}, core.NewValidationError(err, core.FieldError{Field: "company_id", Error: err.Error()})
		}
		return Contact{}, err
	}
	now := time.Now().UTC()
	cnt := Contact{
		CompanyID: nc.CompanyID,
		Name:      nc.Name,
		Title:     nc.Title,
		Phone:     nc.Phone,
		Email:     nc.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateContact(ctx, cnt)
}

func (svc *service) GetContactByID(ctx context.Context, id string) (Contact, error) {
	return svc.repo.GetContact(ctx, id)
}

func (svc *service) QueryContacts(ctx context.Context, companyID string) ([]Contact, error) {
	return svc.repo.QueryContacts(ctx, companyID)
}

func (svc *service) UpdateContact(ctx context.Context, id string, uc UpdateContact) (Contact, error) {
	orig, err := svc.repo.GetContact(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	cnt := Contact{
		ID:        id,
		CompanyID: orig.CompanyID,
		Name:      uc.Name,
		Title:     uc.Title,
		Phone:     uc.Phone,
		Email:     uc.Email,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateContact(ctx, cnt)
}

func (svc *service) DeleteContacts(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteContactsByID(ctx, ids)
}
