package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/directory"
)

type directoryRepository struct {
	db *directoryTable
}

var _ directory.Repository = (*directoryRepository)(nil) // interface compliance check

func NewDirectoryRepository(db *DB) directory.Repository {
	return &directoryRepository{db: db.dir}
}

func (repo *directoryRepository) CreateCompany(_ context.Context, cpy directory.Company, _ ...core.DBExecutor) (directory.Company, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cpy.ID = uuid.New().String()
	repo.db.companies[cpy.ID] = &cpy
	return cpy, nil
}

func (repo *directoryRepository) GetCompany(_ context.Context, id string, _ ...core.DBExecutor) (directory.Company, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cpy, ok := repo.db.companies[id]; ok {
		return *cpy, nil
	}
	return directory.Company{}, directory.ErrCompanyNotFound
}

func (repo *directoryRepository) QueryCompanies(_ context.Context, filter *directory.CompanyFilter, _ []core.DBOrdering, _ ...core.DBExecutor) ([]directory.Company, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	companies := make([]directory.Company, 0, len(repo.db.companies))
	for _, cpy := range repo.db.companies {
		if filter != nil {
			if filter.Search != "" {
				search := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(cpy.Name), search) &&
					!strings.Contains(strings.ToLower(cpy.Email), search) {
					continue
				}
			}
			if filter.Kind != "" && cpy.Kind != filter.Kind {
				continue
			}
			if filter.Trade != "" && cpy.Trade != filter.Trade {
				continue
			}
		}
		companies = append(companies, *cpy)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return companies, nil
}

func (repo *directoryRepository) UpdateCompany(_ context.Context, cpy directory.Company, _ ...core.DBExecutor) (directory.Company, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.companies[cpy.ID]
	if !ok {
		return directory.Company{}, directory.ErrCompanyNotFound
	}
	cpy.CreatedAt = orig.CreatedAt
	repo.db.companies[cpy.ID] = &cpy
	return cpy, nil
}

func (repo *directoryRepository) DeleteCompaniesByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.companies[id]; ok {
			delete(repo.db.companies, id)
			cnt++
			// cascade
			for cntID, contact := range repo.db.contacts {
				if contact.CompanyID == id {
					delete(repo.db.contacts, cntID)
				}
			}
		}
	}
	return cnt, nil
}

func (repo *directoryRepository) CreateContact(_ context.Context, cnt directory.Contact, _ ...core.DBExecutor) (directory.Contact, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cnt.ID = uuid.New().String()
	repo.db.contacts[cnt.ID] = &cnt
	return cnt, nil
}

func (repo *directoryRepository) GetContact(_ context.Context, id string, _ ...core.DBExecutor) (directory.Contact, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cnt, ok := repo.db.contacts[id]; ok {
		return *cnt, nil
	}
	return directory.Contact{}, directory.ErrContactNotFound
}

func (repo *directoryRepository) QueryContacts(_ context.Context, companyID string, _ ...core.DBExecutor) ([]directory.Contact, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	contacts := make([]directory.Contact, 0, len(repo.db.contacts))
	for _, cnt := range repo.db.contacts {
		if cnt.CompanyID == companyID {
			contacts = append(contacts, *cnt)
		}
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].Name < contacts[j].Name })
	return contacts, nil
}

func (repo *directoryRepository) UpdateContact(_ context.Context, cnt directory.Contact, _ ...core.DBExecutor) (directory.Contact, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.contacts[cnt.ID]
	if !ok {
		return directory.Contact{}, directory.ErrContactNotFound
	}
	cnt.CreatedAt = orig.CreatedAt
	repo.db.contacts[cnt.ID] = &cnt
	return cnt, nil
}

func (repo *directoryRepository) DeleteContactsByID(_ context.Context, ids []string, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.contacts[id]; ok {
			delete(repo.db.contacts, id)
			cnt++
		}
	}
	return cnt, nil
}
