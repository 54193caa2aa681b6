package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/fundi/core/directory"
	"github.com/trezcool/fundi/core/user"
)

func createCompany(t *testing.T, name, kind, trade string) directory.Company {
	t.Helper()
	now := time.Now().UTC()
	cpy, err := dirRepo.CreateCompany(context.Background(), directory.Company{
		Name:      name,
		Kind:      kind,
		Trade:     trade,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCompany(): %v", err)
	}
	return cpy
}

func createContact(t *testing.T, companyID, name string) directory.Contact {
	t.Helper()
	now := time.Now().UTC()
	cnt, err := dirRepo.CreateContact(context.Background(), directory.Contact{
		CompanyID: companyID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateContact(): %v", err)
	}
	return cnt
}

func Test_directoryApi_companies(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	foreman := createUser(t, "Mr Foreman", "foreman", "foreman@test.cd", "", []string{user.RoleField}, true)
	token := getToken(t, pm)

	sparky := createCompany(t, "Sparky Electric", directory.KindSubcontractor, "electrical")
	lumber := createCompany(t, "Kin Lumber Supply", directory.KindVendor, "")
	empty := marchallList(t, []interface{}{}...)

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodGet, path: "/v1/companies",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Office required", method: http.MethodPost, path: "/v1/companies", token: getToken(t, foreman),
			body:     marchallObj(t, directory.NewCompany{Name: "Bob's Plumbing", Kind: directory.KindSubcontractor}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "required fields", method: http.MethodPost, path: "/v1/companies", token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"name": reqMsg, "kind": reqMsg}),
		},
		{name: "Get all", method: http.MethodGet, path: "/v1/companies", token: token, wantData: marchallList(t, sparky, lumber)},
		{name: "search (unknown)", method: http.MethodGet, path: "/v1/companies?search=lol", token: token, wantData: empty},
		{name: "search=sparky", method: http.MethodGet, path: "/v1/companies?search=sparky", token: token, wantData: marchallList(t, sparky)},
		{name: "kind=vendor", method: http.MethodGet, path: "/v1/companies?kind=vendor", token: token, wantData: marchallList(t, lumber)},
		{name: "trade=electrical", method: http.MethodGet, path: "/v1/companies?trade=electrical", token: token, wantData: marchallList(t, sparky)},
		{name: "retrieve", method: http.MethodGet, path: "/v1/companies/" + sparky.ID, token: token, wantData: marchallObj(t, sparky)},
		{
			name: "retrieve (unknown)", method: http.MethodGet, path: "/v1/companies/b2f7c9e1-0000-4000-8000-000000000000",
			token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_directoryApi_companyUpdate(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	cpy := createCompany(t, "Sparky Electric", directory.KindSubcontractor, "electrical")

	body := marchallObj(t, directory.UpdateCompany{Phone: "+243 81 000 0000", Trade: "Electrical"})
	req, rec := newAuthRequest(http.MethodPut, "/v1/companies/"+cpy.ID, getToken(t, pm), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var updated directory.Company
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if updated.Name != cpy.Name {
		t.Errorf("Name = %q; want %q", updated.Name, cpy.Name)
	}
	if updated.Trade != "electrical" {
		t.Errorf("Trade = %q; want %q", updated.Trade, "electrical")
	}
	if updated.Phone != "+243 81 000 0000" {
		t.Errorf("Phone = %q", updated.Phone)
	}
}

func Test_directoryApi_contacts(t *testing.T) {
	resetDB(t)

	pm := createUser(t, "Patricia M", "patpm", "pat@test.cd", "", []string{user.RoleOffice}, true)
	token := getToken(t, pm)

	sparky := createCompany(t, "Sparky Electric", directory.KindSubcontractor, "electrical")
	lumber := createCompany(t, "Kin Lumber Supply", directory.KindVendor, "")
	joe := createContact(t, sparky.ID, "Joe Mwamba")
	jane := createContact(t, sparky.ID, "Jane Ilunga")
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{
			name: "create: company required", method: http.MethodPost, path: "/v1/contacts", token: token,
			body:     marchallObj(t, directory.NewContact{CompanyID: "b2f7c9e1-0000-4000-8000-000000000000", Name: "Bob"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"company_id": "company not found"}),
		},
		{
			name: "created", method: http.MethodPost, path: "/v1/contacts", token: token,
			body:     marchallObj(t, directory.NewContact{CompanyID: lumber.ID, Name: "Bob Kasongo"}),
			wantCode: http.StatusCreated,
		},
		{
			name: "company contacts", method: http.MethodGet, path: "/v1/companies/" + sparky.ID + "/contacts",
			token: token, wantData: marchallList(t, joe, jane),
		},
		{
			name: "company contacts (none)", method: http.MethodGet, path: "/v1/companies/b2f7c9e1-0000-4000-8000-000000000000/contacts",
			token: token, wantData: empty,
		},
		{name: "retrieve", method: http.MethodGet, path: "/v1/contacts/" + joe.ID, token: token, wantData: marchallObj(t, joe)},
		{
			name: "retrieve (unknown)", method: http.MethodGet, path: "/v1/contacts/b2f7c9e1-0000-4000-8000-000000000000",
			token: token, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var cnt directory.Contact
				if err := json.Unmarshal(rec.Body.Bytes(), &cnt); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if cnt.ID == "" {
					t.Error("failed! contact has no ID")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
