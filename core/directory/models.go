package directory

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fundi/core"
)

// Company kinds
const (
	KindVendor        = "vendor"
	KindSubcontractor = "subcontractor"
	KindClient        = "client"
)

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Trade     string    `json:"trade,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Contact struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewCompany struct {
	Name    string `json:"name" validate:"required"`
	Kind    string `json:"kind" validate:"required,oneof=vendor subcontractor client"`
	Trade   string `json:"trade"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (nc *NewCompany) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Trade = core.CleanString(nc.Trade, true /* lower */)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCompany defines what information may be provided to modify an existing
// Company. Zero-valued fields keep their current value.
type UpdateCompany struct {
	Name    string `json:"name"`
	Kind    string `json:"kind" validate:"omitempty,oneof=vendor subcontractor client"`
	Trade   string `json:"trade"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (uc *UpdateCompany) Validate(orig Company, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Kind == "" {
		uc.Kind = orig.Kind
	}
	uc.Trade = core.CleanString(uc.Trade, true /* lower */)
	if uc.Trade == "" {
		uc.Trade = orig.Trade
	}
	uc.Email = core.CleanString(uc.Email, true /* lower */)
	if uc.Email == "" {
		uc.Email = orig.Email
	}
	return validate.Struct(uc)
}

type NewContact struct {
	CompanyID string `json:"company_id" validate:"required,uuid4"`
	Name      string `json:"name" validate:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func (nc *NewContact) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	return validate.Struct(nc)
}

// UpdateContact defines what information may be provided to modify an existing
// Contact. Zero-valued fields keep their current value.
type UpdateContact struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (uc *UpdateContact) Validate(orig Contact, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if uc.Title == "" {
		uc.Title = orig.Title
	}
	if uc.Phone == "" {
		uc.Phone = orig.Phone
	}
	uc.Email = core.CleanString(uc.Email, true /* lower */)
	if uc.Email == "" {
		uc.Email = orig.Email
	}
	return validate.Struct(uc)
}

type CompanyFilter struct {
	Search string `query:"search"`
	Kind   string `query:"kind"`
	Trade  string `query:"trade"`
}

func (f *CompanyFilter) IsEmpty() bool {
	return f.Search == "" && f.Kind == "" && f.Trade == ""
}

func (f *CompanyFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Trade = core.CleanString(f.Trade, true /* lower */)
}
