package project

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fundi/core"
)

// Project statuses
const (
	StatusPlanning  = "planning"
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
)

type Project struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	Status              string    `json:"status"`
	ClientCompanyID     string    `json:"client_company_id,omitempty"`
	ContractAmountCents int64     `json:"contract_amount_cents"`
	StartDate           time.Time `json:"start_date"` // schedule anchor
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"` // UTC
	UpdatedAt           time.Time `json:"updated_at"` // UTC
}

// NewProject contains information needed to create a new Project.
type NewProject struct {
	Name                string    `json:"name" validate:"required"`
	Address             string    `json:"address"`
	Status              string    `json:"status" validate:"omitempty,oneof=planning active on_hold completed"`
	ClientCompanyID     string    `json:"client_company_id" validate:"omitempty,uuid4"`
	ContractAmountCents int64     `json:"contract_amount_cents" validate:"min=0"`
	StartDate           time.Time `json:"start_date" validate:"required"`
	Notes               string    `json:"notes"`
}

func (np *NewProject) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Address = core.CleanString(np.Address)
	if np.Status == "" {
		np.Status = StatusPlanning
	}
	return validate.Struct(np)
}

// UpdateProject defines what information may be provided to modify an existing
// Project. Zero-valued fields keep their current value.
type UpdateProject struct {
	Name                string    `json:"name"`
	Address             string    `json:"address"`
	Status              string    `json:"status" validate:"omitempty,oneof=planning active on_hold completed"`
	ClientCompanyID     string    `json:"client_company_id" validate:"omitempty,uuid4"`
	ContractAmountCents *int64    `json:"contract_amount_cents" validate:"omitempty,min=0"`
	StartDate           time.Time `json:"start_date"`
	Notes               string    `json:"notes"`
}

func (up *UpdateProject) Validate(orig Project, validate *validator.Validate) error {
	if name := core.CleanString(up.Name); name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	if addr := core.CleanString(up.Address); addr != "" {
		up.Address = addr
	} else {
		up.Address = orig.Address
	}
	if up.Status == "" {
		up.Status = orig.Status
	}
	if up.StartDate.IsZero() {
		up.StartDate = orig.StartDate
	}
	return validate.Struct(up)
}

type QueryFilter struct {
	Search          string    `query:"search"`
	Status          string    `query:"status"`
	ClientCompanyID string    `query:"client_company_id"`
	StartedFrom     time.Time `query:"started_from"`
	StartedTo       time.Time `query:"started_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.ClientCompanyID == "" &&
		qf.StartedFrom.IsZero() && qf.StartedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
