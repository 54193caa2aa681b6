package draw

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fundi/core"
)

// Draw statuses
const (
	StatusPending  = "pending"
	StatusInvoiced = "invoiced"
	StatusPaid     = "paid"
)

// percents are stored in basis points so draw math stays integral
const maxTotalBps = 10000

// Draw is one payment milestone of a project's draw schedule. Amount is
// derived from the project contract amount and never stored.
type Draw struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	PercentBps  int       `json:"percent_bps"`
	AmountCents int64     `json:"amount_cents"` // derived
	Status      string    `json:"status"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Amount computes the draw amount for a contract total.
func (d *Draw) Amount(contractAmountCents int64) int64 {
	return contractAmountCents * int64(d.PercentBps) / maxTotalBps
}

type NewDraw struct {
	Name       string `json:"name" validate:"required"`
	PercentBps int    `json:"percent_bps" validate:"required,min=1,max=10000"`
	SortOrder  int    `json:"sort_order"`
}

func (nd *NewDraw) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	return validate.Struct(nd)
}

// UpdateDraw defines what information may be provided to modify an existing
// Draw. Zero-valued fields keep their current value.
type UpdateDraw struct {
	Name       string `json:"name"`
	PercentBps *int   `json:"percent_bps" validate:"omitempty,min=1,max=10000"`
	Status     string `json:"status" validate:"omitempty,oneof=pending invoiced paid"`
	SortOrder  *int   `json:"sort_order"`
}

func (ud *UpdateDraw) Validate(orig Draw, validate *validator.Validate) error {
	if name := core.CleanString(ud.Name); name != "" {
		ud.Name = name
	} else {
		ud.Name = orig.Name
	}
	if ud.Status == "" {
		ud.Status = orig.Status
	}
	return validate.Struct(ud)
}
