package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fundi/core"
)

// Item kinds
const (
	KindTask       = "task"
	KindMilestone  = "milestone"
	KindInspection = "inspection"
)

// Item statuses
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Scheduling constraints
const (
	ConstraintASAP           = "asap"
	ConstraintMustStartOn    = "must_start_on"
	ConstraintStartNoEarlier = "start_no_earlier_than"
)

// Dependency types
const (
	DepFinishToStart  = "FS"
	DepStartToStart   = "SS"
	DepFinishToFinish = "FF"
	DepStartToFinish  = "SF"
)

// Item is a row on a project timeline: a task, milestone or inspection.
// The Early*/Late*/FloatDays/IsCritical fields are engine outputs persisted
// on every recompute; they are never accepted from clients.
type Item struct {
	ID                string    `json:"id"`
	ProjectID         string    `json:"project_id"`
	Name              string    `json:"name"`
	Kind              string    `json:"kind"`
	Trade             string    `json:"trade"`
	Status            string    `json:"status"`
	DurationDays      int       `json:"duration_days"` // working days; 0 for milestones
	Constraint        string    `json:"constraint"`
	ConstraintDate    time.Time `json:"constraint_date,omitempty"`
	ActualStart       time.Time `json:"actual_start,omitempty"` // set once work starts; pins the item
	AssigneeCompanyID string    `json:"assignee_company_id,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	SortOrder         int       `json:"sort_order"`

	// derived
	EarlyStart  time.Time `json:"early_start,omitempty"`
	EarlyFinish time.Time `json:"early_finish,omitempty"`
	LateStart   time.Time `json:"late_start,omitempty"`
	LateFinish  time.Time `json:"late_finish,omitempty"`
	FloatDays   int       `json:"float_days"`
	IsCritical  bool      `json:"is_critical"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Pinned reports whether the item's start is fixed: either work has started
// (actual start recorded) or a must-start-on constraint is set.
func (itm *Item) Pinned() bool {
	if itm.Status != StatusPlanned && !itm.ActualStart.IsZero() {
		return true
	}
	return itm.Constraint == ConstraintMustStartOn && !itm.ConstraintDate.IsZero()
}

// PinDate returns the date the item is pinned to; zero if not pinned.
func (itm *Item) PinDate() time.Time {
	if itm.Status != StatusPlanned && !itm.ActualStart.IsZero() {
		return itm.ActualStart
	}
	if itm.Constraint == ConstraintMustStartOn {
		return itm.ConstraintDate
	}
	return time.Time{}
}

// Dependency is a typed edge between two schedule items of the same project:
// the successor's schedule is constrained by the predecessor's.
type Dependency struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	PredecessorID string    `json:"predecessor_id"`
	SuccessorID   string    `json:"successor_id"`
	Type          string    `json:"type"`
	LagDays       int       `json:"lag_days"` // working days; may be negative (fast-tracking)
	CreatedAt     time.Time `json:"created_at"`
}

// NewItem contains information needed to create a new Item.
type NewItem struct {
	Name              string    `json:"name" validate:"required"`
	Kind              string    `json:"kind" validate:"required,oneof=task milestone inspection"`
	Trade             string    `json:"trade"`
	DurationDays      int       `json:"duration_days" validate:"min=0"`
	Constraint        string    `json:"constraint" validate:"omitempty,oneof=asap must_start_on start_no_earlier_than"`
	ConstraintDate    time.Time `json:"constraint_date"`
	AssigneeCompanyID string    `json:"assignee_company_id" validate:"omitempty,uuid4"`
	Notes             string    `json:"notes"`
	SortOrder         int       `json:"sort_order"`
}

func (ni *NewItem) Validate(validate *validator.Validate) error {
	ni.Name = core.CleanString(ni.Name)
	ni.Trade = core.CleanString(ni.Trade, true /* lower */)
	if ni.Constraint == "" {
		ni.Constraint = ConstraintASAP
	}
	return validate.Struct(ni)
}

// UpdateItem defines what information may be provided to modify an existing Item.
// Zero-valued fields keep their current value.
type UpdateItem struct {
	Name              string    `json:"name"`
	Kind              string    `json:"kind" validate:"omitempty,oneof=task milestone inspection"`
	Trade             string    `json:"trade"`
	Status            string    `json:"status" validate:"omitempty,oneof=planned in_progress done"`
	DurationDays      *int      `json:"duration_days" validate:"omitempty,min=0"`
	Constraint        string    `json:"constraint" validate:"omitempty,oneof=asap must_start_on start_no_earlier_than"`
	ConstraintDate    time.Time `json:"constraint_date"`
	ActualStart       time.Time `json:"actual_start"`
	AssigneeCompanyID string    `json:"assignee_company_id" validate:"omitempty,uuid4"`
	Notes             string    `json:"notes"`
	SortOrder         *int      `json:"sort_order"`
}

func (ui *UpdateItem) Validate(orig Item, validate *validator.Validate) error {
	if name := core.CleanString(ui.Name); name != "" {
		ui.Name = name
	} else {
		ui.Name = orig.Name
	}
	if ui.Kind == "" {
		ui.Kind = orig.Kind
	}
	ui.Trade = core.CleanString(ui.Trade, true /* lower */)
	if ui.Trade == "" {
		ui.Trade = orig.Trade
	}
	if ui.Status == "" {
		ui.Status = orig.Status
	}
	if ui.Constraint == "" {
		ui.Constraint = orig.Constraint
	}
	if ui.ConstraintDate.IsZero() {
		ui.ConstraintDate = orig.ConstraintDate
	}
	if ui.ActualStart.IsZero() {
		ui.ActualStart = orig.ActualStart
	}
	return validate.Struct(ui)
}

// MoveItem is the drag gesture: the item is pinned at the dropped date with a
// start-no-earlier-than constraint so a recompute does not snap it back.
type MoveItem struct {
	StartDate time.Time `json:"start_date" validate:"required"`
}

func (mv MoveItem) Validate(validate *validator.Validate) error { return validate.Struct(mv) }

// ResizeItem is the resize gesture: a new working-day duration.
type ResizeItem struct {
	DurationDays int `json:"duration_days" validate:"min=0"`
}

func (rs ResizeItem) Validate(validate *validator.Validate) error { return validate.Struct(rs) }

// BulkItemUpdate is one entry of a bulk timeline edit. Nil/zero fields are
// left untouched.
type BulkItemUpdate struct {
	ID           string     `json:"id" validate:"required,uuid4"`
	StartDate    *time.Time `json:"start_date"`
	DurationDays *int       `json:"duration_days" validate:"omitempty,min=0"`
	Status       string     `json:"status" validate:"omitempty,oneof=planned in_progress done"`
	SortOrder    *int       `json:"sort_order"`
}

// BulkUpdate applies several item edits atomically with a single recompute.
type BulkUpdate struct {
	Items []BulkItemUpdate `json:"items" validate:"required,min=1,dive"`
}

func (bu *BulkUpdate) Validate(validate *validator.Validate) error { return validate.Struct(bu) }

// NewDependency contains information needed to link two items.
type NewDependency struct {
	PredecessorID string `json:"predecessor_id" validate:"required,uuid4"`
	SuccessorID   string `json:"successor_id" validate:"required,uuid4,nefield=PredecessorID"`
	Type          string `json:"type" validate:"omitempty,oneof=FS SS FF SF"`
	LagDays       int    `json:"lag_days"`
}

func (nd *NewDependency) Validate(validate *validator.Validate) error {
	if nd.Type == "" {
		nd.Type = DepFinishToStart
	}
	return validate.Struct(nd)
}

type ItemFilter struct {
	Search       string `query:"search"`
	Kind         string `query:"kind"`
	Trade        string `query:"trade"`
	Status       string `query:"status"`
	AssigneeID   string `query:"assignee_company_id"`
	CriticalOnly *bool  `query:"is_critical"`
}

func (f *ItemFilter) IsEmpty() bool {
	return f.Search == "" && f.Kind == "" && f.Trade == "" && f.Status == "" &&
		f.AssigneeID == "" && f.CriticalOnly == nil
}

func (f *ItemFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.Trade = core.CleanString(f.Trade, true /* lower */)
}
