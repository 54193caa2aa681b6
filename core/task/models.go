package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fundi/core"
)

// Task statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Task is a project punch-list entry. Unlike a schedule item it carries no
// dependencies and never enters the CPM engine.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssigneeID  string    `json:"assignee_id,omitempty"` // user.User
	DueDate     time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewTask struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low normal high"`
	AssigneeID  string    `json:"assignee_id" validate:"omitempty,uuid4"`
	DueDate     time.Time `json:"due_date"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	if nt.Priority == "" {
		nt.Priority = PriorityNormal
	}
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing
// Task. Zero-valued fields keep their current value.
type UpdateTask struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status" validate:"omitempty,oneof=open in_progress done"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low normal high"`
	AssigneeID  string    `json:"assignee_id" validate:"omitempty,uuid4"`
	DueDate     time.Time `json:"due_date"`
}

func (ut *UpdateTask) Validate(orig Task, validate *validator.Validate) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	if ut.Description == "" {
		ut.Description = orig.Description
	}
	if ut.Status == "" {
		ut.Status = orig.Status
	}
	if ut.Priority == "" {
		ut.Priority = orig.Priority
	}
	if ut.DueDate.IsZero() {
		ut.DueDate = orig.DueDate
	}
	return validate.Struct(ut)
}

type QueryFilter struct {
	Search     string    `query:"search"`
	Status     string    `query:"status"`
	Priority   string    `query:"priority"`
	AssigneeID string    `query:"assignee_id"`
	DueFrom    time.Time `query:"due_from"`
	DueTo      time.Time `query:"due_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Priority == "" && qf.AssigneeID == "" &&
		qf.DueFrom.IsZero() && qf.DueTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
