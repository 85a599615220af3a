package models

import (
	"slices"
	"time"
)

// TaskStatus is the lifecycle state of a task. Values match what older
// stores contain, including the space in "in progress".
type TaskStatus string

const (
	TaskUndefined  TaskStatus = "undefined"
	TaskUnassigned TaskStatus = "unassigned"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in progress"
	TaskCompleted  TaskStatus = "completed"
	TaskRefused    TaskStatus = "refused"
	TaskCancelled  TaskStatus = "cancelled"
)

var TaskStatuses = []TaskStatus{
	TaskUndefined, TaskUnassigned, TaskAssigned, TaskInProgress,
	TaskCompleted, TaskRefused, TaskCancelled,
}

func (s TaskStatus) Valid() bool {
	return slices.Contains(TaskStatuses, s)
}

// Open reports whether the task still needs work.
func (s TaskStatus) Open() bool {
	switch s {
	case TaskCompleted, TaskRefused, TaskCancelled:
		return false
	}
	return true
}

// TimeLogEntry records planned or spent hours.
type TimeLogEntry struct {
	Type  string    `json:"type" validate:"required"`
	By    string    `json:"by" validate:"required"`
	Hours float64   `json:"hours" validate:"gte=0"`
	At    time.Time `json:"at"`
}

type Comment struct {
	By   string    `json:"by" validate:"required"`
	Text string    `json:"text" validate:"required"`
	At   time.Time `json:"at"`
}

type Task struct {
	ID           string         `json:"id" validate:"required"`
	ProjectID    string         `json:"projectId,omitempty"`
	Title        string         `json:"title" validate:"required,max=256"`
	Description  string         `json:"description"`
	PlannedHours float64        `json:"plannedHours" validate:"gte=0"`
	Assignees    []string       `json:"assignees" validate:"dive,required"`
	Status       TaskStatus     `json:"status" validate:"required,oneof=undefined unassigned assigned 'in progress' completed refused cancelled"`
	TimeLog      []TimeLogEntry `json:"timeLog" validate:"dive"`
	Comments     []Comment      `json:"comments" validate:"dive"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (t *Task) Validate() error {
	return validateStruct(t)
}

// AssignedTo reports whether username is among the assignees.
func (t *Task) AssignedTo(username string) bool {
	return slices.Contains(t.Assignees, username)
}

// InitialTaskStatus is the status a new task starts in.
func InitialTaskStatus(assignees []string) TaskStatus {
	if len(assignees) > 0 {
		return TaskAssigned
	}
	return TaskUndefined
}

// TaskPatch holds changes to an existing task. Nil fields are left as is.
type TaskPatch struct {
	ProjectID    *string
	Title        *string
	Description  *string
	PlannedHours *float64
	Assignees    *[]string
	Status       *TaskStatus
	Comments     *[]Comment
}

// Fields reports whether p touches anything beyond status and comments.
func (p TaskPatch) Fields() bool {
	return p.ProjectID != nil || p.Title != nil || p.Description != nil ||
		p.PlannedHours != nil || p.Assignees != nil
}

func (p TaskPatch) Apply(t *Task) {
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.PlannedHours != nil {
		t.PlannedHours = *p.PlannedHours
	}
	if p.Assignees != nil {
		t.Assignees = slices.Clone(*p.Assignees)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Comments != nil {
		t.Comments = slices.Clone(*p.Comments)
	}
}
