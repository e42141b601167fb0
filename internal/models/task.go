package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskState is one of the four fixed kanban lanes a task occupies.
type TaskState string

const (
	StateBacklog    TaskState = "backlog"
	StateEnProgreso TaskState = "en_progreso"
	StateEnRevision TaskState = "en_revision"
	StateFinalizado TaskState = "finalizado"
)

// States lists every lane in board order.
var States = []TaskState{StateBacklog, StateEnProgreso, StateEnRevision, StateFinalizado}

// Valid reports whether s names a known lane.
func (s TaskState) Valid() bool {
	switch s {
	case StateBacklog, StateEnProgreso, StateEnRevision, StateFinalizado:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityBaja  TaskPriority = "baja"
	PriorityMedia TaskPriority = "media"
	PriorityAlta  TaskPriority = "alta"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityBaja, PriorityMedia, PriorityAlta:
		return true
	}
	return false
}

// Task carries the two aggregate point counters maintained by the
// assignment ledger: PuntosAsign is the sum of points across the live
// assignment rows, PuntosTotal is the lifetime sum of points ever granted
// and never decreases.
type Task struct {
	ID          string         `gorm:"type:uuid;primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"type:varchar(100)" json:"category"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null;default:'media'" json:"priority"`
	State       TaskState      `gorm:"type:varchar(20);not null;default:'backlog'" json:"state"`
	TeamID      string         `gorm:"type:uuid;not null;index" json:"teamid"`
	CreatedBy   string         `gorm:"type:uuid;not null;index" json:"createdby"`
	PuntosAsign int            `gorm:"not null;default:0" json:"puntosAsign"`
	PuntosTotal int            `gorm:"not null;default:0" json:"puntosTotal"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team      Team           `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Creator   Profile        `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignees []TaskAssignee `gorm:"foreignKey:TaskID" json:"task_assignees"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
