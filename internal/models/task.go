package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quadrant is a cell of the Eisenhower matrix.
type Quadrant string

const (
	QuadrantUrgentImportant       Quadrant = "Q1"
	QuadrantImportant             Quadrant = "Q2"
	QuadrantUrgent                Quadrant = "Q3"
	QuadrantNotUrgentNotImportant Quadrant = "Q4"

	DefaultQuadrant = QuadrantNotUrgentNotImportant
)

// Valid reports whether q is one of the four matrix cells.
func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantUrgentImportant, QuadrantImportant, QuadrantUrgent, QuadrantNotUrgentNotImportant:
		return true
	}
	return false
}

type Task struct {
	ID          string     `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Quadrant    Quadrant   `gorm:"type:varchar(8);not null;default:'Q4'" json:"quadrant"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	DueDate     *time.Time `json:"due_date"`
	UserID      string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CategoryID  *string    `gorm:"type:varchar(36);index" json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Weak reference; nil when unset, dangling, or not owned by UserID
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
