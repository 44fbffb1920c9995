package models

import (
	"time"

	"github.com/google/uuid"
)

// ===============================
// Identity
// ===============================
// Identity is the authentication record backing a Profile. Exactly one
// Profile exists per identity; the invite flow creates both together.
type Identity struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password     string     `gorm:"type:varchar(255)" json:"-"` // hashed
	Status       string     `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending / active / suspended
	InviteToken  *string    `gorm:"type:varchar(255)" json:"-"`
	ExpiresAt    *time.Time `json:"-"`
	TokenVersion int        `gorm:"default:0" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ===============================
// Profile
// ===============================
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // identity id
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"` // set at invite time, immutable
	Area      string    `gorm:"type:varchar(255)" json:"area,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"` // manager / employee
	AvatarURL string    `gorm:"type:varchar(512)" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ===============================
// Program
// ===============================
type Program struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ===============================
// Task
// ===============================
// ProgramName is denormalized next to ProgramID so lists render without a
// join; the task service re-syncs it whenever ProgramID changes.
type Task struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID      *uuid.UUID `gorm:"type:uuid;index" json:"program_id,omitempty"`
	ProgramName    string     `gorm:"type:varchar(255);not null" json:"program_name"`
	TaskName       string     `gorm:"type:varchar(255);not null" json:"task_name"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	DueDate        *time.Time `gorm:"index" json:"due_date,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CurrentPhase   string     `gorm:"type:varchar(255)" json:"current_phase,omitempty"`
	Observations   string     `gorm:"type:text" json:"observations,omitempty"`
	Comments       string     `gorm:"type:text" json:"comments,omitempty"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ===============================
// TaskComment
// ===============================
type TaskComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
