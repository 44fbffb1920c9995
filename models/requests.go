package models

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	Profile     Profile `json:"profile"`
}

type AcceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type AcceptInviteResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type InviteEmployeeRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Area      string `json:"area"`
	Role      string `json:"role" binding:"required,oneof=manager employee"`
	AvatarURL string `json:"avatar_url"`
}

type InviteEmployeeResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProfileID uuid.UUID  `json:"profile_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UpdateProfileRequest carries a partial field set; nil pointers are left
// untouched. Email is deliberately absent — it is immutable after invite.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Area      *string `json:"area"`
	Role      *string `json:"role" binding:"omitempty,oneof=manager employee"`
	AvatarURL *string `json:"avatar_url"`
}

type CreateProgramRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProgramRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateTaskRequest struct {
	TaskName       string     `json:"task_name" binding:"required"`
	ProgramID      *uuid.UUID `json:"program_id"`
	ProgramName    string     `json:"program_name"`
	Description    string     `json:"description"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,gte=0"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	Status         string     `json:"status" binding:"omitempty,oneof=pending in_progress completed on_hold cancelled"`
	CurrentPhase   string     `json:"current_phase"`
	Observations   string     `json:"observations"`
	Comments       string     `json:"comments"`
}

// UpdateTaskRequest carries a partial field set; nil pointers are left
// untouched. Sending the zero UUID for assigned_to unassigns the task, and
// the zero time for due_date clears it.
type UpdateTaskRequest struct {
	TaskName       *string    `json:"task_name"`
	ProgramID      *uuid.UUID `json:"program_id"`
	Description    *string    `json:"description"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,gte=0"`
	AssignedTo     *uuid.UUID `json:"assigned_to"`
	DueDate        *time.Time `json:"due_date"`
	Status         *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed on_hold cancelled"`
	CurrentPhase   *string    `json:"current_phase"`
	Observations   *string    `json:"observations"`
	Comments       *string    `json:"comments"`
}

type CreateTaskCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// TaskFilter mirrors the query surface the dashboard uses: equality on
// assignee/program/status and a due-date range, with a small ordering set.
type TaskFilter struct {
	AssignedTo *uuid.UUID
	ProgramID  *uuid.UUID
	Status     string
	DueAfter   *time.Time
	DueBefore  *time.Time
	OrderBy    string // "created_at" (default) or "name"
}
