package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
)

// Pure aggregation functions over in-memory task lists. They back every
// metric card and rollup, so they must stay side-effect free: same input,
// same output, input never mutated.

// CountByStatus counts tasks whose status equals the given value.
func CountByStatus(tasks []models.Task, status constants.TaskStatus) int {
	count := 0
	for _, t := range tasks {
		if t.Status == string(status) {
			count++
		}
	}
	return count
}

// Overdue returns the tasks with a due date before now whose status is
// neither completed nor cancelled.
func Overdue(tasks []models.Task, now time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.DueDate == nil || !t.DueDate.Before(now) {
			continue
		}
		if t.Status == string(constants.StatusCompleted) || t.Status == string(constants.StatusCancelled) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TotalEstimatedHours sums estimated hours, treating unset as 0.
func TotalEstimatedHours(tasks []models.Task) float64 {
	var sum float64
	for _, t := range tasks {
		if t.EstimatedHours != nil {
			sum += *t.EstimatedHours
		}
	}
	return sum
}

// TaskRollup aggregates one group of tasks.
type TaskRollup struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Overdue        int     `json:"overdue"`
	EstimatedHours float64 `json:"estimated_hours"`
}

func rollup(tasks []models.Task, now time.Time) TaskRollup {
	return TaskRollup{
		Total:          len(tasks),
		Completed:      CountByStatus(tasks, constants.StatusCompleted),
		Overdue:        len(Overdue(tasks, now)),
		EstimatedHours: TotalEstimatedHours(tasks),
	}
}

// RollupByProgram groups tasks by program id and aggregates each group.
// Tasks without a program are left out.
func RollupByProgram(tasks []models.Task, now time.Time) map[uuid.UUID]TaskRollup {
	groups := make(map[uuid.UUID][]models.Task)
	for _, t := range tasks {
		if t.ProgramID == nil {
			continue
		}
		groups[*t.ProgramID] = append(groups[*t.ProgramID], t)
	}
	out := make(map[uuid.UUID]TaskRollup, len(groups))
	for id, group := range groups {
		out[id] = rollup(group, now)
	}
	return out
}

// RollupByEmployee groups tasks by assignee and aggregates each group.
// Unassigned tasks are left out.
func RollupByEmployee(tasks []models.Task, now time.Time) map[uuid.UUID]TaskRollup {
	groups := make(map[uuid.UUID][]models.Task)
	for _, t := range tasks {
		if t.AssignedTo == nil {
			continue
		}
		groups[*t.AssignedTo] = append(groups[*t.AssignedTo], t)
	}
	out := make(map[uuid.UUID]TaskRollup, len(groups))
	for id, group := range groups {
		out[id] = rollup(group, now)
	}
	return out
}

// Summary is the dashboard headline block.
type Summary struct {
	Total          int                          `json:"total"`
	ByStatus       map[constants.TaskStatus]int `json:"by_status"`
	Overdue        int                          `json:"overdue"`
	EstimatedHours float64                      `json:"estimated_hours"`
}

// Summarize computes the headline metrics for a task list.
func Summarize(tasks []models.Task, now time.Time) Summary {
	byStatus := map[constants.TaskStatus]int{
		constants.StatusPending:    0,
		constants.StatusInProgress: 0,
		constants.StatusCompleted:  0,
		constants.StatusOnHold:     0,
		constants.StatusCancelled:  0,
	}
	for status := range byStatus {
		byStatus[status] = CountByStatus(tasks, status)
	}
	return Summary{
		Total:          len(tasks),
		ByStatus:       byStatus,
		Overdue:        len(Overdue(tasks, now)),
		EstimatedHours: TotalEstimatedHours(tasks),
	}
}
