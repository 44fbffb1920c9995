package constants

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOnHold     TaskStatus = "on_hold"
	StatusCancelled  TaskStatus = "cancelled"
)

var validStatuses = map[TaskStatus]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusOnHold:     {},
	StatusCancelled:  {},
}

func IsValidStatus(s string) bool {
	_, ok := validStatuses[TaskStatus(s)]
	return ok
}

// ParseStatus returns the status for s, falling back to pending when s is
// not one of the five known values. The second return reports whether s was
// valid (an empty string is reported as valid and defaults silently).
func ParseStatus(s string) (TaskStatus, bool) {
	if s == "" {
		return StatusPending, true
	}
	if IsValidStatus(s) {
		return TaskStatus(s), true
	}
	return StatusPending, false
}
