package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrForbidden    = errors.New("you do not have permission for this operation")
)

// Requester identifies the caller for scoping decisions.
type Requester struct {
	ProfileID uuid.UUID
	Role      constants.RoleEnum
}

func (r Requester) isManager() bool {
	return r.Role == constants.RoleManager
}

type TaskService interface {
	List(ctx context.Context, req Requester, filter models.TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, req Requester, id uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, req Requester, in *models.CreateTaskRequest) (*models.Task, error)
	Update(ctx context.Context, req Requester, id uuid.UUID, in *models.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, req Requester, id uuid.UUID) error
	ListComments(ctx context.Context, req Requester, taskID uuid.UUID) ([]models.TaskComment, error)
	AddComment(ctx context.Context, req Requester, taskID uuid.UUID, comment string) (*models.TaskComment, error)
}

type taskService struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewTaskService(gdb *gorm.DB, store *cache.Store) TaskService {
	return &taskService{db: gdb, cache: store}
}

// List fetches tasks with the dashboard's filter surface. Employees are
// force-scoped to their own assigned tasks regardless of what the filter
// asks for.
func (s *taskService) List(ctx context.Context, req Requester, filter models.TaskFilter) ([]models.Task, error) {
	if !req.isManager() {
		own := req.ProfileID
		filter.AssignedTo = &own
	}

	params := filterParams(filter)
	if cached, ok := s.cache.Get(cache.EntityTasks, params); ok {
		if tasks, ok := cached.([]models.Task); ok {
			return tasks, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&models.Task{})
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.ProgramID != nil {
		query = query.Where("program_id = ?", *filter.ProgramID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DueAfter != nil {
		query = query.Where("due_date >= ?", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date <= ?", *filter.DueBefore)
	}
	switch filter.OrderBy {
	case "name":
		query = query.Order("task_name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	s.cache.Put(cache.EntityTasks, params, tasks)
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, req Requester, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if !req.isManager() {
		if task.AssignedTo == nil || *task.AssignedTo != req.ProfileID {
			return nil, ErrTaskNotFound // do not reveal other people's tasks
		}
	}
	return &task, nil
}

func (s *taskService) Create(ctx context.Context, req Requester, in *models.CreateTaskRequest) (*models.Task, error) {
	if !constants.Can(req.Role, constants.ActionCreateTask) {
		return nil, ErrForbidden
	}

	programName := in.ProgramName
	if in.ProgramID != nil {
		name, err := s.programName(ctx, *in.ProgramID)
		if err != nil {
			return nil, err
		}
		programName = name
	}
	if programName == "" {
		return nil, errors.New("program_name is required")
	}

	status, _ := constants.ParseStatus(in.Status)
	creator := req.ProfileID
	task := models.Task{
		ID:             uuid.New(),
		ProgramID:      in.ProgramID,
		ProgramName:    programName,
		TaskName:       in.TaskName,
		Description:    in.Description,
		EstimatedHours: in.EstimatedHours,
		AssignedTo:     in.AssignedTo,
		DueDate:        in.DueDate,
		Status:         string(status),
		CurrentPhase:   in.CurrentPhase,
		Observations:   in.Observations,
		Comments:       in.Comments,
		CreatedBy:      &creator,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.MutationCreateTask)
	return &task, nil
}

// Update applies a partial field set. Managers may change anything;
// employees may only move their own tasks through status, current_phase and
// observations.
func (s *taskService) Update(ctx context.Context, req Requester, id uuid.UUID, in *models.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if !constants.Can(req.Role, constants.ActionEditAnyTask) {
		if task.AssignedTo == nil || *task.AssignedTo != req.ProfileID {
			return nil, ErrForbidden
		}
		if in.TaskName != nil || in.ProgramID != nil || in.AssignedTo != nil ||
			in.EstimatedHours != nil || in.DueDate != nil || in.Description != nil ||
			in.Comments != nil {
			return nil, ErrForbidden
		}
	}

	updates := map[string]any{}
	if in.TaskName != nil {
		updates["task_name"] = *in.TaskName
	}
	if in.ProgramID != nil {
		// keep the denormalized name in sync with the reference
		name, err := s.programName(ctx, *in.ProgramID)
		if err != nil {
			return nil, err
		}
		updates["program_id"] = *in.ProgramID
		updates["program_name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.EstimatedHours != nil {
		if *in.EstimatedHours < 0 {
			return nil, errors.New("estimated_hours must be non-negative")
		}
		updates["estimated_hours"] = *in.EstimatedHours
	}
	if in.AssignedTo != nil {
		if *in.AssignedTo == uuid.Nil {
			updates["assigned_to"] = nil // zero UUID unassigns
		} else {
			updates["assigned_to"] = *in.AssignedTo
		}
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			updates["due_date"] = nil // zero time clears the due date
		} else {
			updates["due_date"] = *in.DueDate
		}
	}
	if in.Status != nil {
		if !constants.IsValidStatus(*in.Status) {
			return nil, fmt.Errorf("invalid status %q", *in.Status)
		}
		updates["status"] = *in.Status
	}
	if in.CurrentPhase != nil {
		updates["current_phase"] = *in.CurrentPhase
	}
	if in.Observations != nil {
		updates["observations"] = *in.Observations
	}
	if in.Comments != nil {
		updates["comments"] = *in.Comments
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
		if err := s.db.WithContext(ctx).Model(&task).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.cache.Invalidate(cache.MutationUpdateTask)
		if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
			return nil, err
		}
	}
	return &task, nil
}

func (s *taskService) Delete(ctx context.Context, req Requester, id uuid.UUID) error {
	if !constants.Can(req.Role, constants.ActionDeleteTask) {
		return ErrForbidden
	}
	result := s.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	s.cache.Invalidate(cache.MutationDeleteTask)
	return nil
}

func (s *taskService) ListComments(ctx context.Context, req Requester, taskID uuid.UUID) ([]models.TaskComment, error) {
	if _, err := s.Get(ctx, req, taskID); err != nil {
		return nil, err
	}
	var comments []models.TaskComment
	if err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *taskService) AddComment(ctx context.Context, req Requester, taskID uuid.UUID, comment string) (*models.TaskComment, error) {
	if _, err := s.Get(ctx, req, taskID); err != nil {
		return nil, err
	}
	tc := models.TaskComment{
		ID:        uuid.New(),
		TaskID:    taskID,
		ProfileID: req.ProfileID,
		Comment:   comment,
	}
	if err := s.db.WithContext(ctx).Create(&tc).Error; err != nil {
		return nil, err
	}
	return &tc, nil
}

func (s *taskService) programName(ctx context.Context, programID uuid.UUID) (string, error) {
	var program models.Program
	if err := s.db.WithContext(ctx).Select("name").First(&program, "id = ?", programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("program not found")
		}
		return "", err
	}
	return program.Name, nil
}

// filterParams builds a stable cache key fragment from the filter.
func filterParams(f models.TaskFilter) string {
	assigned, program, after, before := "", "", "", ""
	if f.AssignedTo != nil {
		assigned = f.AssignedTo.String()
	}
	if f.ProgramID != nil {
		program = f.ProgramID.String()
	}
	if f.DueAfter != nil {
		after = f.DueAfter.UTC().Format(time.RFC3339)
	}
	if f.DueBefore != nil {
		before = f.DueBefore.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("assigned=%s&program=%s&status=%s&due_gte=%s&due_lte=%s&order=%s",
		assigned, program, f.Status, after, before, f.OrderBy)
}
