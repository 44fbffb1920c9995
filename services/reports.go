package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
)

// ProgramReport pairs a program with its task rollup.
type ProgramReport struct {
	Program models.Program `json:"program"`
	Rollup  TaskRollup     `json:"rollup"`
}

// EmployeeReport pairs a profile with the rollup of their assigned tasks.
type EmployeeReport struct {
	Profile models.Profile `json:"profile"`
	Rollup  TaskRollup     `json:"rollup"`
}

type ReportService interface {
	Summary(ctx context.Context, req Requester, now time.Time) (*Summary, error)
	Programs(ctx context.Context, now time.Time) ([]ProgramReport, error)
	Employees(ctx context.Context, req Requester, now time.Time) ([]EmployeeReport, error)
	EmployeeMetrics(ctx context.Context, req Requester, profileID uuid.UUID, now time.Time) (*TaskRollup, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(gdb *gorm.DB) ReportService {
	return &reportService{db: gdb}
}

// Summary computes the dashboard headline block. Employees get a summary of
// their own tasks; managers of everything.
func (s *reportService) Summary(ctx context.Context, req Requester, now time.Time) (*Summary, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{})
	if req.Role != constants.RoleManager {
		query = query.Where("assigned_to = ?", req.ProfileID)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	summary := Summarize(tasks, now)
	return &summary, nil
}

func (s *reportService) Programs(ctx context.Context, now time.Time) ([]ProgramReport, error) {
	var programs []models.Program
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, err
	}
	rollups := RollupByProgram(tasks, now)

	reports := make([]ProgramReport, 0, len(programs))
	for _, program := range programs {
		reports = append(reports, ProgramReport{
			Program: program,
			Rollup:  rollups[program.ID],
		})
	}
	return reports, nil
}

func (s *reportService) Employees(ctx context.Context, req Requester, now time.Time) ([]EmployeeReport, error) {
	if !constants.Can(req.Role, constants.ActionViewTeamReports) {
		return nil, ErrForbidden
	}

	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, err
	}
	rollups := RollupByEmployee(tasks, now)

	reports := make([]EmployeeReport, 0, len(profiles))
	for _, profile := range profiles {
		reports = append(reports, EmployeeReport{
			Profile: profile,
			Rollup:  rollups[profile.ID],
		})
	}
	return reports, nil
}

// EmployeeMetrics backs the employee-details page. Employees may only ask
// about themselves.
func (s *reportService) EmployeeMetrics(ctx context.Context, req Requester, profileID uuid.UUID, now time.Time) (*TaskRollup, error) {
	if !constants.Can(req.Role, constants.ActionViewTeamReports) && req.ProfileID != profileID {
		return nil, ErrForbidden
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).Where("assigned_to = ?", profileID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	r := rollup(tasks, now)
	return &r, nil
}
