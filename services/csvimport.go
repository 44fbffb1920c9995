package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
)

// ErrNoValidRows is returned when every CSV row was skipped or the file had
// no data rows at all.
var ErrNoValidRows = errors.New("no valid rows found in CSV")

// ImportRow is one parsed CSV data row, keyed by header column name.
type ImportRow map[string]string

func (r ImportRow) empty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

// RowIssue reports a problem with one row. Row indexes are 1-based to match
// what a person sees in a spreadsheet.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes one CSV import run. Skipped rows produced no
// payload; warnings are rows that were inserted with a defaulted field.
type ImportResult struct {
	Inserted int        `json:"inserted"`
	Skipped  []RowIssue `json:"skipped"`
	Warnings []RowIssue `json:"warnings"`
}

type TaskImportService interface {
	Import(ctx context.Context, creatorProfileID uuid.UUID, r io.Reader) (*ImportResult, error)
}

type taskImportService struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewTaskImportService(gdb *gorm.DB, store *cache.Store) TaskImportService {
	return &taskImportService{db: gdb, cache: store}
}

// ParseCSV reads a header-driven CSV into field-name→value rows. Rows
// shorter than the header are tolerated; missing cells read as empty. Fully
// empty rows are kept so that downstream row numbers match the file.
func ParseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+1, err)
		}
		row := make(ImportRow, len(header))
		for i, name := range header {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[name] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// BuildTaskPayloads runs the per-row validation pipeline and returns the
// insert batch plus skipped rows and soft warnings.
//
// Skip rules (row contributes no payload): missing task_name or
// program_name, or a program_name absent from the lookup table. Everything
// else degrades softly: unknown assignee email, unparseable due date,
// invalid status, and malformed or negative estimated_hours leave the field
// unset/defaulted and record a warning.
func BuildTaskPayloads(
	rows []ImportRow,
	programsByName map[string]uuid.UUID,
	profilesByEmail map[string]uuid.UUID,
	creatorProfileID uuid.UUID,
) ([]models.Task, []RowIssue, []RowIssue) {
	var (
		payloads []models.Task
		skipped  []RowIssue
		warnings []RowIssue
	)

	for i, row := range rows {
		rowNum := i + 1
		if row.empty() {
			// blank filler rows are ignored but still counted, so issue
			// numbers line up with the file
			continue
		}

		taskName := row["task_name"]
		programName := row["program_name"]
		if taskName == "" || programName == "" {
			skipped = append(skipped, RowIssue{Row: rowNum, Reason: "missing required field task_name or program_name"})
			continue
		}

		programID, ok := programsByName[programName]
		if !ok {
			skipped = append(skipped, RowIssue{Row: rowNum, Reason: fmt.Sprintf("unknown program %q", programName)})
			continue
		}

		var assignedTo *uuid.UUID
		if email := row["assigned_to_email"]; email != "" {
			if id, ok := profilesByEmail[email]; ok {
				assignedTo = &id
			} else {
				warnings = append(warnings, RowIssue{Row: rowNum, Reason: fmt.Sprintf("employee email %q not found, task left unassigned", email)})
			}
		}

		var dueDate *time.Time
		if raw := row["due_date"]; raw != "" {
			if parsed, err := parseDueDate(raw); err == nil {
				dueDate = &parsed
			} else {
				warnings = append(warnings, RowIssue{Row: rowNum, Reason: fmt.Sprintf("invalid due_date %q, due date ignored", raw)})
			}
		}

		status, valid := constants.ParseStatus(row["status"])
		if !valid {
			warnings = append(warnings, RowIssue{Row: rowNum, Reason: fmt.Sprintf("invalid status %q, using pending", row["status"])})
		}

		var estimatedHours *float64
		if raw := row["estimated_hours"]; raw != "" {
			if hours, err := strconv.ParseFloat(raw, 64); err == nil && hours >= 0 {
				estimatedHours = &hours
			} else {
				warnings = append(warnings, RowIssue{Row: rowNum, Reason: fmt.Sprintf("invalid estimated_hours %q, field ignored", raw)})
			}
		}

		creator := creatorProfileID
		payloads = append(payloads, models.Task{
			ID:             uuid.New(),
			ProgramID:      &programID,
			ProgramName:    programName, // original string, preserved verbatim
			TaskName:       taskName,
			Description:    row["description"],
			EstimatedHours: estimatedHours,
			AssignedTo:     assignedTo,
			DueDate:        dueDate,
			Status:         string(status),
			CurrentPhase:   row["current_phase"],
			Observations:   row["observations"],
			Comments:       row["comments"],
			CreatedBy:      &creator,
		})
	}

	return payloads, skipped, warnings
}

// Import parses the CSV, validates every row client-side, then submits all
// constructed payloads in one insert: either the whole batch lands or the
// whole call fails.
func (s *taskImportService) Import(ctx context.Context, creatorProfileID uuid.UUID, r io.Reader) (*ImportResult, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	programsByName, profilesByEmail, err := s.lookupTables(ctx)
	if err != nil {
		return nil, err
	}

	payloads, skipped, warnings := BuildTaskPayloads(rows, programsByName, profilesByEmail, creatorProfileID)
	for _, issue := range skipped {
		slog.Warn("CSV row skipped", "row", issue.Row, "reason", issue.Reason)
	}
	for _, issue := range warnings {
		slog.Warn("CSV row degraded", "row", issue.Row, "reason", issue.Reason)
	}

	if len(payloads) == 0 {
		return &ImportResult{Skipped: skipped, Warnings: warnings}, ErrNoValidRows
	}

	if err := s.db.WithContext(ctx).Create(&payloads).Error; err != nil {
		return nil, fmt.Errorf("failed to import tasks: %w", err)
	}
	s.cache.Invalidate(cache.MutationImportTasks)

	return &ImportResult{
		Inserted: len(payloads),
		Skipped:  skipped,
		Warnings: warnings,
	}, nil
}

func (s *taskImportService) lookupTables(ctx context.Context) (map[string]uuid.UUID, map[string]uuid.UUID, error) {
	var programs []models.Program
	if err := s.db.WithContext(ctx).Select("id", "name").Find(&programs).Error; err != nil {
		return nil, nil, err
	}
	programsByName := make(map[string]uuid.UUID, len(programs))
	for _, p := range programs {
		programsByName[p.Name] = p.ID
	}

	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Select("id", "email").Find(&profiles).Error; err != nil {
		return nil, nil, err
	}
	profilesByEmail := make(map[string]uuid.UUID, len(profiles))
	for _, p := range profiles {
		profilesByEmail[p.Email] = p.ID
	}

	return programsByName, profilesByEmail, nil
}

// parseDueDate accepts plain calendar dates and RFC 3339 timestamps.
func parseDueDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
