package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/db"
	"github.com/dnoglop/task-joule/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func testCache() *cache.Store {
	return cache.New(64, time.Minute)
}

func seedProfile(t *testing.T, gdb *gorm.DB, name, email string, role constants.RoleEnum) models.Profile {
	t.Helper()
	profile := models.Profile{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   name,
		Email:  email,
		Role:   string(role),
	}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

func seedProgram(t *testing.T, gdb *gorm.DB, name string) models.Program {
	t.Helper()
	program := models.Program{
		ID:   uuid.New(),
		Name: name,
	}
	if err := gdb.Create(&program).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return program
}

func seedTask(t *testing.T, gdb *gorm.DB, program models.Program, name string, mutate func(*models.Task)) models.Task {
	t.Helper()
	programID := program.ID
	task := models.Task{
		ID:          uuid.New(),
		ProgramID:   &programID,
		ProgramName: program.Name,
		TaskName:    name,
		Status:      string(constants.StatusPending),
	}
	if mutate != nil {
		mutate(&task)
	}
	if err := gdb.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func managerRequester(p models.Profile) Requester {
	return Requester{ProfileID: p.ID, Role: constants.RoleManager}
}

func employeeRequester(p models.Profile) Requester {
	return Requester{ProfileID: p.ID, Role: constants.RoleEmployee}
}

// stubMailer records sent emails instead of talking to SMTP.
type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *stubMailer) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func hoursPtr(h float64) *float64 { return &h }

func timePtr(t time.Time) *time.Time { return &t }
