package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
)

func TestProgramCreateAndDuplicateName(t *testing.T) {
	gdb := testDB(t)
	svc := NewProgramService(gdb, testCache())
	manager := seedProfile(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	req := managerRequester(manager)

	program, err := svc.Create(context.Background(), req, &models.CreateProgramRequest{Name: "Solar"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if program.CreatedBy == nil || *program.CreatedBy != manager.ID {
		t.Errorf("created_by not recorded")
	}

	if _, err := svc.Create(context.Background(), req, &models.CreateProgramRequest{Name: "Solar"}); err == nil {
		t.Errorf("duplicate program name accepted")
	}
}

func TestProgramCreateForbiddenForEmployee(t *testing.T) {
	gdb := testDB(t)
	svc := NewProgramService(gdb, testCache())
	ana := seedProfile(t, gdb, "Ana", "ana@joule.org", constants.RoleEmployee)

	_, err := svc.Create(context.Background(), employeeRequester(ana), &models.CreateProgramRequest{Name: "Solar"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestProgramRenameSyncsTaskProgramName(t *testing.T) {
	gdb := testDB(t)
	svc := NewProgramService(gdb, testCache())
	manager := seedProfile(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	program := seedProgram(t, gdb, "Solar")
	other := seedProgram(t, gdb, "Wind")
	seedTask(t, gdb, program, "a", nil)
	seedTask(t, gdb, other, "b", nil)

	newName := "Solar 2.0"
	if _, err := svc.Update(context.Background(), managerRequester(manager), program.ID, &models.UpdateProgramRequest{
		Name: &newName,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var tasks []models.Task
	if err := gdb.Where("program_id = ?", program.ID).Find(&tasks).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	for _, task := range tasks {
		if task.ProgramName != newName {
			t.Errorf("task %q program_name = %q, want %q", task.TaskName, task.ProgramName, newName)
		}
	}

	var untouched models.Task
	gdb.Where("program_id = ?", other.ID).First(&untouched)
	if untouched.ProgramName != "Wind" {
		t.Errorf("rename leaked into other program's tasks: %q", untouched.ProgramName)
	}
}

func TestProgramDeleteCascadesTasks(t *testing.T) {
	gdb := testDB(t)
	svc := NewProgramService(gdb, testCache())
	manager := seedProfile(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	program := seedProgram(t, gdb, "Solar")
	other := seedProgram(t, gdb, "Wind")
	seedTask(t, gdb, program, "a", nil)
	seedTask(t, gdb, program, "b", nil)
	seedTask(t, gdb, other, "c", nil)

	if err := svc.Delete(context.Background(), managerRequester(manager), program.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var count int64
	gdb.Model(&models.Task{}).Count(&count)
	if count != 1 {
		t.Errorf("tasks remaining = %d, want 1 (only the other program's)", count)
	}
	if _, err := svc.Get(context.Background(), program.ID); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("err = %v, want ErrProgramNotFound", err)
	}
}

// Deleting a program must flush both the program list and the task list
// caches, since its tasks go with it.
func TestProgramDeleteInvalidatesBothCaches(t *testing.T) {
	gdb := testDB(t)
	store := testCache()
	programs := NewProgramService(gdb, store)
	tasks := NewTaskService(gdb, store)
	manager := seedProfile(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	program := seedProgram(t, gdb, "Solar")
	seedTask(t, gdb, program, "a", nil)
	req := managerRequester(manager)

	// warm both caches
	if _, err := programs.List(context.Background()); err != nil {
		t.Fatalf("List programs: %v", err)
	}
	warm, err := tasks.List(context.Background(), req, models.TaskFilter{})
	if err != nil {
		t.Fatalf("List tasks: %v", err)
	}
	if len(warm) != 1 {
		t.Fatalf("precondition: expected 1 task")
	}

	if err := programs.Delete(context.Background(), req, program.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	progList, _ := programs.List(context.Background())
	if len(progList) != 0 {
		t.Errorf("program list after delete = %d, want 0 (stale cache?)", len(progList))
	}
	taskList, _ := tasks.List(context.Background(), req, models.TaskFilter{})
	if len(taskList) != 0 {
		t.Errorf("task list after program delete = %d, want 0 (stale cache?)", len(taskList))
	}
}

func TestProgramDeleteNotFound(t *testing.T) {
	gdb := testDB(t)
	svc := NewProgramService(gdb, testCache())
	manager := seedProfile(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	missing := seedProgram(t, gdb, "Solar").ID
	if err := svc.Delete(context.Background(), managerRequester(manager), missing); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), managerRequester(manager), missing); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("err = %v, want ErrProgramNotFound", err)
	}
}
