package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
)

var ErrProgramNotFound = errors.New("program not found")

type ProgramService interface {
	List(ctx context.Context) ([]models.Program, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Program, error)
	Create(ctx context.Context, req Requester, in *models.CreateProgramRequest) (*models.Program, error)
	Update(ctx context.Context, req Requester, id uuid.UUID, in *models.UpdateProgramRequest) (*models.Program, error)
	Delete(ctx context.Context, req Requester, id uuid.UUID) error
}

type programService struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewProgramService(gdb *gorm.DB, store *cache.Store) ProgramService {
	return &programService{db: gdb, cache: store}
}

func (s *programService) List(ctx context.Context) ([]models.Program, error) {
	const params = "order=name"
	if cached, ok := s.cache.Get(cache.EntityPrograms, params); ok {
		if programs, ok := cached.([]models.Program); ok {
			return programs, nil
		}
	}

	var programs []models.Program
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&programs).Error; err != nil {
		return nil, err
	}
	s.cache.Put(cache.EntityPrograms, params, programs)
	return programs, nil
}

func (s *programService) Get(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	var program models.Program
	if err := s.db.WithContext(ctx).First(&program, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (s *programService) Create(ctx context.Context, req Requester, in *models.CreateProgramRequest) (*models.Program, error) {
	if !constants.Can(req.Role, constants.ActionEditProgram) {
		return nil, ErrForbidden
	}

	var existing models.Program
	if err := s.db.WithContext(ctx).Where("name = ?", in.Name).First(&existing).Error; err == nil {
		return nil, errors.New("a program with this name already exists")
	}

	creator := req.ProfileID
	program := models.Program{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   &creator,
	}
	if err := s.db.WithContext(ctx).Create(&program).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.MutationCreateProgram)
	return &program, nil
}

func (s *programService) Update(ctx context.Context, req Requester, id uuid.UUID, in *models.UpdateProgramRequest) (*models.Program, error) {
	if !constants.Can(req.Role, constants.ActionEditProgram) {
		return nil, ErrForbidden
	}

	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil && *in.Name != program.Name {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) == 0 {
		return program, nil
	}
	updates["updated_at"] = time.Now()

	// A rename must also refresh the denormalized program_name on tasks.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Program{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if name, ok := updates["name"]; ok {
			if err := tx.Model(&models.Task{}).Where("program_id = ?", id).Update("program_name", name).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(cache.MutationUpdateProgram)
	if _, renamed := updates["name"]; renamed {
		s.cache.Invalidate(cache.MutationUpdateTask)
	}
	return s.Get(ctx, id)
}

// Delete removes the program and its tasks in one transaction; the cascade
// is the server's responsibility, clients only invalidate and refetch.
func (s *programService) Delete(ctx context.Context, req Requester, id uuid.UUID) error {
	if !constants.Can(req.Role, constants.ActionDeleteProgram) {
		return ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Task{}, "program_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Program{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProgramNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(cache.MutationDeleteProgram)
	return nil
}
