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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService interface {
	List(ctx context.Context, req Requester) ([]models.Profile, error)
	Get(ctx context.Context, req Requester, id uuid.UUID) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, req Requester, id uuid.UUID, in *models.UpdateProfileRequest) (*models.Profile, error)
	Delete(ctx context.Context, req Requester, id uuid.UUID) error
	SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error
}

type profileService struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewProfileService(gdb *gorm.DB, store *cache.Store) ProfileService {
	return &profileService{db: gdb, cache: store}
}

func (s *profileService) List(ctx context.Context, req Requester) ([]models.Profile, error) {
	if !constants.Can(req.Role, constants.ActionViewEmployees) {
		return nil, ErrForbidden
	}

	const params = "order=name"
	if cached, ok := s.cache.Get(cache.EntityProfiles, params); ok {
		if profiles, ok := cached.([]models.Profile); ok {
			return profiles, nil
		}
	}

	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	s.cache.Put(cache.EntityProfiles, params, profiles)
	return profiles, nil
}

// Get returns a profile. Employees can only read their own.
func (s *profileService) Get(ctx context.Context, req Requester, id uuid.UUID) (*models.Profile, error) {
	if !constants.Can(req.Role, constants.ActionViewEmployees) && req.ProfileID != id {
		return nil, ErrForbidden
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetByUserID resolves the signed-in user's profile from the identity id.
func (s *profileService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update applies a partial field set. Email is immutable; role changes
// require the edit_employee capability. Anyone can edit their own name,
// area and avatar.
func (s *profileService) Update(ctx context.Context, req Requester, id uuid.UUID, in *models.UpdateProfileRequest) (*models.Profile, error) {
	editingSelf := req.ProfileID == id
	if !editingSelf && !constants.Can(req.Role, constants.ActionEditEmployee) {
		return nil, ErrForbidden
	}
	if in.Role != nil && !constants.Can(req.Role, constants.ActionEditEmployee) {
		return nil, ErrForbidden
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Area != nil {
		updates["area"] = *in.Area
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}
	if len(updates) == 0 {
		return &profile, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.MutationUpdateProfile)

	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Delete removes the profile AND its backing identity, and unassigns the
// person's tasks. Leaving the identity behind would let a deleted employee
// keep logging in.
func (s *profileService) Delete(ctx context.Context, req Requester, id uuid.UUID) error {
	if !constants.Can(req.Role, constants.ActionDeleteEmployee) {
		return ErrForbidden
	}
	if req.ProfileID == id {
		return errors.New("you cannot delete your own profile")
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("assigned_to = ?", id).Update("assigned_to", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Profile{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Identity{}, "id = ?", profile.UserID).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(cache.MutationDeleteProfile)
	return nil
}

func (s *profileService) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{"avatar_url": url, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	s.cache.Invalidate(cache.MutationUpdateProfile)
	return nil
}
