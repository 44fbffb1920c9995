package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/storage"
)

// AvatarService stores profile pictures in object storage and writes the
// resulting URL back onto the profile.
type AvatarService interface {
	Upload(ctx context.Context, req Requester, profileID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error)
}

type avatarService struct {
	store    *storage.Client
	profiles ProfileService
}

func NewAvatarService(store *storage.Client, profiles ProfileService) AvatarService {
	return &avatarService{store: store, profiles: profiles}
}

func (s *avatarService) Upload(ctx context.Context, req Requester, profileID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error) {
	if req.ProfileID != profileID && !constants.Can(req.Role, constants.ActionEditEmployee) {
		return "", ErrForbidden
	}

	key := fmt.Sprintf("%s%s", profileID, path.Ext(filename))
	url, err := s.store.PutObject(ctx, key, r, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.profiles.SetAvatarURL(ctx, profileID, url); err != nil {
		return "", err
	}
	return url, nil
}
