package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/utils"
)

// InviteService is the distinct creation path for employees: a profile
// needs a backing authenticated identity, so both rows are created together
// and the invitee activates the identity through the emailed token.
type InviteService interface {
	InviteEmployee(ctx context.Context, req Requester, in *models.InviteEmployeeRequest) (*models.InviteEmployeeResponse, error)
}

type inviteService struct {
	db     *gorm.DB
	cache  *cache.Store
	mailer utils.Mailer
}

func NewInviteService(gdb *gorm.DB, store *cache.Store, mailer utils.Mailer) InviteService {
	return &inviteService{db: gdb, cache: store, mailer: mailer}
}

func (s *inviteService) InviteEmployee(ctx context.Context, req Requester, in *models.InviteEmployeeRequest) (*models.InviteEmployeeResponse, error) {
	if !constants.Can(req.Role, constants.ActionInviteEmployee) {
		return nil, ErrForbidden
	}
	if !constants.IsValidRole(in.Role) {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}

	// 1. Refuse duplicate invitations
	var existing models.Identity
	if err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error; err == nil {
		if existing.Status == "active" {
			return nil, errors.New("an account with this email already exists")
		}
		return nil, errors.New("this email has already been invited")
	}

	// 2. Pending identity with a temporary password and a 48h invite token
	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, errors.New("failed to create temporary password")
	}
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)

	inviteToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, errors.New("failed to create invite token")
	}
	expiresAt := time.Now().Add(48 * time.Hour)

	identity := models.Identity{
		ID:          uuid.New(),
		Email:       in.Email,
		Password:    string(hashedPassword),
		Status:      "pending",
		InviteToken: &inviteToken,
		ExpiresAt:   &expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&identity).Error; err != nil {
		return nil, err
	}

	// 3. Profile row; roll the identity back if it cannot be created so no
	// orphan identity is left able to accept the invite
	profile := models.Profile{
		ID:        uuid.New(),
		UserID:    identity.ID,
		Name:      in.Name,
		Email:     in.Email,
		Area:      in.Area,
		Role:      in.Role,
		AvatarURL: in.AvatarURL,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if delErr := s.db.WithContext(ctx).Delete(&models.Identity{}, "id = ?", identity.ID).Error; delErr != nil {
			slog.Error("failed to roll back identity after profile insert failure", "error", delErr)
		}
		return nil, err
	}
	s.cache.Invalidate(cache.MutationInviteProfile)

	// 4. Send the invitation email asynchronously
	var inviterName string
	s.db.WithContext(ctx).Model(&models.Profile{}).Select("name").Where("id = ?", req.ProfileID).Scan(&inviterName)

	frontendURL := os.Getenv("FRONTEND_BASE_URL")
	inviteLink := fmt.Sprintf("%s/accept-invite?token=%s", frontendURL, inviteToken)
	go func() {
		emailBody := fmt.Sprintf(`
			<h2>You're invited to join Instituto Joule!</h2>
			<p>Hi %s,</p>
			<p>%s has invited you to the Instituto Joule task dashboard.</p>
			<p>Click the button below to accept the invitation and set your password:</p>
			<a href="%s" style="background:#4F46E5;color:white;padding:10px 20px;border-radius:6px;text-decoration:none;">Accept Invitation</a>
			<p>This link will expire in 48 hours.</p>
		`, in.Name, inviterName, inviteLink)

		if err := s.mailer.SendEmail(in.Email, "You're invited to Instituto Joule", emailBody); err != nil {
			slog.Warn("failed to send invitation email", "email", in.Email, "error", err)
		}
	}()

	return &models.InviteEmployeeResponse{
		UserID:    identity.ID,
		ProfileID: profile.ID,
		Email:     profile.Email,
		Name:      profile.Name,
		Role:      profile.Role,
		Status:    identity.Status,
		ExpiresAt: &expiresAt,
	}, nil
}
