package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/utils"
)

type AuthenticationService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	AcceptInvite(ctx context.Context, req *models.AcceptInviteRequest) (*models.AcceptInviteResponse, error)
	ChangePassword(ctx context.Context, claims *utils.JWTClaims, oldPassword, newPassword string) error
}

type authenticationService struct {
	db *gorm.DB
}

func NewAuthenticationService(gdb *gorm.DB) AuthenticationService {
	return &authenticationService{db: gdb}
}

func (s *authenticationService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var identity models.Identity
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&identity).Error; err != nil {
		return nil, errors.New("invalid credentials")
	}

	if identity.Status != "active" {
		return nil, errors.New("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", identity.ID).First(&profile).Error; err != nil {
		return nil, errors.New("profile not found for this account")
	}

	token, err := utils.GenerateJWT(utils.JWTUser{
		UserID:       identity.ID.String(),
		ProfileID:    profile.ID.String(),
		Role:         profile.Role,
		TokenVersion: identity.TokenVersion,
	})
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		Profile:     profile,
	}, nil
}

// AcceptInvite activates a pending identity: the invitee sets their real
// password and the invite token is cleared.
func (s *authenticationService) AcceptInvite(ctx context.Context, req *models.AcceptInviteRequest) (*models.AcceptInviteResponse, error) {
	var identity models.Identity
	if err := s.db.WithContext(ctx).Where("invite_token = ?", req.Token).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid or expired invite link")
		}
		return nil, err
	}

	if identity.Status == "active" {
		return nil, errors.New("invite has already been accepted")
	}
	if identity.ExpiresAt != nil && time.Now().After(*identity.ExpiresAt) {
		return nil, errors.New("invite link has expired")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	identity.Password = string(hashed)
	identity.Status = "active"
	identity.InviteToken = nil
	identity.ExpiresAt = nil
	identity.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(&identity).Error; err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", identity.ID).First(&profile).Error; err != nil {
		return nil, errors.New("profile not found for this account")
	}

	return &models.AcceptInviteResponse{
		UserID:    identity.ID,
		ProfileID: profile.ID,
		Email:     identity.Email,
		Status:    identity.Status,
	}, nil
}

// ChangePassword bumps the token version so every outstanding JWT becomes
// invalid.
func (s *authenticationService) ChangePassword(ctx context.Context, claims *utils.JWTClaims, oldPassword, newPassword string) error {
	var identity models.Identity
	if err := s.db.WithContext(ctx).First(&identity, "id = ?", claims.UserID).Error; err != nil {
		return errors.New("account not found")
	}

	if identity.Status != "active" {
		return errors.New("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(oldPassword)); err != nil {
		return errors.New("old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	identity.Password = string(hashed)
	identity.TokenVersion += 1
	identity.UpdatedAt = time.Now()

	return s.db.WithContext(ctx).Save(&identity).Error
}
