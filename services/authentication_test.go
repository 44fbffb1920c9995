package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/utils"
)

// seedActiveAccount creates an active identity plus its profile so login
// tests can skip the invite dance.
func seedActiveAccount(t *testing.T, gdb *gorm.DB, email, password string) (models.Identity, models.Profile) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	identity := models.Identity{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		Status:   "active",
	}
	if err := gdb.Create(&identity).Error; err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	profile := models.Profile{
		ID:     uuid.New(),
		UserID: identity.ID,
		Name:   "Seeded",
		Email:  email,
		Role:   string(constants.RoleEmployee),
	}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return identity, profile
}

func TestInviteAcceptLoginFlow(t *testing.T) {
	gdb := testDB(t)
	invites := NewInviteService(gdb, testCache(), &stubMailer{})
	auth := NewAuthenticationService(gdb)
	manager := seedProfile(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)

	if _, err := invites.InviteEmployee(context.Background(), managerRequester(manager), &models.InviteEmployeeRequest{
		Name:  "Ana",
		Email: "ana@joule.org",
		Role:  string(constants.RoleEmployee),
	}); err != nil {
		t.Fatalf("InviteEmployee: %v", err)
	}

	// cannot log in before accepting
	if _, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@joule.org",
		Password: "whatever",
	}); err == nil {
		t.Fatalf("pending account logged in")
	}

	var identity models.Identity
	if err := gdb.Where("email = ?", "ana@joule.org").First(&identity).Error; err != nil {
		t.Fatalf("identity: %v", err)
	}

	accepted, err := auth.AcceptInvite(context.Background(), &models.AcceptInviteRequest{
		Token:    *identity.InviteToken,
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("AcceptInvite: %v", err)
	}
	if accepted.Status != "active" {
		t.Errorf("status = %q, want active", accepted.Status)
	}

	resp, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@joule.org",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Errorf("no access token issued")
	}
	if resp.Profile.Email != "ana@joule.org" {
		t.Errorf("profile = %+v", resp.Profile)
	}

	claims, err := utils.ParseJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Role != string(constants.RoleEmployee) {
		t.Errorf("claims role = %q", claims.Role)
	}

	// the invite token must be single-use
	if _, err := auth.AcceptInvite(context.Background(), &models.AcceptInviteRequest{
		Token:    "stale",
		Password: "x",
	}); err == nil {
		t.Errorf("bogus token accepted")
	}
}

func TestAcceptInviteExpired(t *testing.T) {
	gdb := testDB(t)
	auth := NewAuthenticationService(gdb)

	token := "expired-token"
	past := time.Now().Add(-time.Hour)
	identity := models.Identity{
		Email:       "late@joule.org",
		Status:      "pending",
		InviteToken: &token,
		ExpiresAt:   &past,
	}
	identity.ID = uuid.New()
	if err := gdb.Create(&identity).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := auth.AcceptInvite(context.Background(), &models.AcceptInviteRequest{
		Token:    token,
		Password: "x",
	}); err == nil {
		t.Errorf("expired invite accepted")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	gdb := testDB(t)
	auth := NewAuthenticationService(gdb)
	seedActiveAccount(t, gdb, "ana@joule.org", "right-pass")

	if _, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@joule.org",
		Password: "wrong-pass",
	}); err == nil {
		t.Errorf("wrong password logged in")
	}
	if _, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@joule.org",
		Password: "x",
	}); err == nil {
		t.Errorf("unknown email logged in")
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	gdb := testDB(t)
	auth := NewAuthenticationService(gdb)
	identity, _ := seedActiveAccount(t, gdb, "ana@joule.org", "old-pass")

	claims := &utils.JWTClaims{UserID: identity.ID.String()}

	if err := auth.ChangePassword(context.Background(), claims, "bad-old", "new-pass"); err == nil {
		t.Errorf("wrong old password accepted")
	}
	if err := auth.ChangePassword(context.Background(), claims, "old-pass", "new-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	var reloaded models.Identity
	if err := gdb.First(&reloaded, "id = ?", identity.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.TokenVersion != identity.TokenVersion+1 {
		t.Errorf("token version = %d, want %d (outstanding JWTs must die)", reloaded.TokenVersion, identity.TokenVersion+1)
	}

	if _, err := auth.Login(context.Background(), &models.LoginRequest{
		Email:    "ana@joule.org",
		Password: "new-pass",
	}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}
