package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dnoglop/task-joule/cache"
	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/db"
	"github.com/dnoglop/task-joule/handlers"
	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
	"github.com/dnoglop/task-joule/storage"
	"github.com/dnoglop/task-joule/utils"
)

type noopMailer struct{}

func (noopMailer) SendEmail(to, subject, body string) error { return nil }

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	objects, err := storage.NewClient(storage.Config{})
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	sm := services.NewServiceManager(gdb, cache.New(64, time.Minute), objects, noopMailer{})
	return SetupRoutes(handlers.NewHandlerManager(sm), gdb), gdb
}

// seedAccount creates an active identity+profile pair and returns the
// profile along with a JWT for it.
func seedAccount(t *testing.T, gdb *gorm.DB, name, email string, role constants.RoleEnum) (models.Profile, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
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
		Name:   name,
		Email:  email,
		Role:   string(role),
	}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	token, err := utils.GenerateJWT(utils.JWTUser{
		UserID:       identity.ID.String(),
		ProfileID:    profile.ID.String(),
		Role:         profile.Role,
		TokenVersion: identity.TokenVersion,
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	return profile, token
}

func doRequest(r *gin.Engine, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, _ := testRouter(t)
	w := doRequest(r, http.MethodGet, "/healthz", "", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/tasks", "", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/v1/tasks", "not-a-jwt", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}
}

// A signed-in employee opening the team view must get a clean access-denied
// response, not a partial page.
func TestEmployeeCannotListProfiles(t *testing.T) {
	r, gdb := testRouter(t)
	_, managerToken := seedAccount(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	_, employeeToken := seedAccount(t, gdb, "Ana", "ana@joule.org", constants.RoleEmployee)

	w := doRequest(r, http.MethodGet, "/api/v1/profiles", employeeToken, nil, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("employee: status = %d, want 403", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/v1/profiles", managerToken, nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("manager: status = %d, want 200", w.Code)
	}
	var resp models.GenericResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error {
		t.Errorf("manager list flagged as error: %s", resp.Message)
	}
}

func TestLoginEndpoint(t *testing.T) {
	r, gdb := testRouter(t)
	seedAccount(t, gdb, "Ana", "ana@joule.org", constants.RoleEmployee)

	body := bytes.NewBufferString(`{"email":"ana@joule.org","password":"password"}`)
	w := doRequest(r, http.MethodPost, "/api/v1/login", "", body, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	body = bytes.NewBufferString(`{"email":"ana@joule.org","password":"wrong"}`)
	w = doRequest(r, http.MethodPost, "/api/v1/login", "", body, "application/json")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", w.Code)
	}
}

func TestTaskCrudOverHTTP(t *testing.T) {
	r, gdb := testRouter(t)
	_, managerToken := seedAccount(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	_, employeeToken := seedAccount(t, gdb, "Ana", "ana@joule.org", constants.RoleEmployee)

	program := models.Program{ID: uuid.New(), Name: "Solar"}
	if err := gdb.Create(&program).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}

	body := bytes.NewBufferString(`{"task_name":"Install panels","program_id":"` + program.ID.String() + `"}`)
	w := doRequest(r, http.MethodPost, "/api/v1/tasks", managerToken, body, "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}

	// employees cannot create tasks
	body = bytes.NewBufferString(`{"task_name":"x","program_id":"` + program.ID.String() + `"}`)
	w = doRequest(r, http.MethodPost, "/api/v1/tasks", employeeToken, body, "application/json")
	if w.Code != http.StatusForbidden {
		t.Errorf("employee create: status = %d, want 403", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/v1/tasks", managerToken, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Install panels") {
		t.Errorf("list does not include the created task")
	}
}

func TestImportTasksOverHTTP(t *testing.T) {
	r, gdb := testRouter(t)
	_, managerToken := seedAccount(t, gdb, "Gestor", "gestor@joule.org", constants.RoleManager)
	_, employeeToken := seedAccount(t, gdb, "Ana", "ana@joule.org", constants.RoleEmployee)

	program := models.Program{ID: uuid.New(), Name: "Solar"}
	if err := gdb.Create(&program).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}

	csv := "task_name,program_name\nInstall panels,Solar\nGhost,Wind\n"
	buildUpload := func() (*bytes.Buffer, string) {
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		part, err := mw.CreateFormFile("file", "tasks.csv")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := part.Write([]byte(csv)); err != nil {
			t.Fatalf("write csv: %v", err)
		}
		mw.Close()
		return buf, mw.FormDataContentType()
	}

	// import is manager-only
	buf, contentType := buildUpload()
	w := doRequest(r, http.MethodPost, "/api/v1/import/tasks", employeeToken, buf, contentType)
	if w.Code != http.StatusForbidden {
		t.Errorf("employee import: status = %d, want 403", w.Code)
	}

	buf, contentType = buildUpload()
	w = doRequest(r, http.MethodPost, "/api/v1/import/tasks", managerToken, buf, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("import: status = %d, body = %s", w.Code, w.Body.String())
	}

	var count int64
	gdb.Model(&models.Task{}).Count(&count)
	if count != 1 {
		t.Errorf("tasks imported = %d, want 1", count)
	}
}

// Changing the password bumps the identity's token version, which must kill
// tokens issued before the change.
func TestOldTokenRejectedAfterPasswordChange(t *testing.T) {
	r, gdb := testRouter(t)
	_, token := seedAccount(t, gdb, "Ana", "ana@joule.org", constants.RoleEmployee)

	w := doRequest(r, http.MethodGet, "/api/v1/me", token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("me before change: status = %d", w.Code)
	}

	body := bytes.NewBufferString(`{"old_password":"password","new_password":"brand-new-pass"}`)
	w = doRequest(r, http.MethodPost, "/api/v1/change-password", token, body, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("change-password: status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/v1/me", token, nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("stale token: status = %d, want 401", w.Code)
	}
}
