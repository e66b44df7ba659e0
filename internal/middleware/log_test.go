package middleware

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haque51/lumina-finance-backend/internal/database"
	"github.com/haque51/lumina-finance-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func auditRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("currentUser", user) })
	r.Use(AuditMiddleware(db))
	r.Any("/*path", func(c *gin.Context) { c.Status(200) })
	return r
}

func lastAudit(t *testing.T, db *gorm.DB) models.AuditLog {
	t.Helper()
	var entry models.AuditLog
	if err := db.Order("id DESC").First(&entry).Error; err != nil {
		t.Fatalf("load audit log: %v", err)
	}
	return entry
}

func TestAuditMiddleware_RedactsPasswordChangeBody(t *testing.T) {
	db := testDB(t)
	user := models.User{Username: "amy", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	r := auditRouter(db, &user)

	body := `{"old_password":"OldSecret12","new_password":"NewSecret34"}`
	req := httptest.NewRequest("PUT", "/api/me/password", strings.NewReader(body))
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastAudit(t, db)
	if strings.Contains(entry.Action, "OldSecret12") || strings.Contains(entry.Action, "NewSecret34") {
		t.Fatalf("audit action contains credentials: %q", entry.Action)
	}
	if entry.Action != "PUT /api/me/password" {
		t.Errorf("action = %q, want method and path only", entry.Action)
	}
}

func TestAuditMiddleware_RecordsPlainBody(t *testing.T) {
	db := testDB(t)
	user := models.User{Username: "bob", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	r := auditRouter(db, &user)

	req := httptest.NewRequest("POST", "/api/accounts", strings.NewReader(`{"name":"Cash"}`))
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastAudit(t, db)
	if !strings.Contains(entry.Action, `{"name":"Cash"}`) {
		t.Errorf("action = %q, want request body recorded", entry.Action)
	}
	if entry.Method != "POST" || entry.Path != "/api/accounts" {
		t.Errorf("method/path = %q %q", entry.Method, entry.Path)
	}
}

func TestAuditMiddleware_SkipsReads(t *testing.T) {
	db := testDB(t)
	user := models.User{Username: "cat", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	r := auditRouter(db, &user)

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	var count int64
	db.Model(&models.AuditLog{}).Count(&count)
	if count != 0 {
		t.Errorf("audit rows = %d, want 0 for GET", count)
	}
}
