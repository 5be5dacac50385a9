package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/auth"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/config"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/middleware"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/entity"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/procurement/repository"
	"github.com/Sundar-Kamatchi/ramexpoin-sub000/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             testutil.JWTSecret,
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
			Issuer:             "ramexpoin",
		},
	}

	repos := repository.NewRepositories(db)
	svc := auth.NewService(repos.User, nil, cfg, zap.NewNop())
	h := NewAuthHandler(svc)

	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/refresh", h.RefreshToken)
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/auth/me", h.GetCurrentUser)
	api.POST("/auth/register", middleware.RequireAdmin(), h.Register)

	return db, router
}

func seedUser(t *testing.T, db *gorm.DB, id, email, role, password string) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &entity.UserProfile{
		ID:           id,
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	db, router := setupAuthTest(t)
	seedUser(t, db, "user-301", "buyer@ramexpoin.com", entity.RoleStaff, "secret-pass")

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "buyer@ramexpoin.com",
		"password": "secret-pass",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	tokens := resp["data"].(map[string]interface{})["tokens"].(map[string]interface{})
	access := tokens["access_token"].(string)
	refresh := tokens["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("Expected a token pair, got %v", tokens)
	}

	// The issued access token works against a protected endpoint.
	w2 := testutil.DoRequest(router, "GET", "/api/v1/auth/me", nil, access)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 for /auth/me, got %d: %s", w2.Code, w2.Body.String())
	}
	resp2 := testutil.ParseResponse(w2)
	me := resp2["data"].(map[string]interface{})
	if me["is_admin"].(bool) {
		t.Errorf("Staff user must not resolve as admin")
	}

	// The refresh token rotates into a fresh pair.
	w3 := testutil.DoRequest(router, "POST", "/api/v1/auth/refresh", map[string]interface{}{
		"refresh_token": refresh,
	}, "")
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200 for refresh, got %d: %s", w3.Code, w3.Body.String())
	}

	// An access token is not a refresh token.
	w4 := testutil.DoRequest(router, "POST", "/api/v1/auth/refresh", map[string]interface{}{
		"refresh_token": access,
	}, "")
	if w4.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 refreshing with access token, got %d: %s", w4.Code, w4.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db, router := setupAuthTest(t)
	seedUser(t, db, "user-302", "buyer2@ramexpoin.com", entity.RoleStaff, "secret-pass")

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "buyer2@ramexpoin.com",
		"password": "wrong-pass",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "nobody@ramexpoin.com",
		"password": "whatever1",
	}, "")
	if w2.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown user, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestLoginBackfillsLegacyRole(t *testing.T) {
	db, router := setupAuthTest(t)
	// A legacy row with no role: the email prefix decides once.
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	db.Exec("INSERT INTO user_profiles (id, email, name, password_hash, role, status) VALUES (?, ?, ?, ?, '', 'active')",
		"user-303", "admin.legacy@ramexpoin.com", "Legacy Admin", string(hash))

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    "admin.legacy@ramexpoin.com",
		"password": "secret-pass",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored entity.UserProfile
	db.Where("id = ?", "user-303").First(&stored)
	if stored.Role != entity.RoleAdmin {
		t.Errorf("Expected backfilled admin role, got %q", stored.Role)
	}
}

func TestRegisterAdminOnly(t *testing.T) {
	_, router := setupAuthTest(t)

	body := map[string]interface{}{
		"email":    "newstaff@ramexpoin.com",
		"name":     "New Staff",
		"password": "longenough",
		"role":     "staff",
	}

	w := testutil.DoRequest(router, "POST", "/api/v1/auth/register", body, testutil.StaffToken())
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for staff register, got %d: %s", w.Code, w.Body.String())
	}

	w2 := testutil.DoRequest(router, "POST", "/api/v1/auth/register", body, testutil.AdminToken())
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for admin register, got %d: %s", w2.Code, w2.Body.String())
	}

	// Short passwords are rejected.
	w3 := testutil.DoRequest(router, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    "short@ramexpoin.com",
		"password": "short",
	}, testutil.AdminToken())
	if w3.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for short password, got %d: %s", w3.Code, w3.Body.String())
	}
}
