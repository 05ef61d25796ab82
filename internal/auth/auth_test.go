package auth

import (
	"testing"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB alınamadı: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("migrasyon başarısız: %v", err)
	}
	database.DB = db
}

func createUser(t *testing.T, username, password string, role models.UserRole, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
}

func TestAuthenticate(t *testing.T) {
	setupTestDB(t)
	createUser(t, "usta", "cekic123", models.RoleUser, true)

	user := Authenticate("usta", "cekic123")
	if user == nil {
		t.Fatal("doğru kimlik bilgileriyle giriş başarılı olmalı")
	}
	if user.Role != models.RoleUser {
		t.Errorf("rol korunmalı: %s", user.Role)
	}
}

func TestAuthenticateCaseInsensitiveUsername(t *testing.T) {
	setupTestDB(t)
	createUser(t, "usta", "cekic123", models.RoleUser, true)

	if Authenticate("  USTA ", "cekic123") == nil {
		t.Fatal("kullanıcı adı büyük/küçük harf duyarsız eşleşmeli")
	}
}

// Yanlış şifre, pasif hesap ve bilinmeyen kullanıcı ayrım yapılmadan nil
// döner (fail-closed).
func TestAuthenticateFailClosed(t *testing.T) {
	setupTestDB(t)
	createUser(t, "usta", "cekic123", models.RoleUser, true)
	createUser(t, "pasif", "cekic123", models.RoleUser, false)

	if Authenticate("usta", "yanlis") != nil {
		t.Error("yanlış şifre reddedilmeli")
	}
	if Authenticate("pasif", "cekic123") != nil {
		t.Error("pasif hesap reddedilmeli")
	}
	if Authenticate("yok", "cekic123") != nil {
		t.Error("bilinmeyen kullanıcı reddedilmeli")
	}
	if Authenticate("usta", "") != nil {
		t.Error("boş şifre reddedilmeli")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleUser, models.RoleViewer} {
		if !models.ValidRole(role) {
			t.Errorf("%s geçerli bir rol olmalı", role)
		}
	}
	if models.ValidRole("superadmin") {
		t.Error("tanımsız rol reddedilmeli")
	}
}
