package database

import (
	"log"

	"imalat-takip-backend/internal/config"
	"imalat-takip-backend/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	// DSN tanımlıysa Postgres, değilse taşınabilir tek dosyalık SQLite
	if cfg.DatabaseDSN != "" {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Assembly{},
		&models.Part{},
		&models.ProgressEntry{},
		&models.RawMaterial{},
		&models.User{},
		&models.Session{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Eski kayıtlardaki "DELIVERY" aşamasını yeni adına taşı
	DB.Model(&models.ProgressEntry{}).
		Where("stage = ?", "DELIVERY").
		Update("stage", models.StageSendSite)

	// Montaj toplamlarını parçalardan senkronla (bayat değer kalmışsa düzeltir)
	if err := SyncAssemblyTotals(DB); err != nil {
		log.Printf("[WARN] Montaj toplamları senkronlanamadı: %v", err)
	}

	seedAdminUser()

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// SyncAssemblyTotals: Tüm montajların total_weight_kg alanını parçaların
// toplamına eşitler. Açılışta ve toplu import sonrasında çağrılır.
func SyncAssemblyTotals(db *gorm.DB) error {
	return db.Exec(`
		UPDATE assemblies
		SET total_weight_kg = COALESCE(
			(SELECT SUM(total_weight_kg) FROM parts WHERE parts.assembly_mark = assemblies.assembly_mark), 0)
	`).Error
}

// RecalcAssemblyTotal: Tek bir montajın toplam ağırlığını yeniden hesaplar.
// Parça ekleme/güncelleme/silme ile aynı transaction içinde çağrılmalıdır.
func RecalcAssemblyTotal(tx *gorm.DB, assemblyMark string) error {
	return tx.Exec(`
		UPDATE assemblies
		SET total_weight_kg = COALESCE(
			(SELECT SUM(total_weight_kg) FROM parts WHERE parts.assembly_mark = ?), 0)
		WHERE assembly_mark = ?
	`, assemblyMark, assemblyMark).Error
}

// seedAdminUser: Hiç kullanıcı yoksa varsayılan admin oluştur (ilk kurulum).
func seedAdminUser() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[WARN] Varsayılan admin şifresi hashlenemedi: %v", err)
		return
	}

	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("[WARN] Varsayılan admin oluşturulamadı: %v", err)
		return
	}
	log.Println("Varsayılan admin kullanıcısı oluşturuldu (admin/admin123) — şifreyi değiştirmeyi unutma!")
}
