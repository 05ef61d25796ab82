package session

import (
	"log"
	"time"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// nowLocal: Saha saati GMT+8 (şantiye Malezya'da). Sunucu nerede çalışırsa
// çalışsın oturum zamanları saha saatine göre yazılır.
func nowLocal() string {
	return time.Now().UTC().Add(8 * time.Hour).Format(timeLayout)
}

// Start: Giriş yapan kullanıcı için yeni oturum kaydı açar.
func Start(username string, role models.UserRole) *models.Session {
	now := nowLocal()
	sess := models.Session{
		Username:  username,
		Role:      role,
		LoginTime: now,
		LastSeen:  now,
		Active:    true,
	}
	if err := database.DB.Create(&sess).Error; err != nil {
		log.Printf("[WARN] Oturum kaydı oluşturulamadı: %v", err)
	}
	return &sess
}

// Heartbeat: Oturumun son görülme zamanını günceller.
func Heartbeat(sessionID uint) {
	database.DB.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("last_seen", nowLocal())
}

// End: Oturumu kapatır (çıkış).
func End(sessionID uint) {
	database.DB.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("active", false)
}

// Active: Son N dakika içinde görülen aktif oturumlar.
func Active(minutes int) []models.Session {
	threshold := time.Now().UTC().Add(8*time.Hour - time.Duration(minutes)*time.Minute).Format(timeLayout)

	var sessions []models.Session
	database.DB.
		Where("active = ? AND last_seen >= ?", true, threshold).
		Order("last_seen DESC").
		Find(&sessions)
	return sessions
}

// History: Son giriş kayıtları, en yeni başta.
func History(limit int) []models.Session {
	var sessions []models.Session
	database.DB.Order("login_time DESC").Limit(limit).Find(&sessions)
	return sessions
}
