package models

// Session: "Kimler online" görünürlüğü için oturum kaydı.
// Yetkilendirme kararlarında kullanılmaz; o iş JWT'nin.
type Session struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Username  string   `gorm:"size:50;index;not null" json:"username"`
	Role      UserRole `gorm:"size:20;default:''" json:"role"`
	LoginTime string   `gorm:"size:19;not null" json:"login_time"` // "2006-01-02 15:04:05" (GMT+8)
	LastSeen  string   `gorm:"size:19;not null" json:"last_seen"`
	Active    bool     `gorm:"not null;default:true" json:"active"`
}
