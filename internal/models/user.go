package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleUser   UserRole = "user"
	RoleViewer UserRole = "viewer" // sadece okuma
)

// ValidRole: Rol tanımlı üç rolden biri mi?
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleUser || r == RoleViewer
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"` // karşılaştırma büyük/küçük harf duyarsız
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null;default:user" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
