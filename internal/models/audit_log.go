package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog: Veri değiştiren işlemlerin izi. Düzeltme endpoint'leri için
// önceki/sonraki hali JSON olarak saklanır.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `json:"user_id"`
	Username string `gorm:"size:50" json:"username"` // denormalize

	// Hangi entity? (ör: "progress_entry", "part", "raw_material")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Önceki ve sonraki hal (JSON string)
	BeforeData string `json:"before_data"`
	AfterData  string `json:"after_data"`
}
