package models

import "time"

// ProgressEntry: İlerleme kaydı. Oluşturulduktan sonra değiştirilmez;
// düzeltme yalnızca açık düzeltme endpoint'i üzerinden yapılır ve audit'e yazılır.
type ProgressEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	EntryDate       string    `gorm:"size:10;index;not null" json:"entry_date"` // "2006-01-02"
	AssemblyMark    string    `gorm:"size:50;index;not null" json:"assembly_mark"`
	SubAssemblyMark string    `gorm:"size:50;index;default:''" json:"sub_assembly_mark"`
	Stage           Stage     `gorm:"size:30;index;not null" json:"stage"`
	WeightKg        float64   `gorm:"default:0" json:"weight_kg"`
	Qty             int       `gorm:"default:0" json:"qty"`
	Remarks         string    `gorm:"size:255" json:"remarks"`
	DeliveryOrderNo string    `gorm:"size:50;default:''" json:"delivery_order_no"` // son iki aşamada zorunlu
	CreatedAt       time.Time `json:"created_at"`
}
