package models

import "time"

// RawMaterial: Sahaya gelen hammadde teslimat kaydı. Montajlarla ilişkisi yok,
// bağımsız bir defterdir.
type RawMaterial struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReceivedDate string    `gorm:"size:10;index;not null" json:"received_date"` // "2006-01-02"
	DoNo         string    `gorm:"size:50;default:''" json:"do_no"`
	Description  string    `gorm:"size:255" json:"description"`
	Grade        string    `gorm:"size:50" json:"grade"`
	Qty          float64   `gorm:"default:0" json:"qty"`
	TotalKg      float64   `gorm:"default:0" json:"total_kg"`
	Remark       string    `gorm:"size:255" json:"remark"`
	CreatedAt    time.Time `json:"created_at"`
}
