package models

import "strings"

// Part: Montaja ait tek parça (poz satırı). Alt montaj markası boş string ise
// parça doğrudan ana montaja aittir.
type Part struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	AssemblyMark    string  `gorm:"size:50;index;not null" json:"assembly_mark"`
	SubAssemblyMark string  `gorm:"size:50;index;default:''" json:"sub_assembly_mark"`
	PartMark        string  `gorm:"size:50" json:"part_mark"`
	No              int     `gorm:"default:1" json:"no"` // adet
	Name            string  `gorm:"size:100" json:"name"`
	Profile         string  `gorm:"size:50" json:"profile"`
	KgPerM          float64 `gorm:"default:0" json:"kg_per_m"`
	LengthMm        float64 `gorm:"default:0" json:"length_mm"`
	TotalWeightKg   float64 `gorm:"default:0" json:"total_weight_kg"`
	Profile2        string  `gorm:"size:50" json:"profile2"`
	Grade           string  `gorm:"size:50" json:"grade"`
	Remark          string  `gorm:"size:255" json:"remark"`
}

// NormalizeSub: Alt montaj markasını tek biçime getirir. "Alt montaj yok"
// her zaman boş string olarak saklanır; null ve "" aynı grupta toplanır.
func NormalizeSub(sub string) string {
	return strings.TrimSpace(sub)
}
