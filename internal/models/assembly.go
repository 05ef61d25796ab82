package models

// Assembly: Çelik montaj grubu (ana poz). Toplam ağırlık parçalardan türetilir
// ve her parça değişikliğinde aynı transaction içinde yeniden hesaplanır.
type Assembly struct {
	AssemblyMark  string  `gorm:"primaryKey;size:50" json:"assembly_mark"`
	TotalWeightKg float64 `gorm:"not null;default:0" json:"total_weight_kg"`
	Description   string  `gorm:"size:255" json:"description"`
}
