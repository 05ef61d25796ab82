package catalog

import (
	"errors"
	"strings"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound: Bilinmeyen ID ile silme/güncelleme. Eski sistem bunu sessizce
// yutuyordu; burada açık hata olarak döndürülür.
var ErrNotFound = errors.New("kayıt bulunamadı")

// AssemblyMarks: Tüm montaj markaları, alfabetik.
func AssemblyMarks() ([]string, error) {
	var marks []string
	err := database.DB.Model(&models.Assembly{}).
		Order("assembly_mark").
		Pluck("assembly_mark", &marks).Error
	return marks, err
}

// Assemblies: Tüm montajlar, alfabetik.
func Assemblies() ([]models.Assembly, error) {
	var assemblies []models.Assembly
	err := database.DB.Order("assembly_mark").Find(&assemblies).Error
	return assemblies, err
}

// SubAssemblyMarks: Bir montajın altındaki boş olmayan alt montaj markaları.
func SubAssemblyMarks(assemblyMark string) ([]string, error) {
	var marks []string
	err := database.DB.Model(&models.Part{}).
		Distinct("sub_assembly_mark").
		Where("assembly_mark = ? AND sub_assembly_mark != ''", assemblyMark).
		Order("sub_assembly_mark").
		Pluck("sub_assembly_mark", &marks).Error
	return marks, err
}

// Parts: Parça listesi. assemblyMark boşsa tüm parçalar döner.
func Parts(assemblyMark string) ([]models.Part, error) {
	q := database.DB.Order("assembly_mark, part_mark")
	if assemblyMark != "" {
		q = q.Where("assembly_mark = ?", assemblyMark)
	}
	var parts []models.Part
	err := q.Find(&parts).Error
	return parts, err
}

// SearchParts: Metin kolonlarının tamamında anahtar kelime araması.
func SearchParts(keyword, assemblyMark string) ([]models.Part, error) {
	kw := "%" + keyword + "%"
	q := database.DB.Where(
		"(assembly_mark LIKE ? OR sub_assembly_mark LIKE ? OR part_mark LIKE ? OR name LIKE ? OR profile LIKE ? OR profile2 LIKE ? OR grade LIKE ?)",
		kw, kw, kw, kw, kw, kw, kw,
	)
	if assemblyMark != "" {
		q = q.Where("assembly_mark = ?", assemblyMark)
	}
	var parts []models.Part
	err := q.Order("assembly_mark, part_mark").Find(&parts).Error
	return parts, err
}

// PartsSummary: Bir montajın parça sayısı ve toplam ağırlığı.
func PartsSummary(assemblyMark string) (int64, float64, error) {
	var count int64
	if err := database.DB.Model(&models.Part{}).
		Where("assembly_mark = ?", assemblyMark).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var total float64
	err := database.DB.Model(&models.Part{}).
		Where("assembly_mark = ?", assemblyMark).
		Select("COALESCE(SUM(total_weight_kg), 0)").
		Scan(&total).Error
	return count, total, err
}

// AddAssembly: Montaj ekler. Mark zaten kayıtlıysa no-op (idempotent).
func AddAssembly(mark string, weight float64, description string) error {
	mark = strings.ToUpper(strings.TrimSpace(mark))
	if mark == "" {
		return errors.New("montaj markası zorunlu")
	}

	var count int64
	database.DB.Model(&models.Assembly{}).Where("assembly_mark = ?", mark).Count(&count)
	if count > 0 {
		return nil
	}

	return database.DB.Create(&models.Assembly{
		AssemblyMark:  mark,
		TotalWeightKg: weight,
		Description:   description,
	}).Error
}

// AddPart: Parça ekler, montajı yoksa oluşturur ve montaj toplamını aynı
// transaction içinde yeniden hesaplar.
func AddPart(part *models.Part) error {
	part.AssemblyMark = strings.TrimSpace(part.AssemblyMark)
	part.SubAssemblyMark = models.NormalizeSub(part.SubAssemblyMark)
	if part.AssemblyMark == "" {
		return errors.New("montaj markası zorunlu")
	}
	if part.No <= 0 {
		part.No = 1
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	// Montaj yoksa oluştur
	var count int64
	tx.Model(&models.Assembly{}).Where("assembly_mark = ?", part.AssemblyMark).Count(&count)
	if count == 0 {
		if err := tx.Create(&models.Assembly{AssemblyMark: part.AssemblyMark}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Create(part).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := database.RecalcAssemblyTotal(tx, part.AssemblyMark); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// UpdatePart: Parçayı günceller. Montaj değiştiyse hem eski hem yeni montajın
// toplamı yeniden hesaplanır.
func UpdatePart(id uint, updated models.Part) (*models.Part, error) {
	updated.AssemblyMark = strings.TrimSpace(updated.AssemblyMark)
	updated.SubAssemblyMark = models.NormalizeSub(updated.SubAssemblyMark)
	if updated.AssemblyMark == "" {
		return nil, errors.New("montaj markası zorunlu")
	}

	var existing models.Part
	if err := database.DB.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	oldAssembly := existing.AssemblyMark

	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	updated.ID = id
	if err := tx.Model(&models.Part{}).Where("id = ?", id).Select(
		"assembly_mark", "sub_assembly_mark", "part_mark", "no", "name",
		"profile", "kg_per_m", "length_mm", "total_weight_kg", "profile2", "grade", "remark",
	).Updates(updated).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// Yeni montaj yoksa oluştur
	if updated.AssemblyMark != oldAssembly {
		var count int64
		tx.Model(&models.Assembly{}).Where("assembly_mark = ?", updated.AssemblyMark).Count(&count)
		if count == 0 {
			if err := tx.Create(&models.Assembly{AssemblyMark: updated.AssemblyMark}).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	// Eski ve yeni montajın toplamını yeniden hesapla
	for _, mark := range []string{oldAssembly, updated.AssemblyMark} {
		if err := database.RecalcAssemblyTotal(tx, mark); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePart: Parçayı siler ve sahibi montajın toplamını aynı transaction
// içinde yeniden hesaplar.
func DeletePart(id uint) error {
	var part models.Part
	if err := database.DB.First(&part, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Delete(&models.Part{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := database.RecalcAssemblyTotal(tx, part.AssemblyMark); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// ClearAllData: İlerleme, parça ve montaj tablolarını komple boşaltır.
// Tam silme (full wipe) dışında montajlar asla silinmez.
func ClearAllData() error {
	tx := database.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	for _, model := range []any{&models.ProgressEntry{}, &models.Part{}, &models.Assembly{}} {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}
