package rawmaterial

import (
	"errors"
	"strings"
	"time"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("hammadde kaydı bulunamadı")

// ValidationError: Eksik veya hatalı alan.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Add: Yeni hammadde teslimat kaydı. Montajlarla ilişki yok, düz defter.
func Add(receivedDate, doNo, description, grade string, qty, totalKg float64, remark string) (*models.RawMaterial, error) {
	if receivedDate == "" {
		return nil, &ValidationError{Field: "received_date", Msg: "Teslim tarihi zorunlu"}
	}
	if _, err := time.Parse(dateLayout, receivedDate); err != nil {
		return nil, &ValidationError{Field: "received_date", Msg: "Tarih formatı 'YYYY-MM-DD' olmalı"}
	}

	if qty < 0 {
		qty = 0
	}
	kg, _ := decimal.NewFromFloat(totalKg).Round(2).Float64()
	if kg < 0 {
		kg = 0
	}

	rm := models.RawMaterial{
		ReceivedDate: receivedDate,
		DoNo:         strings.TrimSpace(doNo),
		Description:  strings.TrimSpace(description),
		Grade:        strings.TrimSpace(grade),
		Qty:          qty,
		TotalKg:      kg,
		Remark:       strings.TrimSpace(remark),
	}
	if err := database.DB.Create(&rm).Error; err != nil {
		return nil, err
	}
	return &rm, nil
}

// ListByDateRange: Tarih aralığına göre liste, en yeni tarih başta.
// start/end boşsa tüm kayıtlar döner.
func ListByDateRange(start, end string) ([]models.RawMaterial, error) {
	q := database.DB.Order("received_date DESC")
	if start != "" && end != "" {
		q = q.Where("received_date BETWEEN ? AND ?", start, end)
	}
	var rows []models.RawMaterial
	err := q.Find(&rows).Error
	return rows, err
}

// SummaryTotals: Kayıt sayısı, toplam adet ve toplam kg.
type SummaryTotals struct {
	Entries  int64   `json:"entries"`
	TotalQty float64 `json:"total_qty"`
	TotalKg  float64 `json:"total_kg"`
}

func Summary() (*SummaryTotals, error) {
	var s SummaryTotals
	err := database.DB.Model(&models.RawMaterial{}).
		Select("COUNT(*) as entries, COALESCE(SUM(qty), 0) as total_qty, COALESCE(SUM(total_kg), 0) as total_kg").
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete: Kaydı siler, sonra kalan kayıtların ID'lerini sıra bozulmadan
// 1..n olarak yeniden numaralandırır. Numaralandırma tamamen kozmetiktir
// (operatörler listedeki sıra numarasını referans veriyor), anlamı yoktur.
func Delete(id uint) error {
	var rm models.RawMaterial
	if err := database.DB.First(&rm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Delete(&models.RawMaterial{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Kalanları oku, tabloyu boşalt, ID 1'den başlayarak geri yaz
	var remaining []models.RawMaterial
	if err := tx.Order("id").Find(&remaining).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("1 = 1").Delete(&models.RawMaterial{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	// Autoincrement sayacını sıfırla. Sadece SQLite'ta: Postgres'te hatalı
	// deyim tüm transaction'ı iptal eder, SQLite'ta ise deyim kapsamında
	// kalır (tablo henüz yoksa yok sayılabilir).
	if database.DB.Dialector.Name() == "sqlite" {
		tx.Exec("DELETE FROM sqlite_sequence WHERE name = 'raw_materials'")
	}

	for i := range remaining {
		remaining[i].ID = uint(i + 1)
		if err := tx.Create(&remaining[i]).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	// Açık ID ile insert Postgres'te sequence'i ilerletmez; sayaç geri
	// çekilmezse bir sonraki Add duplicate key üretir
	if database.DB.Dialector.Name() == "postgres" {
		if err := tx.Exec(
			"SELECT setval(pg_get_serial_sequence('raw_materials', 'id'), GREATEST(?, 1), ?)",
			len(remaining), len(remaining) > 0,
		).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}
