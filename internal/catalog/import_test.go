package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("satır yazılamadı: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("workbook oluşturulamadı: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// Şablonların üstünde logo/proje satırları olabiliyor; başlık ilk satırda
// aranmaz, "Assembly Mark" kolonunu taşıyan satır başlıktır.
func TestImportExcelFindsHeaderBelowTitleRows(t *testing.T) {
	setupTestDB(t)

	r := buildWorkbook(t, [][]any{
		{"PROJE: ÇELİK KONSTRÜKSİYON"},
		{},
		{"Assembly Mark", "Sub Assembly", "Part Mark", "No.", "Name", "Profile", "kg/m", "Length (mm)", "Total Weight (kg)", "Grade"},
		{"B1", "SUB-A", "P1", "2", "Kiriş", "HEA200", "42.3", "6000", "253.8", "S355"},
		{"B1", "", "P2", "1", "Plaka", "PL10", "", "", "46.2", "S275"},
		{"", "", "", "", "toplam", "", "", "", "300.0"}, // etiketsiz, atlanır
	})

	count, err := ImportExcel(r)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("2 parça beklenirken %d kaydedildi", count)
	}

	var parts []models.Part
	database.DB.Order("part_mark").Find(&parts)
	if len(parts) != 2 {
		t.Fatalf("2 parça bekleniyordu, %d var", len(parts))
	}
	if parts[0].SubAssemblyMark != "SUB-A" || parts[0].No != 2 || parts[0].KgPerM != 42.3 {
		t.Errorf("alias kolonları eşleşmedi: %+v", parts[0])
	}

	// İçeri alma montajı oluşturur ve toplamını hesaplar
	if got := assemblyTotal(t, "B1"); got != 300.0 {
		t.Errorf("montaj toplamı 300.0 olmalı: %v", got)
	}
}

func TestImportExcelMissingHeader(t *testing.T) {
	setupTestDB(t)

	r := buildWorkbook(t, [][]any{
		{"Montaj", "Parça", "Ağırlık"},
		{"B1", "P1", "10"},
	})

	_, err := ImportExcel(r)
	var impErr *ImportError
	if !errors.As(err, &impErr) {
		t.Fatalf("ImportError bekleniyordu, dönen: %v", err)
	}
}

func TestReplaceImportWipesCatalogKeepsLedger(t *testing.T) {
	setupTestDB(t)

	if err := AddPart(&models.Part{AssemblyMark: "OLD", PartMark: "P1", TotalWeightKg: 10}); err != nil {
		t.Fatal(err)
	}
	database.DB.Create(&models.ProgressEntry{
		EntryDate: "2026-08-01", AssemblyMark: "OLD", Stage: models.StageFitUp,
	})

	r := buildWorkbook(t, [][]any{
		{"Assembly Mark", "Part Mark", "Total Weight"},
		{"B1", "P1", "25.5"},
	})

	count, err := ReplaceImportExcel(r)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("1 parça beklenirken %d kaydedildi", count)
	}

	var oldCount int64
	database.DB.Model(&models.Part{}).Where("assembly_mark = ?", "OLD").Count(&oldCount)
	if oldCount != 0 {
		t.Error("eski parçalar silinmeliydi")
	}

	// İlerleme defteri dokunulmadan kalır
	var ledger int64
	database.DB.Model(&models.ProgressEntry{}).Count(&ledger)
	if ledger != 1 {
		t.Errorf("ilerleme kayıtları korunmalı, %d kayıt var", ledger)
	}
}
