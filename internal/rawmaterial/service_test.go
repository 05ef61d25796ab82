package rawmaterial

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB alınamadı: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.RawMaterial{}); err != nil {
		t.Fatalf("migrasyon başarısız: %v", err)
	}
	database.DB = db
}

func TestAddValidatesDate(t *testing.T) {
	setupTestDB(t)

	var valErr *ValidationError
	if _, err := Add("", "DO-1", "Sac levha", "S355", 10, 500, ""); !errors.As(err, &valErr) {
		t.Fatalf("boş tarih için ValidationError bekleniyordu: %v", err)
	}
	if _, err := Add("01.08.2026", "DO-1", "Sac levha", "S355", 10, 500, ""); !errors.As(err, &valErr) {
		t.Fatalf("hatalı tarih formatı için ValidationError bekleniyordu: %v", err)
	}
}

func TestAddClampsAndRounds(t *testing.T) {
	setupTestDB(t)

	rm, err := Add("2026-08-01", " DO-1 ", " Sac levha ", "S355", -2, 500.456, "")
	if err != nil {
		t.Fatal(err)
	}
	if rm.Qty != 0 {
		t.Errorf("negatif adet 0'a çekilmeli: %v", rm.Qty)
	}
	if rm.TotalKg != 500.46 {
		t.Errorf("kg 2 ondalığa yuvarlanmalı: %v", rm.TotalKg)
	}
	if rm.DoNo != "DO-1" || rm.Description != "Sac levha" {
		t.Errorf("metin alanları kırpılmalı: %+v", rm)
	}
}

// Silme sonrası kalan kayıtlar sıra bozulmadan 1..n olarak yeniden
// numaralandırılır; numara tamamen kozmetiktir.
func TestDeleteRenumbersRemaining(t *testing.T) {
	setupTestDB(t)

	for i := 1; i <= 5; i++ {
		if _, err := Add("2026-08-01", fmt.Sprintf("DO-%d", i), fmt.Sprintf("Malzeme %d", i), "S275", 1, 10, ""); err != nil {
			t.Fatal(err)
		}
	}

	if err := Delete(3); err != nil {
		t.Fatal(err)
	}

	var rows []models.RawMaterial
	database.DB.Order("id").Find(&rows)
	if len(rows) != 4 {
		t.Fatalf("4 kayıt kalmalıydı, %d var", len(rows))
	}

	wantDesc := []string{"Malzeme 1", "Malzeme 2", "Malzeme 4", "Malzeme 5"}
	for i, row := range rows {
		if row.ID != uint(i+1) {
			t.Errorf("ID'ler 1'den başlayıp boşluksuz olmalı: %d. kayıt ID=%d", i+1, row.ID)
		}
		if row.Description != wantDesc[i] {
			t.Errorf("kayıt sırası korunmalı: %d. kayıt %q", i+1, row.Description)
		}
	}
}

// Yeniden numaralandırma sayaç tablosuna yaslanmaz: taze bir depoda
// sqlite_sequence hiç oluşmamışken de silme commit olur ve sonraki kayıt
// boşluksuz sıradaki ID'yi alır.
func TestDeleteRenumberThenAddContinuesSequence(t *testing.T) {
	setupTestDB(t)

	for i := 1; i <= 3; i++ {
		if _, err := Add("2026-08-01", fmt.Sprintf("DO-%d", i), fmt.Sprintf("Malzeme %d", i), "S275", 1, 10, ""); err != nil {
			t.Fatal(err)
		}
	}

	if err := Delete(2); err != nil {
		t.Fatalf("sayaç tablosu olmadan silme başarısız: %v", err)
	}

	rm, err := Add("2026-08-02", "DO-9", "Yeni malzeme", "S355", 1, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if rm.ID != 3 {
		t.Errorf("silme sonrası yeni kayıt ID 3 almalı, aldığı: %d", rm.ID)
	}
}

func TestDeletePropagatesStorageErrors(t *testing.T) {
	setupTestDB(t)

	sqlDB, err := database.DB.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	err = Delete(1)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("depo hatası ErrNotFound'a çevrilmemeli: %v", err)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	setupTestDB(t)

	if err := Delete(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ErrNotFound bekleniyordu, dönen: %v", err)
	}
}

func TestSummaryAndDateRange(t *testing.T) {
	setupTestDB(t)

	if _, err := Add("2026-08-01", "DO-1", "Sac", "S355", 5, 250, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := Add("2026-08-15", "DO-2", "Profil", "S275", 3, 150, ""); err != nil {
		t.Fatal(err)
	}

	s, err := Summary()
	if err != nil {
		t.Fatal(err)
	}
	if s.Entries != 2 || s.TotalQty != 8 || s.TotalKg != 400 {
		t.Errorf("özet toplamları yanlış: %+v", s)
	}

	rows, err := ListByDateRange("2026-08-01", "2026-08-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].DoNo != "DO-1" {
		t.Errorf("aralık filtresi sadece DO-1 döndürmeli: %+v", rows)
	}

	// Aralık verilmezse tümü, en yeni tarih başta
	all, err := ListByDateRange("", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].DoNo != "DO-2" {
		t.Errorf("aralıksız listede en yeni başta olmalı: %+v", all)
	}
}

func TestImportExcelAliasesAndSkips(t *testing.T) {
	setupTestDB(t)

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"HAMMADDE TESLİMAT LİSTESİ"},
		{"Date", "D.O. No", "Description", "Grade", "Quantity", "Total KG", "Remarks"},
		{"2026-08-01", "DO-1", "Sac levha 10mm", "S355", "5", "1,250.5", "ilk parti"},
		{"2026-08-02", "DO-2", "", "S275", "3", "150", ""}, // açıklamasız, atlanır
		{"2026-08-03", "DO-3", "HEA200 profil", "S275", "2", "340", ""},
	}
	for i, row := range rows {
		r := row
		if err := f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	count, err := ImportExcel(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("2 kayıt beklenirken %d kaydedildi", count)
	}

	var first models.RawMaterial
	database.DB.Where("do_no = ?", "DO-1").First(&first)
	if first.TotalKg != 1250.5 {
		t.Errorf("binlik ayracı temizlenmeli: %v", first.TotalKg)
	}
	if first.ReceivedDate != "2026-08-01" {
		t.Errorf("tarih hücre değerinden alınmalı: %q", first.ReceivedDate)
	}
}

func TestImportExcelMissingHeader(t *testing.T) {
	setupTestDB(t)

	f := excelize.NewFile()
	defer f.Close()
	row := []any{"Malzeme", "Adet"}
	if err := f.SetSheetRow("Sheet1", "A1", &row); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	var impErr *ImportError
	if _, err := ImportExcel(bytes.NewReader(buf.Bytes())); !errors.As(err, &impErr) {
		t.Fatalf("ImportError bekleniyordu, dönen: %v", err)
	}
}
