package catalog

import (
	"errors"
	"testing"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/glebarez/sqlite"
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
	if err := db.AutoMigrate(&models.Assembly{}, &models.Part{}, &models.ProgressEntry{}); err != nil {
		t.Fatalf("migrasyon başarısız: %v", err)
	}
	database.DB = db
}

func assemblyTotal(t *testing.T, mark string) float64 {
	t.Helper()
	var asm models.Assembly
	if err := database.DB.First(&asm, "assembly_mark = ?", mark).Error; err != nil {
		t.Fatalf("%s montajı okunamadı: %v", mark, err)
	}
	return asm.TotalWeightKg
}

func TestAddPartKeepsAssemblyTotalInSync(t *testing.T) {
	setupTestDB(t)

	if err := AddPart(&models.Part{AssemblyMark: "B1", PartMark: "P1", TotalWeightKg: 120.5}); err != nil {
		t.Fatal(err)
	}
	if err := AddPart(&models.Part{AssemblyMark: "B1", PartMark: "P2", TotalWeightKg: 79.5}); err != nil {
		t.Fatal(err)
	}

	if got := assemblyTotal(t, "B1"); got != 200.0 {
		t.Errorf("montaj toplamı parça toplamına eşit olmalı: %v", got)
	}
}

func TestAddAssemblyIdempotentAndUppercased(t *testing.T) {
	setupTestDB(t)

	if err := AddAssembly("  b1 ", 0, "ana kiriş"); err != nil {
		t.Fatal(err)
	}
	if err := AddAssembly("B1", 999, "mükerrer"); err != nil {
		t.Fatal(err)
	}

	var assemblies []models.Assembly
	database.DB.Find(&assemblies)
	if len(assemblies) != 1 {
		t.Fatalf("mükerrer mark tek kayıt bırakmalı, %d var", len(assemblies))
	}
	if assemblies[0].AssemblyMark != "B1" {
		t.Errorf("mark büyük harfe çevrilmeli: %q", assemblies[0].AssemblyMark)
	}
	if assemblies[0].Description != "ana kiriş" {
		t.Errorf("ikinci çağrı ilk kaydı ezmemeli: %q", assemblies[0].Description)
	}
}

func TestUpdatePartRecalculatesBothAssemblies(t *testing.T) {
	setupTestDB(t)

	p := models.Part{AssemblyMark: "B1", PartMark: "P1", TotalWeightKg: 50}
	if err := AddPart(&p); err != nil {
		t.Fatal(err)
	}
	if err := AddPart(&models.Part{AssemblyMark: "B1", PartMark: "P2", TotalWeightKg: 30}); err != nil {
		t.Fatal(err)
	}

	// P1'i B2'ye taşı
	moved := p
	moved.AssemblyMark = "B2"
	if _, err := UpdatePart(p.ID, moved); err != nil {
		t.Fatal(err)
	}

	if got := assemblyTotal(t, "B1"); got != 30 {
		t.Errorf("eski montaj toplamı düşmeli: %v", got)
	}
	if got := assemblyTotal(t, "B2"); got != 50 {
		t.Errorf("yeni montaj oluşturulup toplamı hesaplanmalı: %v", got)
	}
}

func TestDeletePartRecalculatesTotal(t *testing.T) {
	setupTestDB(t)

	p := models.Part{AssemblyMark: "B1", PartMark: "P1", TotalWeightKg: 50}
	if err := AddPart(&p); err != nil {
		t.Fatal(err)
	}
	if err := AddPart(&models.Part{AssemblyMark: "B1", PartMark: "P2", TotalWeightKg: 30}); err != nil {
		t.Fatal(err)
	}

	if err := DeletePart(p.ID); err != nil {
		t.Fatal(err)
	}
	if got := assemblyTotal(t, "B1"); got != 30 {
		t.Errorf("silme sonrası toplam 30 olmalı: %v", got)
	}

	if err := DeletePart(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("bilinmeyen ID için ErrNotFound bekleniyordu: %v", err)
	}
}

func TestDeletePartPropagatesStorageErrors(t *testing.T) {
	setupTestDB(t)

	sqlDB, err := database.DB.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.Close()

	if err := DeletePart(1); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("depo hatası ErrNotFound'a çevrilmemeli: %v", err)
	}
	if _, err := UpdatePart(1, models.Part{AssemblyMark: "B1"}); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("depo hatası ErrNotFound'a çevrilmemeli: %v", err)
	}
}

func TestSubAssemblyMarksSkipsEmpty(t *testing.T) {
	setupTestDB(t)

	for _, p := range []models.Part{
		{AssemblyMark: "B1", SubAssemblyMark: "SUB-B", PartMark: "P1"},
		{AssemblyMark: "B1", SubAssemblyMark: "SUB-A", PartMark: "P2"},
		{AssemblyMark: "B1", SubAssemblyMark: "", PartMark: "P3"},
	} {
		part := p
		if err := AddPart(&part); err != nil {
			t.Fatal(err)
		}
	}

	marks, err := SubAssemblyMarks("B1")
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 2 || marks[0] != "SUB-A" || marks[1] != "SUB-B" {
		t.Errorf("boş olmayan alt montajlar alfabetik dönmeli: %v", marks)
	}
}

func TestClearAllDataWipesCatalogAndLedger(t *testing.T) {
	setupTestDB(t)

	if err := AddPart(&models.Part{AssemblyMark: "B1", PartMark: "P1", TotalWeightKg: 10}); err != nil {
		t.Fatal(err)
	}
	database.DB.Create(&models.ProgressEntry{
		EntryDate: "2026-08-01", AssemblyMark: "B1", Stage: models.StageFitUp,
	})

	if err := ClearAllData(); err != nil {
		t.Fatal(err)
	}

	for _, model := range []any{&models.Part{}, &models.Assembly{}, &models.ProgressEntry{}} {
		var count int64
		database.DB.Model(model).Count(&count)
		if count != 0 {
			t.Errorf("%T tablosu boşalmalıydı, %d kayıt var", model, count)
		}
	}
}
