package catalog

import (
	"io"
	"strconv"
	"strings"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// ImportError: Okunamayan dosya veya bulunamayan başlık satırı.
type ImportError struct {
	Msg string
}

func (e *ImportError) Error() string {
	return e.Msg
}

// partColumnAliases: Alan -> kabul edilen başlık adları (küçük harfe
// çevrilerek karşılaştırılır). Excel şablonları ofisten ofise değiştiği için
// her alan birden fazla başlıkla eşleşebilir.
var partColumnAliases = map[string][]string{
	"assembly_mark": {"assembly mark"},
	"sub_assembly":  {"sub-assembly mark", "sub assembly mark", "sub assembly"},
	"part_mark":     {"part mark"},
	"no":            {"no.", "no"},
	"name":          {"name"},
	"profile":       {"profile"},
	"kg_per_m":      {"kg/m", "kg per m"},
	"length":        {"length", "length (mm)", "length mm"},
	"total_weight":  {"total weight", "total weight (kg)", "weight (kg)", "weight"},
	"profile2":      {"profile2", "profile 2"},
	"grade":         {"grade"},
	"remark":        {"remark", "remarks"},
}

// findHeaderRow: Başlık satırını "Assembly Mark" kolonunu arayarak bulur.
// Başlık ilk satırda olmak zorunda değildir (şablonların üstünde logo ve
// proje bilgisi satırları olabiliyor).
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), "Assembly Mark") {
				return i
			}
		}
	}
	return -1
}

// buildColumnIndex: Başlık satırındaki kolonları alias tablosuyla eşleştirir.
// Tanınmayan kolonlar sessizce yok sayılır.
func buildColumnIndex(header []string, aliases map[string][]string) map[string]int {
	index := make(map[string]int)
	for col, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		for field, names := range aliases {
			if _, done := index[field]; done {
				continue
			}
			for _, alias := range names {
				if name == alias {
					index[field] = col
					break
				}
			}
		}
	}
	return index
}

func cellStr(row []string, idx int, ok bool) string {
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellFloat(row []string, idx int, ok bool) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(cellStr(row, idx, ok), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func cellInt(row []string, idx int, ok bool, def int) int {
	s := cellStr(row, idx, ok)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(v)
}

// ImportExcel: Parça listesini Excel'den içeri alır. Politika: en iyi çaba —
// ayrıştırılamayan satırlar atlanır, ayrıştırılanlar kaydedilir, dönen sayı
// kaydedilen parça sayısıdır. Başlık satırı bulunamazsa ImportError döner.
func ImportExcel(r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, &ImportError{Msg: "Excel dosyası okunamadı: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, &ImportError{Msg: "Excel dosyasında sheet bulunamadı"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, &ImportError{Msg: "Sheet okunamadı: " + err.Error()}
	}

	headerRow := findHeaderRow(rows)
	if headerRow < 0 {
		return 0, &ImportError{Msg: "'Assembly Mark' başlık satırı bulunamadı"}
	}

	col := buildColumnIndex(rows[headerRow], partColumnAliases)

	get := func(row []string, field string) (int, bool) {
		idx, ok := col[field]
		return idx, ok
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	count := 0
	touched := make(map[string]bool)

	for _, row := range rows[headerRow+1:] {
		asmIdx, asmOk := get(row, "assembly_mark")
		asm := cellStr(row, asmIdx, asmOk)
		if asm == "" {
			continue // etiketsiz satır, atla
		}

		subIdx, subOk := get(row, "sub_assembly")
		pmIdx, pmOk := get(row, "part_mark")
		noIdx, noOk := get(row, "no")
		nameIdx, nameOk := get(row, "name")
		profIdx, profOk := get(row, "profile")
		kgmIdx, kgmOk := get(row, "kg_per_m")
		lenIdx, lenOk := get(row, "length")
		twIdx, twOk := get(row, "total_weight")
		prof2Idx, prof2Ok := get(row, "profile2")
		gradeIdx, gradeOk := get(row, "grade")
		remarkIdx, remarkOk := get(row, "remark")

		part := models.Part{
			AssemblyMark:    asm,
			SubAssemblyMark: models.NormalizeSub(cellStr(row, subIdx, subOk)),
			PartMark:        cellStr(row, pmIdx, pmOk),
			No:              cellInt(row, noIdx, noOk, 1),
			Name:            cellStr(row, nameIdx, nameOk),
			Profile:         cellStr(row, profIdx, profOk),
			KgPerM:          cellFloat(row, kgmIdx, kgmOk),
			LengthMm:        cellFloat(row, lenIdx, lenOk),
			TotalWeightKg:   cellFloat(row, twIdx, twOk),
			Profile2:        cellStr(row, prof2Idx, prof2Ok),
			Grade:           cellStr(row, gradeIdx, gradeOk),
			Remark:          cellStr(row, remarkIdx, remarkOk),
		}

		if err := tx.Create(&part).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
		touched[asm] = true
		count++
	}

	// Dokunulan montajları oluştur (yoksa) ve toplamlarını yeniden hesapla
	for asm := range touched {
		var exists int64
		tx.Model(&models.Assembly{}).Where("assembly_mark = ?", asm).Count(&exists)
		if exists == 0 {
			if err := tx.Create(&models.Assembly{AssemblyMark: asm}).Error; err != nil {
				tx.Rollback()
				return 0, err
			}
		}
		if err := database.RecalcAssemblyTotal(tx, asm); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceImportExcel: Tüm parça ve montajları siler (ilerleme kayıtları
// korunur), sonra dosyayı içeri alır.
func ReplaceImportExcel(r io.Reader) (int, error) {
	tx := database.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	if err := tx.Where("1 = 1").Delete(&models.Part{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Where("1 = 1").Delete(&models.Assembly{}).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	return ImportExcel(r)
}
