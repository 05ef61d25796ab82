package rawmaterial

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

// columnAliases: Alan -> kabul edilen başlık adları. Tedarikçi şablonları
// birbirini tutmadığı için başlıklar küçük harfe çevrilerek eşleştirilir.
var columnAliases = map[string][]string{
	"received_date": {"received date", "received_date", "date"},
	"do_no":         {"d.o. number", "do number", "do no", "do_no", "d.o. no"},
	"description":   {"description"},
	"grade":         {"grade"},
	"qty":           {"qty", "quantity"},
	"total_kg":      {"total kg", "total_kg", "total weight", "total weight (kg)"},
	"remark":        {"remark", "remarks"},
}

// findHeaderRow: Başlık satırı "Description" veya "Received Date" kolonunu
// taşıyan ilk satırdır; ilk satır olmak zorunda değildir.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name == "description" || name == "received date" {
				return i
			}
		}
	}
	return -1
}

// ImportExcel: Hammadde kayıtlarını Excel'den içeri alır. En iyi çaba:
// açıklaması boş satırlar atlanır, dönen sayı kaydedilen satır sayısıdır.
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
		return 0, &ImportError{Msg: "Başlık satırı bulunamadı. Beklenen kolonlar: Received Date, D.O. Number, Description, Grade, Qty, Remark"}
	}

	col := make(map[string]int)
	for c, cell := range rows[headerRow] {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		for field, names := range columnAliases {
			if _, done := col[field]; done {
				continue
			}
			for _, alias := range names {
				if name == alias {
					col[field] = c
					break
				}
			}
		}
	}

	get := func(row []string, field string) string {
		idx, ok := col[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	getFloat := func(row []string, field string) float64 {
		v, err := strconv.ParseFloat(strings.ReplaceAll(get(row, field), ",", ""), 64)
		if err != nil {
			return 0
		}
		return v
	}

	count := 0
	for _, row := range rows[headerRow+1:] {
		desc := get(row, "description")
		if desc == "" {
			continue // açıklamasız satır, atla
		}

		rm := models.RawMaterial{
			ReceivedDate: get(row, "received_date"),
			DoNo:         get(row, "do_no"),
			Description:  desc,
			Grade:        get(row, "grade"),
			Qty:          getFloat(row, "qty"),
			TotalKg:      getFloat(row, "total_kg"),
			Remark:       get(row, "remark"),
		}
		if err := database.DB.Create(&rm).Error; err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}
