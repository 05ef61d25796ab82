package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Table: Dışa aktarılacak tablo. Biçimlendirme kozmetiktir, sözleşme değil.
type Table struct {
	Headers []string
	Rows    [][]string
}

func formatKg(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

// MasterExportTable: Master raporu satırları tablo halinde.
func MasterExportTable() (*Table, error) {
	rows, err := MasterExport()
	if err != nil {
		return nil, err
	}

	t := &Table{
		Headers: []string{
			"Assembly Mark", "Sub Assembly", "Part Mark", "No.", "Name",
			"Profile", "kg/m", "Length (mm)", "Weight (kg)", "Profile 2", "Grade", "Remark",
			"FIT UP (kg)", "FIT UP Date",
			"WELDING (kg)", "WELDING Date",
			"BLASTING & PAINTING (kg)", "BLASTING & PAINTING Date",
			"SEND TO SITE (kg)", "SEND TO SITE Date",
		},
	}

	for _, r := range rows {
		p := r.Part
		t.Rows = append(t.Rows, []string{
			p.AssemblyMark, p.SubAssemblyMark, p.PartMark, strconv.Itoa(p.No), p.Name,
			p.Profile, formatKg(p.KgPerM), formatKg(p.LengthMm), formatKg(p.TotalWeightKg),
			p.Profile2, p.Grade, p.Remark,
			formatKg(r.FitUp.WeightKg), r.FitUp.Dates,
			formatKg(r.Welding.WeightKg), r.Welding.Dates,
			formatKg(r.Blasting.WeightKg), r.Blasting.Dates,
			formatKg(r.SendSite.WeightKg), r.SendSite.Dates,
		})
	}
	return t, nil
}

// RangeTable: Tarih aralığı raporu tablo halinde.
func RangeTable(start, end string) (*Table, error) {
	rows, err := ByRange(start, end)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Headers: []string{
			"Entry Date", "Assembly Mark", "Sub Assembly", "Stage",
			"Weight (kg)", "Qty", "D.O. No", "Remarks", "Assembly Total (kg)",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.EntryDate, r.AssemblyMark, r.SubAssemblyMark, string(r.Stage),
			formatKg(r.WeightKg), strconv.Itoa(r.Qty), r.DeliveryOrderNo, r.Remarks,
			formatKg(r.AsmTotal),
		})
	}
	return t, nil
}

// CumulativeBySubTable: Alt montaj kümülatif raporu tablo halinde.
func CumulativeBySubTable() (*Table, error) {
	rows, err := CumulativeBySubAssembly()
	if err != nil {
		return nil, err
	}

	t := &Table{
		Headers: []string{
			"Assembly Mark", "Sub Assembly", "Total Weight (kg)",
			"FIT UP (kg)", "WELDING (kg)", "BLASTING & PAINTING (kg)", "SEND TO SITE (kg)",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.AssemblyMark, r.SubAssemblyMark, formatKg(r.TotalWeightKg),
			formatKg(r.FitUpKg), formatKg(r.WeldingKg), formatKg(r.BlastingKg), formatKg(r.SendSiteKg),
		})
	}
	return t, nil
}

// WriteCSV: Tabloyu CSV olarak yazar.
func WriteCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteExcel: Tabloyu biçimli .xlsx olarak yazar: koyu başlık satırı,
// alternatif satır gölgelemesi, otomatik kolon genişliği.
func WriteExcel(t *Table, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Progress"
	}
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E3A5F"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	altStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"EEF2FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	colWidths := make([]int, len(t.Headers))

	for col, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		if len(h) > colWidths[col] {
			colWidths[col] = len(h)
		}
	}

	for i, row := range t.Rows {
		excelRow := i + 2
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, excelRow)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return nil, err
			}
			if col < len(colWidths) && len(val) > colWidths[col] {
				colWidths[col] = len(val)
			}
		}
		// Çift satırlara gölge
		if excelRow%2 == 0 && len(row) > 0 {
			first, _ := excelize.CoordinatesToCellName(1, excelRow)
			last, _ := excelize.CoordinatesToCellName(len(t.Headers), excelRow)
			if err := f.SetCellStyle(sheetName, first, last, altStyle); err != nil {
				return nil, err
			}
		}
	}

	for col, width := range colWidths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		w := float64(width + 4)
		if w > 40 {
			w = 40
		}
		if err := f.SetColWidth(sheetName, name, name, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel yazılamadı: %w", err)
	}
	return buf.Bytes(), nil
}
