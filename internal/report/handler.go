package report

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

// GET /api/reports/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := SummaryTotals()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		return c.JSON(summary)
	}
}

// GET /api/reports/cumulative
func CumulativeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := CumulativeByAssembly()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kümülatif rapor hesaplanamadı")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/cumulative-by-sub
func CumulativeBySubHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := CumulativeBySubAssembly()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt montaj raporu hesaplanamadı")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/master
func MasterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := MasterExport()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Master rapor hesaplanamadı")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/daily?date=2025-03-10
func DailyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := c.Query("date")
		if _, err := time.Parse(dateLayout, date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date parametresi 'YYYY-MM-DD' formatında zorunlu")
		}

		rows, err := ByDate(date)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Günlük rapor hesaplanamadı")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/range?start=2025-03-01&end=2025-03-31
func RangeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c)
		if err != nil {
			return err
		}

		rows, err := ByRange(start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aralık raporu hesaplanamadı")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/master/export?format=xlsx|csv
func MasterExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := MasterExportTable()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Master rapor hesaplanamadı")
		}
		return sendTable(c, table, "master-report", "Master")
	}
}

// GET /api/reports/range/export?start=&end=&format=xlsx|csv
func RangeExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c)
		if err != nil {
			return err
		}

		table, err := RangeTable(start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Aralık raporu hesaplanamadı")
		}
		return sendTable(c, table, "progress-"+start+"-"+end, "Progress")
	}
}

// GET /api/reports/cumulative-by-sub/export?format=xlsx|csv
func CumulativeBySubExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := CumulativeBySubTable()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt montaj raporu hesaplanamadı")
		}
		return sendTable(c, table, "cumulative-by-sub", "Cumulative")
	}
}

func parseRange(c *fiber.Ctx) (string, string, error) {
	start := c.Query("start")
	end := c.Query("end")
	if _, err := time.Parse(dateLayout, start); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "start parametresi 'YYYY-MM-DD' formatında zorunlu")
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "end parametresi 'YYYY-MM-DD' formatında zorunlu")
	}
	return start, end, nil
}

// sendTable: Tabloyu istenen formatta indirilebilir dosya olarak gönderir.
func sendTable(c *fiber.Ctx, table *Table, filename, sheetName string) error {
	switch c.Query("format", "xlsx") {
	case "csv":
		data, err := WriteCSV(table)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "CSV oluşturulamadı")
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`.csv"`)
		return c.Send(data)
	case "xlsx":
		data, err := WriteExcel(table, sheetName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel oluşturulamadı")
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`.xlsx"`)
		return c.Send(data)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "format csv veya xlsx olmalı")
	}
}
