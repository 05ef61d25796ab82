package rawmaterial

import (
	"errors"
	"fmt"
	"strings"

	"imalat-takip-backend/internal/audit"
	"imalat-takip-backend/internal/auth"
	"imalat-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRawMaterialRequest struct {
	ReceivedDate string  `json:"received_date"`
	DoNo         string  `json:"do_no"`
	Description  string  `json:"description"`
	Grade        string  `json:"grade"`
	Qty          float64 `json:"qty"`
	TotalKg      float64 `json:"total_kg"`
	Remark       string  `json:"remark"`
}

// POST /api/raw-materials
func CreateRawMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRawMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		rm, err := Add(body.ReceivedDate, body.DoNo, body.Description, body.Grade, body.Qty, body.TotalKg, body.Remark)
		if err != nil {
			var valErr *ValidationError
			if errors.As(err, &valErr) {
				return fiber.NewError(fiber.StatusBadRequest, valErr.Msg)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde kaydı oluşturulamadı")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "raw_material",
			EntityID:    rm.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Hammadde girişi: %s (%.2f kg)", rm.Description, rm.TotalKg),
			After:       rm,
		})

		return c.Status(fiber.StatusCreated).JSON(rm)
	}
}

// GET /api/raw-materials?start=2025-01-01&end=2025-01-31
func ListRawMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := ListByDateRange(c.Query("start"), c.Query("end"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde kayıtları listelenemedi")
		}
		return c.JSON(rows)
	}
}

// GET /api/raw-materials/summary
func RawMaterialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := Summary()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		return c.JSON(s)
	}
}

// DELETE /api/raw-materials/:id
// Silme sonrası ID'ler 1..n olarak yeniden numaralandırılır (kozmetik).
func DeleteRawMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt ID")
		}

		if err := Delete(uint(id)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Hammadde kaydı bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Hammadde kaydı silinemedi")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "raw_material",
			EntityID:    uint(id),
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Hammadde kaydı silindi (ID: %d)", id),
		})

		return c.JSON(fiber.Map{"message": "Hammadde kaydı silindi"})
	}
}

// POST /api/raw-materials/import  (multipart "file")
func ImportRawMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		count, err := ImportExcel(file)
		if err != nil {
			var impErr *ImportError
			if errors.As(err, &impErr) {
				return fiber.NewError(fiber.StatusBadRequest, impErr.Msg)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Import başarısız: "+err.Error())
		}

		return c.JSON(fiber.Map{"imported": count})
	}
}
