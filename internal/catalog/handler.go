package catalog

import (
	"errors"
	"fmt"
	"strings"

	"imalat-takip-backend/internal/audit"
	"imalat-takip-backend/internal/auth"
	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAssemblyRequest struct {
	AssemblyMark  string  `json:"assembly_mark"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	Description   string  `json:"description"`
}

type PartRequest struct {
	AssemblyMark    string  `json:"assembly_mark"`
	SubAssemblyMark string  `json:"sub_assembly_mark"`
	PartMark        string  `json:"part_mark"`
	No              int     `json:"no"`
	Name            string  `json:"name"`
	Profile         string  `json:"profile"`
	KgPerM          float64 `json:"kg_per_m"`
	LengthMm        float64 `json:"length_mm"`
	TotalWeightKg   float64 `json:"total_weight_kg"`
	Profile2        string  `json:"profile2"`
	Grade           string  `json:"grade"`
	Remark          string  `json:"remark"`
}

func (r PartRequest) toModel() models.Part {
	return models.Part{
		AssemblyMark:    r.AssemblyMark,
		SubAssemblyMark: r.SubAssemblyMark,
		PartMark:        r.PartMark,
		No:              r.No,
		Name:            r.Name,
		Profile:         r.Profile,
		KgPerM:          r.KgPerM,
		LengthMm:        r.LengthMm,
		TotalWeightKg:   r.TotalWeightKg,
		Profile2:        r.Profile2,
		Grade:           r.Grade,
		Remark:          r.Remark,
	}
}

// GET /api/assemblies
func ListAssembliesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assemblies, err := Assemblies()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Montajlar listelenemedi")
		}
		return c.JSON(assemblies)
	}
}

// GET /api/assembly-marks
func ListAssemblyMarksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		marks, err := AssemblyMarks()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Markalar listelenemedi")
		}
		return c.JSON(marks)
	}
}

// GET /api/assemblies/:mark/sub-marks
func ListSubAssemblyMarksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		mark := strings.TrimSpace(c.Params("mark"))
		if mark == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Montaj markası zorunlu")
		}
		marks, err := SubAssemblyMarks(mark)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alt montaj markaları listelenemedi")
		}
		return c.JSON(marks)
	}
}

// GET /api/assemblies/:mark/summary
func PartsSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		mark := strings.TrimSpace(c.Params("mark"))
		count, total, err := PartsSummary(mark)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		return c.JSON(fiber.Map{
			"assembly_mark":   mark,
			"part_count":      count,
			"total_weight_kg": total,
		})
	}
}

// POST /api/assemblies
func CreateAssemblyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAssemblyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.AssemblyMark) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "assembly_mark zorunludur")
		}

		if err := AddAssembly(body.AssemblyMark, body.TotalWeightKg, body.Description); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Montaj oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Montaj kaydedildi"})
	}
}

// GET /api/parts?assembly_mark=B1&keyword=HEA
func ListPartsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assemblyMark := c.Query("assembly_mark")
		keyword := c.Query("keyword")

		var (
			parts []models.Part
			err   error
		)
		if keyword != "" {
			parts, err = SearchParts(keyword, assemblyMark)
		} else {
			parts, err = Parts(assemblyMark)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parçalar listelenemedi")
		}
		return c.JSON(parts)
	}
}

// POST /api/parts
func CreatePartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.AssemblyMark) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "assembly_mark zorunludur")
		}

		part := body.toModel()
		if err := AddPart(&part); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Parça oluşturulamadı")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "part",
			EntityID:    part.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Parça eklendi: %s / %s (%.2f kg)", part.AssemblyMark, part.PartMark, part.TotalWeightKg),
			After:       part,
		})

		return c.Status(fiber.StatusCreated).JSON(part)
	}
}

// PUT /api/parts/:id
func UpdatePartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz parça ID")
		}

		var body PartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.AssemblyMark) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "assembly_mark zorunludur")
		}

		var before models.Part
		_ = beforeSnapshot(uint(id), &before)

		updated, err := UpdatePart(uint(id), body.toModel())
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Parça bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Parça güncellenemedi")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "part",
			EntityID:    uint(id),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Parça düzeltildi: %s / %s", updated.AssemblyMark, updated.PartMark),
			Before:      before,
			After:       updated,
		})

		return c.JSON(updated)
	}
}

// DELETE /api/parts/:id
func DeletePartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz parça ID")
		}

		var before models.Part
		_ = beforeSnapshot(uint(id), &before)

		if err := DeletePart(uint(id)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Parça bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Parça silinemedi")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "part",
			EntityID:    uint(id),
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Parça silindi: %s / %s", before.AssemblyMark, before.PartMark),
			Before:      before,
		})

		return c.JSON(fiber.Map{"message": "Parça silindi"})
	}
}

// POST /api/parts/import  (multipart "file")
// POST /api/parts/import?replace=true  — önce parça/montaj tablosunu boşaltır
func ImportPartsHandler() fiber.Handler {
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

		var count int
		if c.QueryBool("replace") {
			count, err = ReplaceImportExcel(file)
		} else {
			count, err = ImportExcel(file)
		}
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

// DELETE /api/admin/data — tam silme, sadece admin
func ClearAllDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ClearAllData(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veriler silinemedi")
		}
		return c.JSON(fiber.Map{"message": "Tüm ilerleme, parça ve montaj kayıtları silindi"})
	}
}

// beforeSnapshot: Audit için silme/güncelleme öncesi kaydın hali.
func beforeSnapshot(id uint, dst *models.Part) error {
	return database.DB.First(dst, id).Error
}
