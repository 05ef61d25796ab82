package progress

import (
	"errors"
	"fmt"

	"imalat-takip-backend/internal/audit"
	"imalat-takip-backend/internal/auth"
	"imalat-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError: Çekirdek hatalarını HTTP durum kodlarına çevirir.
func mapServiceError(err error, fallback string) error {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		// Sarılmış hata mesajını koru ("satır N: ..." öneki olabilir)
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	var preErr *PrecedenceError
	if errors.As(err, &preErr) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "İlerleme kaydı bulunamadı")
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

// POST /api/progress-entries
func CreateProgressEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Candidate
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		entry, err := Append(body)
		if err != nil {
			return mapServiceError(err, "İlerleme kaydı oluşturulamadı")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "progress_entry",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("İlerleme girildi: %s %s (%.2f kg)", entry.AssemblyMark, entry.Stage, entry.WeightKg),
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

type BatchRequest struct {
	Entries []Candidate `json:"entries"`
}

// POST /api/progress-entries/batch
// Kuyruktaki adaylar birbirine ve kayıtlı duruma karşı topluca doğrulanır,
// sonra sırayla kaydedilir.
func CommitBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if len(body.Entries) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "entries boş olamaz")
		}

		entries, err := CommitBatch(body.Entries)
		if err != nil {
			if len(entries) > 0 {
				// Doğrulama geçti ama kayıt ortada kesildi: kısmi commit durumu
				return fiber.NewError(fiber.StatusInternalServerError,
					fmt.Sprintf("Batch yarıda kesildi: %d kayıt yazıldı, hata: %v", len(entries), err))
			}
			return mapServiceError(err, "Batch kaydedilemedi")
		}

		userID, username := auth.CurrentUser(c)
		for _, entry := range entries {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				Username:    username,
				EntityType:  "progress_entry",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("İlerleme girildi (batch): %s %s (%.2f kg)", entry.AssemblyMark, entry.Stage, entry.WeightKg),
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"committed": len(entries),
			"entries":   entries,
		})
	}
}

// GET /api/progress-entries?keyword=&stage=&assembly_mark=&start=&end=
func ListProgressEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters := SearchFilters{
			Keyword:      c.Query("keyword"),
			Stage:        models.Stage(c.Query("stage")),
			AssemblyMark: c.Query("assembly_mark"),
			StartDate:    c.Query("start"),
			EndDate:      c.Query("end"),
		}
		if filters.Stage != "" && !models.IsValidStage(filters.Stage) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz aşama: "+string(filters.Stage))
		}

		entries, err := Search(filters)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İlerleme kayıtları listelenemedi")
		}
		return c.JSON(entries)
	}
}

// PUT /api/progress-entries/:id — açık düzeltme yolu
func UpdateProgressEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt ID")
		}

		var body Candidate
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before, after, err := Update(uint(id), body)
		if err != nil {
			return mapServiceError(err, "İlerleme kaydı güncellenemedi")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "progress_entry",
			EntityID:    uint(id),
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("İlerleme düzeltildi: %s %s", after.AssemblyMark, after.Stage),
			Before:      before,
			After:       after,
		})

		return c.JSON(after)
	}
}

// DELETE /api/progress-entries/:id
// Not: Silinen kayda yaslanan sonraki girişler yeniden doğrulanmaz.
func DeleteProgressEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kayıt ID")
		}

		deleted, err := Delete(uint(id))
		if err != nil {
			return mapServiceError(err, "İlerleme kaydı silinemedi")
		}

		userID, username := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			Username:    username,
			EntityType:  "progress_entry",
			EntityID:    deleted.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("İlerleme silindi: %s %s (%s)", deleted.AssemblyMark, deleted.Stage, deleted.EntryDate),
			Before:      deleted,
		})

		return c.JSON(fiber.Map{"message": "İlerleme kaydı silindi"})
	}
}

// GET /api/deliveries
func ListDeliveriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := Deliveries()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sevkiyat kayıtları listelenemedi")
		}
		return c.JSON(entries)
	}
}
