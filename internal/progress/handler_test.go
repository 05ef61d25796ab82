package progress

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	setupTestDB(t)
	if err := database.DB.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("migrasyon başarısız: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Beklenmeyen sunucu hatası"})
		},
	})
	app.Post("/api/progress-entries", CreateProgressEntryHandler())
	app.Post("/api/progress-entries/batch", CommitBatchHandler())
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestCreateProgressEntryEndpoint(t *testing.T) {
	app := newTestApp(t)

	if code := postJSON(t, app, "/api/progress-entries", cand("2026-08-01", "B1", "", models.StageFitUp)); code != fiber.StatusCreated {
		t.Fatalf("geçerli FIT UP 201 dönmeli, dönen: %d", code)
	}

	// Aşama sırası ihlali 409'a çevrilir
	if code := postJSON(t, app, "/api/progress-entries", cand("2026-08-02", "B2", "", models.StageWelding)); code != fiber.StatusConflict {
		t.Errorf("aşama atlamak 409 dönmeli, dönen: %d", code)
	}

	// Alan hatası 400'e çevrilir
	bad := cand("2026-08-02", "B1", "", models.StageWelding)
	bad.EntryDate = "02/08/2026"
	if code := postJSON(t, app, "/api/progress-entries", bad); code != fiber.StatusBadRequest {
		t.Errorf("hatalı tarih 400 dönmeli, dönen: %d", code)
	}
}

func TestCommitBatchEndpoint(t *testing.T) {
	app := newTestApp(t)

	ok := BatchRequest{Entries: []Candidate{
		cand("2026-08-01", "B1", "", models.StageFitUp),
		cand("2026-08-01", "B1", "", models.StageWelding),
	}}
	if code := postJSON(t, app, "/api/progress-entries/batch", ok); code != fiber.StatusCreated {
		t.Fatalf("geçerli batch 201 dönmeli, dönen: %d", code)
	}

	if code := postJSON(t, app, "/api/progress-entries/batch", BatchRequest{}); code != fiber.StatusBadRequest {
		t.Errorf("boş batch 400 dönmeli, dönen: %d", code)
	}

	broken := BatchRequest{Entries: []Candidate{
		cand("2026-08-02", "B9", "", models.StageWelding),
	}}
	if code := postJSON(t, app, "/api/progress-entries/batch", broken); code != fiber.StatusConflict {
		t.Errorf("ön koşulsuz batch 409 dönmeli, dönen: %d", code)
	}
}
