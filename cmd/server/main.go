package main

import (
	"log"
	"strings"

	"imalat-takip-backend/internal/audit"
	"imalat-takip-backend/internal/auth"
	"imalat-takip-backend/internal/catalog"
	"imalat-takip-backend/internal/config"
	"imalat-takip-backend/internal/database"
	"imalat-takip-backend/internal/models"
	"imalat-takip-backend/internal/progress"
	"imalat-takip-backend/internal/rawmaterial"
	"imalat-takip-backend/internal/report"
	"imalat-takip-backend/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Put("/users/:id/password", auth.UpdateUserPasswordHandler())
	adminRoutes.Put("/users/:id/role", auth.UpdateUserRoleHandler())
	adminRoutes.Put("/users/:id/toggle-active", auth.ToggleUserActiveHandler())
	adminRoutes.Delete("/users/:id", auth.DeleteUserHandler())

	// Tam silme
	adminRoutes.Delete("/data", catalog.ClearAllDataHandler())

	// Veri giren roller (viewer hariç)
	writer := protected.Group("")
	writer.Use(auth.RequireRole(models.RoleAdmin, models.RoleUser))

	// Katalog: montajlar ve parçalar
	protected.Get("/assemblies", catalog.ListAssembliesHandler())
	protected.Get("/assembly-marks", catalog.ListAssemblyMarksHandler())
	protected.Get("/assemblies/:mark/sub-marks", catalog.ListSubAssemblyMarksHandler())
	protected.Get("/assemblies/:mark/summary", catalog.PartsSummaryHandler())
	writer.Post("/assemblies", catalog.CreateAssemblyHandler())

	protected.Get("/parts", catalog.ListPartsHandler())
	writer.Post("/parts", catalog.CreatePartHandler())
	writer.Put("/parts/:id", catalog.UpdatePartHandler())
	writer.Delete("/parts/:id", catalog.DeletePartHandler())
	writer.Post("/parts/import", catalog.ImportPartsHandler())

	// İlerleme defteri
	protected.Get("/progress-entries", progress.ListProgressEntriesHandler())
	writer.Post("/progress-entries", progress.CreateProgressEntryHandler())
	writer.Post("/progress-entries/batch", progress.CommitBatchHandler())
	writer.Put("/progress-entries/:id", progress.UpdateProgressEntryHandler())
	writer.Delete("/progress-entries/:id", progress.DeleteProgressEntryHandler())
	protected.Get("/deliveries", progress.ListDeliveriesHandler())

	// Raporlar
	protected.Get("/reports/summary", report.SummaryHandler())
	protected.Get("/reports/cumulative", report.CumulativeHandler())
	protected.Get("/reports/cumulative-by-sub", report.CumulativeBySubHandler())
	protected.Get("/reports/cumulative-by-sub/export", report.CumulativeBySubExportHandler())
	protected.Get("/reports/master", report.MasterHandler())
	protected.Get("/reports/master/export", report.MasterExportHandler())
	protected.Get("/reports/daily", report.DailyHandler())
	protected.Get("/reports/range", report.RangeHandler())
	protected.Get("/reports/range/export", report.RangeExportHandler())

	// Hammadde defteri
	protected.Get("/raw-materials", rawmaterial.ListRawMaterialsHandler())
	protected.Get("/raw-materials/summary", rawmaterial.RawMaterialSummaryHandler())
	writer.Post("/raw-materials", rawmaterial.CreateRawMaterialHandler())
	writer.Delete("/raw-materials/:id", rawmaterial.DeleteRawMaterialHandler())
	writer.Post("/raw-materials/import", rawmaterial.ImportRawMaterialsHandler())

	// Oturum görünürlüğü
	protected.Post("/sessions/heartbeat", session.HeartbeatHandler())
	protected.Get("/sessions/active", session.ActiveSessionsHandler())
	protected.Get("/sessions/history", session.SessionHistoryHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
