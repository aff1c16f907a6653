package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/auth"
	"github.com/BruksfildServices01/salon-agenda/internal/config"
	"github.com/BruksfildServices01/salon-agenda/internal/handlers"
	"github.com/BruksfildServices01/salon-agenda/internal/media"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/payments"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime/gormstore"
	ucImporting "github.com/BruksfildServices01/salon-agenda/internal/usecase/importing"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	notifier realtime.Notifier,
	log *zap.Logger,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	users := gormstore.New[*models.User](db, "users", notifier, log)
	salons := gormstore.New[*models.Salon](db, "salons", notifier, log)
	clients := gormstore.New[*models.Client](db, "clients", notifier, log)
	schedules := gormstore.New[*models.Schedule](db, "schedules", notifier, log)
	auditLogs := gormstore.New[*models.AuditLog](db, "audit_logs", notifier, log)

	auditLogger := audit.New(auditLogs)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	authService := auth.NewService(users, salons, cfg.JWTSecret, auth.LogMailer{Log: log}, log)

	avatarUploader := media.NewAvatarUploader(cfg)

	var paymentLinks *payments.LinkGenerator
	if cfg.MercadoPagoToken != "" {
		links, err := payments.NewLinkGenerator(cfg.MercadoPagoToken)
		if err != nil {
			log.Warn("mercado pago indisponível", zap.Error(err))
		} else {
			paymentLinks = links
		}
	}

	// ======================================================
	// 🧠 USE CASES — IMPORTAÇÃO DE CONTATOS
	// ======================================================
	previewImportUC := ucImporting.NewPreviewImport(clients)
	confirmImportUC := ucImporting.NewConfirmImport(clients, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authService)
	meHandler := handlers.NewMeHandler(users, salons, authService)

	clientHandler := handlers.NewClientHandler(clients, auditDispatcher)
	scheduleHandler := handlers.NewScheduleHandler(schedules, clients, auditDispatcher)
	importHandler := handlers.NewImportHandler(previewImportUC, confirmImportUC)

	streamHandler := handlers.NewStreamHandler(users, clients, schedules, log)
	avatarHandler := handlers.NewAvatarHandler(avatarUploader, authService, cfg.AvatarBaseURL)
	paymentHandler := handlers.NewPaymentHandler(schedules, paymentLinks)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/password-reset", authHandler.ForgotPassword)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.POST("/me/avatar", avatarHandler.Upload)

			// ------------------------------
			// CLIENTES
			// ------------------------------
			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)
			secured.GET("/me/clients/stream", streamHandler.Clients)

			secured.POST("/me/clients/import/preview", importHandler.Preview)
			secured.POST("/me/clients/import", importHandler.Confirm)

			// ------------------------------
			// AGENDAMENTOS
			// ------------------------------
			secured.GET("/me/schedules", scheduleHandler.List)
			secured.POST("/me/schedules", scheduleHandler.Create)
			secured.PATCH("/me/schedules/:id", scheduleHandler.Update)
			secured.DELETE("/me/schedules/:id", scheduleHandler.Delete)
			secured.GET("/me/schedules/stream", streamHandler.Schedules)
			secured.POST("/me/schedules/:id/payment-link", paymentHandler.CreateLink)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
