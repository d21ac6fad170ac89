// Package main runs the club management HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aeroclub/backend/config"
	"github.com/aeroclub/backend/internal/admin"
	"github.com/aeroclub/backend/internal/auth"
	"github.com/aeroclub/backend/internal/clubs"
	"github.com/aeroclub/backend/internal/documents"
	"github.com/aeroclub/backend/internal/events"
	"github.com/aeroclub/backend/internal/facilities"
	"github.com/aeroclub/backend/internal/invitations"
	"github.com/aeroclub/backend/internal/mailer"
	"github.com/aeroclub/backend/internal/middleware"
	"github.com/aeroclub/backend/internal/news"
	"github.com/aeroclub/backend/internal/votes"
	"github.com/aeroclub/backend/internal/worker"
	"github.com/aeroclub/backend/pkg/database"
	"github.com/aeroclub/backend/pkg/queue"
	"github.com/aeroclub/backend/pkg/redis"
	"github.com/aeroclub/backend/pkg/response"
	"github.com/aeroclub/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			DocumentsBucket:      cfg.AWS.DocumentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpireMin, cfg.JWT.RefreshExpireDays)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	googleClient := auth.NewGoogleClient()
	authHandler := auth.NewHandler(authRepo, jwtService, googleClient, logger)

	// Clubs and memberships
	clubRepo := clubs.NewRepository(pool)
	clubHandler := clubs.NewHandler(clubRepo, authRepo, logger)

	// Invitations
	invRepo := invitations.NewRepository(pool, cfg.Invitations.ExpireDays)
	invHandler := invitations.NewHandler(invRepo, clubRepo, authRepo, jwtService, jobQueue, cfg.Server.FrontendURL, logger)

	// Events and attendance
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, clubRepo, logger)

	// News and comments
	newsRepo := news.NewRepository(pool)
	newsHandler := news.NewHandler(newsRepo, clubRepo, logger)

	// Votes
	voteRepo := votes.NewRepository(pool)
	voteHandler := votes.NewHandler(voteRepo, clubRepo, logger)

	// Facility access codes
	facilityRepo := facilities.NewRepository(pool)
	facilityHandler := facilities.NewHandler(facilityRepo, clubRepo, logger)

	// Regulatory documents (S3-backed)
	docRepo := documents.NewRepository(pool)
	docHandler := documents.NewHandler(docRepo, s3Client, logger)

	// Superadmin config + SMTP sender (runtime config overrides env)
	adminRepo := admin.NewRepository(pool)
	sender := mailer.NewSender(cfg.Email, adminRepo, logger)
	adminHandler := admin.NewHandler(adminRepo, sender, logger)

	// Email worker (in-process; cmd/worker runs the same loop standalone)
	emailLogs := mailer.NewRepository(pool)
	emailLogHandler := mailer.NewHandler(emailLogs, clubRepo, logger)
	emailProcessor := worker.NewEmailProcessor(sender, emailLogs, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/registro", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh-token", authHandler.Refresh)
		authGroup.POST("/google-oauth", authHandler.GoogleLogin)
		authGroup.POST("/registrarse-desde-invitacion", invHandler.RegisterFromInvitation)
	}

	// Public invitation landing lookup (no auth)
	router.GET("/auth/invitaciones/publica/:token", invHandler.PublicLookup)

	// Protected API (access token required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService, authRepo))
	{
		// Current user
		api.GET("/auth/usuarios/me", authHandler.Me)
		api.PUT("/auth/usuarios/me", authHandler.UpdateMe)
		api.POST("/auth/usuarios/cambiar-contrasena", authHandler.ChangePassword)
		api.POST("/auth/logout", authHandler.Logout)

		// Clubs
		api.POST("/clubes", middleware.RequireSuperadmin(authRepo), clubHandler.Create)
		api.GET("/clubes/mis-clubes", clubHandler.ListMine)
		api.GET("/clubes/mi-rol/:club_id", clubHandler.MyRole)
		api.GET("/clubes/:club_id", clubHandler.Get)
		api.PUT("/clubes/:club_id", clubHandler.Update)

		// Members
		api.GET("/clubes/:club_id/miembros", clubHandler.ListMembers)
		api.PUT("/clubes/:club_id/miembros/:user_id", clubHandler.UpdateMemberRole)
		api.DELETE("/clubes/:club_id/miembros/:user_id", clubHandler.RemoveMember)

		// Invitations
		api.POST("/clubes/:club_id/invitaciones", invHandler.Create)
		api.GET("/clubes/:club_id/invitaciones", invHandler.ListForClub)
		api.POST("/clubes/:club_id/invitaciones/:id/reenviar", invHandler.Resend)
		api.GET("/clubes/:club_id/emails", emailLogHandler.ListForClub)
		api.GET("/auth/invitaciones/pendientes", invHandler.PendingForMe)
		api.POST("/auth/invitaciones/aceptar", invHandler.Accept)
		api.POST("/auth/invitaciones/rechazar", invHandler.Reject)

		// Events and RSVP
		api.POST("/clubes/:club_id/eventos", eventHandler.Create)
		api.GET("/clubes/:club_id/eventos", eventHandler.List)
		api.GET("/clubes/:club_id/eventos/:evento_id", eventHandler.Get)
		api.PUT("/clubes/:club_id/eventos/:evento_id", eventHandler.Update)
		api.DELETE("/clubes/:club_id/eventos/:evento_id", eventHandler.Delete)
		api.POST("/clubes/:club_id/eventos/:evento_id/asistencia", eventHandler.SetAttendance)
		api.GET("/clubes/:club_id/eventos/:evento_id/asistencia", eventHandler.ListAttendees)
		api.GET("/clubes/:club_id/eventos/:evento_id/mi-asistencia", eventHandler.MyAttendance)

		// News and comments
		api.POST("/clubes/:club_id/noticias", newsHandler.Create)
		api.GET("/clubes/:club_id/noticias", newsHandler.List)
		api.GET("/clubes/:club_id/noticias/:noticia_id", newsHandler.Get)
		api.PUT("/clubes/:club_id/noticias/:noticia_id", newsHandler.Update)
		api.DELETE("/clubes/:club_id/noticias/:noticia_id", newsHandler.Delete)
		api.POST("/clubes/:club_id/noticias/:noticia_id/comentarios", newsHandler.CreateComment)
		api.GET("/clubes/:club_id/noticias/:noticia_id/comentarios", newsHandler.ListComments)
		api.DELETE("/clubes/:club_id/noticias/:noticia_id/comentarios/:comentario_id", newsHandler.DeleteComment)

		// Votes
		api.POST("/clubes/:club_id/votaciones", voteHandler.Create)
		api.GET("/clubes/:club_id/votaciones", voteHandler.List)
		api.GET("/clubes/:club_id/votaciones/:votacion_id", voteHandler.Get)
		api.POST("/clubes/:club_id/votaciones/:votacion_id/cerrar", voteHandler.Close)
		api.DELETE("/clubes/:club_id/votaciones/:votacion_id", voteHandler.Delete)
		api.POST("/clubes/:club_id/votaciones/:votacion_id/votar", voteHandler.Cast)
		api.GET("/clubes/:club_id/votaciones/:votacion_id/mi-voto", voteHandler.MyBallot)
		api.GET("/clubes/:club_id/votaciones/:votacion_id/resultados", voteHandler.Results)

		// Facility access codes
		api.GET("/clubes/:club_id/instalacion/password", facilityHandler.Current)
		api.POST("/clubes/:club_id/instalacion/password", facilityHandler.Set)
		api.GET("/clubes/:club_id/instalacion/password/historial", facilityHandler.History)

		// Regulatory documentation
		api.GET("/documentacion/me", docHandler.Me)
		api.POST("/documentacion/me", docHandler.UpsertMe)
		api.POST("/documentacion/me/archivos/:tipo", docHandler.UploadFile)
		api.GET("/documentacion/me/archivos/:tipo", docHandler.DownloadFile)

		// Superadmin
		super := api.Group("", middleware.RequireSuperadmin(authRepo))
		{
			super.GET("/documentacion/usuarios/:user_id", docHandler.AdminGetUser)
			super.GET("/documentacion/usuarios/:user_id/archivos/:tipo", docHandler.AdminDownloadFile)
			super.GET("/admin/configuracion", adminHandler.GetConfig)
			super.PUT("/admin/configuracion", adminHandler.UpdateConfig)
			super.POST("/admin/configuracion/probar-email", adminHandler.TestEmail)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// In-process email worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go emailProcessor.Run(workerCtx)
	logger.Info("email worker started")

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
