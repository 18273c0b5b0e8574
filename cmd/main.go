package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fairvio/backend/internal/api/handler"
	"fairvio/backend/internal/auth"
	"fairvio/backend/internal/call"
	"fairvio/backend/internal/chat"
	"fairvio/backend/internal/config"
	"fairvio/backend/internal/handoff"
	"fairvio/backend/internal/jobs"
	"fairvio/backend/internal/localization"
	"fairvio/backend/internal/logger"
	"fairvio/backend/internal/models"
	"fairvio/backend/internal/notify"
	"fairvio/backend/internal/proxy"
	"fairvio/backend/internal/storage"
	"fairvio/backend/internal/wizard"

	"github.com/rs/zerolog"
)

func setupDependencies(cfg config.Config, log zerolog.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.IssueReport{},
		&models.EvidenceFile{},
		&models.WizardSession{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	log.Info().Msg("database and Redis connections established, migrations complete")
	return db, rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional outside local dev
	}

	cfg := config.Load()
	log := logger.New(cfg)
	log.Info().Msg("starting Fairvio backend")

	db, rdb := setupDependencies(cfg, log)
	s := storage.NewStorageService(db, rdb)

	localizer, err := localization.NewLocalizer("locales", log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load translations")
	}

	authSvc := auth.NewService(s, cfg.JWTSecret, log)
	wizardSvc := wizard.NewService(s, log)
	chatClient := chat.NewClient(cfg.ChatFunctionURL, cfg.HTTPTimeout, log)
	twilio := call.NewTwilioClient(cfg, log)
	placer := call.NewFunctionPlacer(cfg.CallFunctionURL, "call-page", cfg.HTTPTimeout, log)
	slot := handoff.NewSlot(s, config.HandoffTTL)

	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start staff notifier")
	}

	cleanup, err := jobs.Start(cfg, s, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule cleanup")
	}
	defer cleanup.Stop()

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "web/static")

	h := handler.NewHandler(s, authSvc, wizardSvc, chatClient, placer, slot, localizer, notifier, cfg, log)
	p := proxy.NewHandler(cfg, twilio, log)

	r.Use(h.EnsureVisitor(), authSvc.Identify())

	// Pages
	r.GET("/", h.Home)
	r.GET("/sign-in", h.SignInPage)
	r.GET("/sign-up", h.SignUpPage)
	r.GET("/chat", h.ChatPage)
	r.GET("/call", h.CallPage)
	r.GET("/report-issue", h.ReportIssuePage)
	r.GET("/report-details", h.ReportDetailsPage)
	r.GET("/report-confirmation", h.ReportConfirmationPage)
	r.GET("/my-reports", auth.RequirePage(), h.MyReportsPage)
	r.GET("/privacy-policy", h.PrivacyPolicyPage)
	r.GET("/terms-of-service", h.TermsOfServicePage)
	r.GET("/how-to-use", h.HowToUsePage)
	r.NoRoute(h.NotFound)

	// JSON API
	api := r.Group("/api")
	{
		api.POST("/auth/sign-up", h.SignUp)
		api.POST("/auth/sign-in", h.SignIn)
		api.POST("/auth/sign-out", h.SignOut)
		api.GET("/session", h.SessionInfo)
		api.POST("/language", h.SetLanguage)

		api.GET("/categories", h.Categories)
		api.POST("/report/select", h.SelectIssues)
		api.GET("/report/session/:id", h.WizardState)
		api.POST("/report/draft", h.SaveDraft)
		api.POST("/report/exit", h.ExitWizard)
		api.POST("/report/submit", auth.RequireAPI(), h.SubmitReport)
		api.GET("/reports", auth.RequireAPI(), h.ListMyReports)

		api.POST("/chat", h.SendChat)
		api.POST("/chat/summary", h.ChatSummary)
		api.POST("/call", h.PlaceCall)
	}

	// WebSocket call status stream
	r.GET("/ws/call", h.ServeCallWS)

	// Serverless-style functions
	functions := r.Group("/functions", proxy.CORS())
	{
		functions.POST("/chat-llm", p.ChatLLM)
		functions.OPTIONS("/chat-llm", func(*gin.Context) {})
		functions.POST("/initiate-call", p.InitiateCall)
		functions.OPTIONS("/initiate-call", func(*gin.Context) {})
		functions.POST("/twilio-call", p.TwilioCall)
		functions.OPTIONS("/twilio-call", func(*gin.Context) {})
	}

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   0, // websocket stream stays open
		MaxHeaderBytes: 1 << 20,
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
