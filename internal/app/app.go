package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"onerinn/internal/config"
	"onerinn/internal/handlers"
	"onerinn/internal/i18n"
	"onerinn/internal/onetime"
	"onerinn/internal/pdf"
	"onerinn/internal/ratelimit"
	"onerinn/internal/repositories"
	"onerinn/internal/routes"
	"onerinn/internal/services"
	"onerinn/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "onerinn/docs"
)

func Run() {
	cfg := config.LoadConfig()

	if err := i18n.Init(); err != nil {
		log.Fatal("Ошибка загрузки переводов: ", err)
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Rate limiter: Redis, если настроен, иначе память процесса ===
	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisLimiter(rdb, "onerinn")
		log.Printf("[app] rate limiter: redis %s", cfg.Redis.Addr)
	} else {
		limiter = ratelimit.NewMemoryLimiter()
		log.Printf("[app] rate limiter: in-memory (redis не настроен)")
	}

	// === Object storage ===
	store, err := storage.NewS3Storage(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal("Ошибка инициализации хранилища: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	adminAccountRepo := repositories.NewAdminAccountRepository(db)
	adminSessionRepo := repositories.NewAdminSessionRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	notifier := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.OpsChatID)

	userService := services.NewUserService(userRepo, emailService, authService)
	resetService := services.NewPasswordResetService(
		userService, resetRepo, emailService, authService, limiter, cfg.App.BaseURL,
	)
	adminService := services.NewAdminService(
		adminAccountRepo, adminSessionRepo, onetime.NewMemoryStore(),
		emailService, authService, cfg.App.BaseURL,
	)

	listingService := services.NewListingService(listingRepo, favoriteRepo, notifier)
	pdfGen := pdf.NewStatementGenerator("assets/fonts/DejaVuSans.ttf")
	payoutService := services.NewPayoutService(payoutRepo, userRepo, emailService, pdfGen, notifier)
	verificationService := services.NewVerificationService(verificationRepo, userRepo, notifier)

	assistantService := services.NewAssistantService(
		services.NewHTTPCompleter(cfg.Assistant.BaseURL, cfg.Assistant.APIKey, cfg.Assistant.Model),
	)

	// === Handlers ===
	sessionTTL := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(
		userService, authService, resetService,
		cfg.Auth.SessionCookie, cfg.Auth.SecureCookies, sessionTTL,
	)
	userHandler := handlers.NewUserHandler(userService)
	listingHandler := handlers.NewListingHandler(listingService)
	favoriteHandler := handlers.NewFavoriteHandler(listingService)
	uploadHandler := handlers.NewUploadHandler(store)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	adminHandler := handlers.NewAdminHandler(
		adminService, userService, listingService, payoutService,
		verificationService, assistantService,
		cfg.Auth.AdminCookie, cfg.Auth.SecureCookies,
	)

	// === Gin ===
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, routes.Deps{
		Auth:          authHandler,
		Users:         userHandler,
		Listings:      listingHandler,
		Favorites:     favoriteHandler,
		Uploads:       uploadHandler,
		Payouts:       payoutHandler,
		Verification:  verificationHandler,
		Admin:         adminHandler,
		AuthService:   authService,
		AdminService:  adminService,
		Limiter:       limiter,
		SessionCookie: cfg.Auth.SessionCookie,
		AdminCookie:   cfg.Auth.AdminCookie,
	})

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
