package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/edusync-api/internal/config"
	"github.com/yourusername/edusync-api/internal/handler"
	"github.com/yourusername/edusync-api/internal/middleware"
	pgRepo "github.com/yourusername/edusync-api/internal/repository/postgres"
	"github.com/yourusername/edusync-api/internal/service"
	"github.com/yourusername/edusync-api/pkg/auth"
	"github.com/yourusername/edusync-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis для rate limiting
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	courseRepo := pgRepo.NewCourseRepo(db)
	assessmentRepo := pgRepo.NewAssessmentRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Email-уведомления о результатах (опциональны)
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Email notifications enabled (Resend)")
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	assessmentService := service.NewAssessmentService(assessmentRepo, courseRepo, resultRepo)
	submissionService := service.NewSubmissionService(assessmentRepo, resultRepo, userRepo, emailService)
	resultService := service.NewResultService(resultRepo, userRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, submissionService)
	resultHandler := handler.NewResultHandler(resultService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Liveness
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api/v1")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.LimitByIP(middleware.StrictAuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Тесты
		assessments := api.Group("/assessments")
		assessments.Use(authMiddleware.RequireAuth())
		{
			assessments.GET("", assessmentHandler.ListAssessments)

			// Маршрут создания теста (не требует ID)
			instructorCreate := assessments.Group("")
			instructorCreate.Use(authMiddleware.InstructorOnly())
			{
				instructorCreate.POST("", assessmentHandler.CreateAssessment)
			}

			// Группа маршрутов, требующих ID теста
			assessmentWithID := assessments.Group("/:id")
			assessmentWithID.Use(middleware.ExtractUUIDParam("id", "assessmentID"))
			{
				assessmentWithID.POST("/start", assessmentHandler.StartAssessment)
				assessmentWithID.POST("/submit",
					rateLimiter.Limit(middleware.SubmitRateLimitConfig()),
					assessmentHandler.SubmitAssessment)
				assessmentWithID.GET("/results/me", resultHandler.GetMyResult)

				// Маршруты для преподавателей
				instructorOnly := assessmentWithID.Group("")
				instructorOnly.Use(authMiddleware.InstructorOnly())
				{
					instructorOnly.GET("", assessmentHandler.GetAssessment)
					instructorOnly.GET("/results", resultHandler.GetAssessmentResults)
					instructorOnly.GET("/results/export", resultHandler.ExportAssessmentResults)
				}
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Контекст с таймаутом для graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}

	log.Println("Server exited properly")
}
