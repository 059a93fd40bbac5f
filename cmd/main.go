package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/danger_zone_alerts/internal/alarm"
	"github.com/shenikar/danger_zone_alerts/internal/config"
	"github.com/shenikar/danger_zone_alerts/internal/cooldown"
	"github.com/shenikar/danger_zone_alerts/internal/engine"
	v1 "github.com/shenikar/danger_zone_alerts/internal/handler/http/v1"
	"github.com/shenikar/danger_zone_alerts/internal/kafka"
	"github.com/shenikar/danger_zone_alerts/internal/observability"
	"github.com/shenikar/danger_zone_alerts/internal/repository"
	"github.com/shenikar/danger_zone_alerts/internal/service"
	"github.com/shenikar/danger_zone_alerts/internal/webhook"
	"github.com/shenikar/danger_zone_alerts/internal/zone"
	"github.com/shenikar/danger_zone_alerts/pkg/logger"
	"github.com/shenikar/danger_zone_alerts/pkg/postgres"
	redisclient "github.com/shenikar/danger_zone_alerts/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/danger_zone_alerts/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const alertStreamBuffer = 256

// @title Danger Zone Alerts API
// @version 1.0
// @description Danger zone detection and alert escalation engine.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// engineConfig переносит настройки окружения в конфигурацию движка
func engineConfig(cfg *config.Config) engine.Config {
	ec := engine.DefaultConfig()
	ec.RadiusBase = cfg.AlertRadiusBase
	ec.Cooldown = cfg.AlertCooldown()
	ec.MinRiskLevel = cfg.AlertMinRiskLevel
	ec.ProximityMode = zone.ParseMode(cfg.ProximityMode)
	ec.NearbyFactor = cfg.NearbyFactor
	ec.SeverityInterval = cfg.SeverityInterval
	ec.LevelCheckInterval = cfg.LevelCheckInterval
	ec.BatteryOptimized = cfg.BatteryOptimized
	ec.LevelChangeWhenAcknowledged = cfg.LevelChangeWhenAcknowledged
	ec.Alarm = alarm.Options{
		SoundEnabled:     cfg.AlertSoundEnabled,
		VibrationEnabled: cfg.AlertVibrationEnabled,
		PushEnabled:      cfg.AlertPushEnabled,
		SinkTimeout:      cfg.SinkTimeout,
	}
	return ec
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()

	// Инициализация издателя вебхуков: он же приёмник команд сигнала
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient, clock)

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg, metrics)
	webhookWorker.Start(ctx)

	// Ограничитель повторных оповещений
	var limiter cooldown.Limiter
	if cfg.CooldownBackend == "redis" {
		limiter = cooldown.NewRedisLimiter(redisClient, cfg.AlertCooldown(), log)
	} else {
		limiter = cooldown.NewExpiringSet(clock, cfg.AlertCooldown())
	}

	// Движок опасных зон
	zoneEngine := engine.New(engineConfig(cfg), engine.Deps{
		Clock:   clock,
		Logger:  log,
		Sink:    webhookPublisher,
		Limiter: limiter,
		Metrics: metrics,
	})
	if err := zoneEngine.Start(ctx); err != nil {
		log.Fatalf("Failed to start zone engine: %v", err)
	}

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool)
	alertRepo := repository.NewAlertRepository(dbpool)
	incidentCache := repository.NewIncidentCache(redisClient, repository.DefaultSnapshotTTL)

	// Инициализация сервисов
	feedService := service.NewFeedService(incidentRepo, incidentCache, zoneEngine, clock, log, metrics, cfg.FeedPollInterval)
	go feedService.Run(ctx)

	alertService := service.NewAlertService(alertRepo, webhookPublisher, log)
	alertEvents, unsubscribe := zoneEngine.SubscribeAlerts(alertStreamBuffer)
	defer unsubscribe()
	go alertService.Run(ctx, alertEvents)

	// Push-лента изменений инцидентов
	var consumer *kafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer = kafka.NewConsumer(cfg, feedService, log, metrics)
		go consumer.Run(ctx)
		log.WithField("topic", cfg.KafkaIncidentTopic).Info("Kafka incident feed enabled")
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(zoneEngine, alertService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// Остановка движка закрывает подписки, и открытые SSE-потоки завершаются до Shutdown.
	// Сигнал гасится до остановки воркера и отмены контекста.
	zoneEngine.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Kafka consumer")
		}
	}
	cancel()

	log.Info("Server gracefully stopped")
}
