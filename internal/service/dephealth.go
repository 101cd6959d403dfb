// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// File Service мониторит внешние хранилища, если они используются:
//   - PostgreSQL — SQL checker через существующий pgxpool (connection pool mode, critical)
//   - MinIO — HTTP checker к /minio/health/live (critical)
//
// Локальный диск и SQLite проверяются только readiness probe.
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// minioHealthPath — liveness endpoint MinIO.
const minioHealthPath = "/minio/health/live"

// ErrNoDependencies — не задано ни одной внешней зависимости.
var ErrNoDependencies = errors.New("нет зависимостей для мониторинга")

// DephealthConfig — параметры мониторинга зависимостей.
type DephealthConfig struct {
	// ServiceID — имя вершины графа текущего приложения
	ServiceID string
	// Group — имя группы в метриках (FS_DEPHEALTH_GROUP)
	Group string
	// CheckInterval — интервал проверки (FS_DEPHEALTH_CHECK_INTERVAL)
	CheckInterval time.Duration

	// PostgresDB — *sql.DB из pgxpool через stdlib.OpenDBFromPool() (nil — не мониторится)
	PostgresDB *sql.DB
	// PostgresURL — URL PostgreSQL для лейблов метрик
	PostgresURL string

	// MinIOURL — базовый URL MinIO, например "http://minio:9000" (пусто — не мониторится)
	MinIOURL string
}

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
// Возвращает ErrNoDependencies, если не задана ни одна зависимость.
func NewDephealthService(cfg DephealthConfig, logger *slog.Logger) (*DephealthService, error) {
	return newDephealthService(cfg, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	cfg DephealthConfig,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(cfg, logger, dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	cfg DephealthConfig,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{dephealth.WithLogger(logger)}
	deps := 0

	if cfg.PostgresDB != nil {
		// Connection pool mode: проверка через *sql.DB (адаптер pgxpool)
		opts = append(opts, dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(cfg.PostgresDB)),
			dephealth.FromURL(cfg.PostgresURL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		))
		deps++
	}

	if cfg.MinIOURL != "" {
		opts = append(opts, dephealth.HTTP("minio",
			dephealth.FromURL(cfg.MinIOURL),
			dephealth.WithHTTPHealthPath(minioHealthPath),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		))
		deps++
	}

	if deps == 0 {
		return nil, ErrNoDependencies
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
