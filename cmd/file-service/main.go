// Точка входа file-service — HTTP-сервис хранения файлов.
// Загружает конфигурацию, открывает хранилище записей (memory / SQLite /
// PostgreSQL) и хранилище содержимого (диск / MinIO), применяет миграции,
// создаёт сервисный слой и API handlers, запускает фоновые задачи
// (GC, topologymetrics) и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/goartstore/file-service/internal/api/handlers"
	"github.com/bigkaa/goartstore/file-service/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-service/internal/config"
	"github.com/bigkaa/goartstore/file-service/internal/database"
	"github.com/bigkaa/goartstore/file-service/internal/domain/contenttype"
	"github.com/bigkaa/goartstore/file-service/internal/domain/validation"
	"github.com/bigkaa/goartstore/file-service/internal/repository"
	"github.com/bigkaa/goartstore/file-service/internal/server"
	"github.com/bigkaa/goartstore/file-service/internal/service"
	"github.com/bigkaa/goartstore/file-service/internal/storage/blob"
	"github.com/bigkaa/goartstore/file-service/internal/storage/filestore"
	"github.com/bigkaa/goartstore/file-service/internal/storage/objectstore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("File Service запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("record_store", cfg.RecordStore),
		slog.String("blob_store", cfg.BlobStore),
	)

	ctx := context.Background()

	// 3. Хранилище записей (+ миграции)
	records, pgPool, closeRecords, err := openRecordStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища записей", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRecords()

	// 4. Хранилище содержимого
	blobs, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка инициализации хранилища содержимого", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Сервисы
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	validator := validation.New(cfg.AllowedContentTypes, cfg.MaxUploadSize)
	fileSvc := service.NewFileService(records, blobs, cache, validator, contenttype.Default(), logger)

	if err := fileSvc.SyncMetrics(ctx); err != nil {
		logger.Warn("Ошибка инициализации метрики fs_files_total", slog.String("error", err.Error()))
	}

	// 6. GC осиротевшего содержимого
	gcSvc := service.NewGCService(blobs, records, cfg.GCInterval, cfg.GCGracePeriod, logger)
	gcSvc.Start(ctx)
	defer gcSvc.Stop()

	// 7. topologymetrics — мониторинг внешних зависимостей (PostgreSQL, MinIO)
	dephealthCfg := service.DephealthConfig{
		ServiceID:     "file-service",
		Group:         cfg.DephealthGroup,
		CheckInterval: cfg.DephealthCheckInterval,
	}
	if pgPool != nil {
		// Адаптер pgxpool → *sql.DB: проверка идёт через существующий пул
		pgDB := stdlib.OpenDBFromPool(pgPool)
		defer pgDB.Close()
		dephealthCfg.PostgresDB = pgDB
		dephealthCfg.PostgresURL = cfg.DatabaseDSN()
	}
	if cfg.BlobStore == config.BlobStoreMinIO {
		dephealthCfg.MinIOURL = minioURL(cfg)
	}
	stopDephealth := startDephealth(ctx, dephealthCfg, logger)
	defer stopDephealth()

	// 8. API handlers
	apiHandler := handlers.NewAPIHandler(
		handlers.NewFilesHandler(fileSvc, cfg.BasePath, cfg.PublicURL, logger),
		handlers.NewHealthHandler(records, blobs),
		handlers.NewOpenAPIHandler(cfg.BasePath, logger),
		logger,
	)

	// 9. HTTP-сервер
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	)

	// 10. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		gcSvc.Stop()
		closeRecords()
		os.Exit(1)
	}

	logger.Info("File Service остановлен")
}

// openRecordStore открывает хранилище записей по FS_RECORD_STORE.
// Для postgres возвращает пул для мониторинга зависимостей.
func openRecordStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (
	repository.FileRepository, *pgxpool.Pool, func(), error,
) {
	switch cfg.RecordStore {
	case config.RecordStoreMemory:
		logger.Warn("Хранилище записей в памяти: данные не сохраняются между перезапусками")
		return repository.NewMemoryFileRepository(logger), nil, func() {}, nil

	case config.RecordStoreSQLite:
		if err := database.MigrateSQLite(cfg.SQLitePath, logger); err != nil {
			return nil, nil, nil, err
		}
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewSQLiteFileRepository(db), nil, closeSQL(db, logger), nil

	case config.RecordStorePostgres:
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			return nil, nil, nil, err
		}
		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewPostgresFileRepository(pool), pool, pool.Close, nil
	}
	return nil, nil, nil, errors.New("неизвестное хранилище записей: " + cfg.RecordStore)
}

// openBlobStore открывает хранилище содержимого по FS_BLOB_STORE.
func openBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (blob.Store, error) {
	if cfg.BlobStore == config.BlobStoreMinIO {
		store, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Хранилище содержимого в MinIO",
			slog.String("endpoint", cfg.MinIOEndpoint),
			slog.String("bucket", store.Bucket()),
		)
		return store, nil
	}

	store, err := filestore.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Хранилище содержимого на диске", slog.String("data_dir", store.DataDir()))
	return store, nil
}

// startDephealth запускает мониторинг зависимостей, если они есть,
// и возвращает функцию остановки.
// Ошибки не фатальны: сервис работает без мониторинга.
func startDephealth(ctx context.Context, cfg service.DephealthConfig, logger *slog.Logger) func() {
	noop := func() {}

	dephealthSvc, err := service.NewDephealthService(cfg, logger)
	if errors.Is(err, service.ErrNoDependencies) {
		logger.Info("Внешних зависимостей нет, topologymetrics не запускается")
		return noop
	}
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		return noop
	}
	if err := dephealthSvc.Start(ctx); err != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", err.Error()),
		)
		return noop
	}
	logger.Info("topologymetrics запущен",
		slog.String("group", cfg.Group),
		slog.String("check_interval", cfg.CheckInterval.String()),
	)
	return dephealthSvc.Stop
}

// minioURL возвращает базовый URL MinIO для HTTP health check.
func minioURL(cfg *config.Config) string {
	scheme := "http"
	if cfg.MinIOUseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.MinIOEndpoint
}

func closeSQL(db *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warn("Ошибка закрытия SQLite", slog.String("error", err.Error()))
		}
	}
}
