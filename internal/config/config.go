// Пакет config — загрузка и валидация конфигурации file-service
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Типы хранилища записей (FS_RECORD_STORE).
const (
	RecordStoreMemory   = "memory"
	RecordStoreSQLite   = "sqlite"
	RecordStorePostgres = "postgres"
)

// Типы хранилища содержимого (FS_BLOB_STORE).
const (
	BlobStoreDisk  = "disk"
	BlobStoreMinIO = "minio"
)

// DefaultAllowedContentTypes — допустимые MIME-типы загружаемых файлов по умолчанию.
var DefaultAllowedContentTypes = []string{
	"text/plain",
	"application/json",
	"image/png",
	"image/jpeg",
	"application/pdf",
}

// Config содержит все параметры конфигурации file-service.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Префикс всех API-маршрутов (например, "/api")
	BasePath string
	// Внешний адрес сервиса для построения абсолютных ссылок (опционально).
	// Пустое значение — ссылки строятся из Host запроса.
	PublicURL string

	// Максимальный размер загружаемого файла в байтах
	MaxUploadSize int64
	// Допустимые MIME-типы загружаемых файлов
	AllowedContentTypes []string

	// Хранилище записей: memory, sqlite, postgres
	RecordStore string
	// Путь к файлу базы SQLite
	SQLitePath string
	// Параметры PostgreSQL
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Хранилище содержимого: disk, minio
	BlobStore string
	// Директория хранения файлов (disk)
	DataDir string
	// Параметры MinIO
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// Размер LRU-кэша метаданных (0 — кэш отключён)
	CacheSize int
	// Время жизни записи в кэше
	CacheTTL time.Duration

	// Интервал запуска GC осиротевших файлов (0 — GC отключён)
	GCInterval time.Duration
	// Минимальный возраст осиротевшего файла перед удалением
	GCGracePeriod time.Duration

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string

	// Путь к TLS сертификату (опционально)
	TLSCert string
	// Путь к TLS приватному ключу (опционально)
	TLSKey string

	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
//
//nolint:cyclop,funlen // последовательная загрузка параметров
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// FS_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("FS_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("FS_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("FS_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// FS_BASE_PATH — префикс маршрутов (по умолчанию /api)
	cfg.BasePath = normalizeBasePath(getEnvDefault("FS_BASE_PATH", "/api"))

	// FS_PUBLIC_URL — внешний адрес (опционально)
	cfg.PublicURL = strings.TrimSuffix(getEnvDefault("FS_PUBLIC_URL", ""), "/")
	if cfg.PublicURL != "" {
		u, parseErr := url.Parse(cfg.PublicURL)
		if parseErr != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("FS_PUBLIC_URL: некорректный URL %q", cfg.PublicURL)
		}
	}

	// FS_MAX_UPLOAD_SIZE — максимальный размер файла (по умолчанию 10 MiB)
	cfg.MaxUploadSize, err = getEnvInt64("FS_MAX_UPLOAD_SIZE", 10*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("FS_MAX_UPLOAD_SIZE: %w", err)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("FS_MAX_UPLOAD_SIZE: значение должно быть положительным")
	}

	// FS_ALLOWED_CONTENT_TYPES — список MIME-типов через запятую
	cfg.AllowedContentTypes = getEnvList("FS_ALLOWED_CONTENT_TYPES", DefaultAllowedContentTypes)
	if len(cfg.AllowedContentTypes) == 0 {
		return nil, fmt.Errorf("FS_ALLOWED_CONTENT_TYPES: список не может быть пустым")
	}

	// FS_RECORD_STORE — хранилище записей (по умолчанию sqlite)
	cfg.RecordStore = getEnvDefault("FS_RECORD_STORE", RecordStoreSQLite)
	switch cfg.RecordStore {
	case RecordStoreMemory, RecordStoreSQLite, RecordStorePostgres:
	default:
		return nil, fmt.Errorf("FS_RECORD_STORE: недопустимое значение %q, допустимые: memory, sqlite, postgres", cfg.RecordStore)
	}

	cfg.SQLitePath = getEnvDefault("FS_SQLITE_PATH", "./data/files.db")

	// Параметры PostgreSQL обязательны только для postgres
	cfg.DBHost = getEnvDefault("FS_DB_HOST", "localhost")
	cfg.DBPort, err = getEnvInt("FS_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("FS_DB_PORT: %w", err)
	}
	cfg.DBName = getEnvDefault("FS_DB_NAME", "files")
	cfg.DBUser = getEnvDefault("FS_DB_USER", "files")
	cfg.DBPassword = getEnvDefault("FS_DB_PASSWORD", "")
	cfg.DBSSLMode = getEnvDefault("FS_DB_SSL_MODE", "disable")
	if cfg.RecordStore == RecordStorePostgres {
		if cfg.DBPassword, err = getEnvRequired("FS_DB_PASSWORD"); err != nil {
			return nil, err
		}
	}

	// FS_BLOB_STORE — хранилище содержимого (по умолчанию disk)
	cfg.BlobStore = getEnvDefault("FS_BLOB_STORE", BlobStoreDisk)
	switch cfg.BlobStore {
	case BlobStoreDisk, BlobStoreMinIO:
	default:
		return nil, fmt.Errorf("FS_BLOB_STORE: недопустимое значение %q, допустимые: disk, minio", cfg.BlobStore)
	}

	cfg.DataDir = getEnvDefault("FS_DATA_DIR", "./data/uploads")

	cfg.MinIOEndpoint = getEnvDefault("FS_MINIO_ENDPOINT", "")
	cfg.MinIOAccessKey = getEnvDefault("FS_MINIO_ACCESS_KEY", "")
	cfg.MinIOSecretKey = getEnvDefault("FS_MINIO_SECRET_KEY", "")
	cfg.MinIOBucket = getEnvDefault("FS_MINIO_BUCKET", "files")
	cfg.MinIOUseSSL, err = getEnvBool("FS_MINIO_USE_SSL", false)
	if err != nil {
		return nil, fmt.Errorf("FS_MINIO_USE_SSL: %w", err)
	}
	if cfg.BlobStore == BlobStoreMinIO {
		for _, key := range []string{"FS_MINIO_ENDPOINT", "FS_MINIO_ACCESS_KEY", "FS_MINIO_SECRET_KEY"} {
			if _, reqErr := getEnvRequired(key); reqErr != nil {
				return nil, reqErr
			}
		}
	}

	// FS_CACHE_SIZE — размер LRU-кэша (по умолчанию 1000)
	cfg.CacheSize, err = getEnvInt("FS_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("FS_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("FS_CACHE_SIZE: значение не может быть отрицательным")
	}

	cfg.CacheTTL, err = getEnvDuration("FS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FS_CACHE_TTL: %w", err)
	}

	// FS_GC_INTERVAL — интервал GC (по умолчанию 1h, 0 — отключён)
	cfg.GCInterval, err = getEnvDuration("FS_GC_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FS_GC_INTERVAL: %w", err)
	}
	cfg.GCGracePeriod, err = getEnvDuration("FS_GC_GRACE_PERIOD", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FS_GC_GRACE_PERIOD: %w", err)
	}

	cfg.DephealthCheckInterval, err = getEnvDuration("FS_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FS_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("FS_DEPHEALTH_GROUP", "file-service")

	// TLS опционален: оба параметра задаются вместе
	cfg.TLSCert = getEnvDefault("FS_TLS_CERT", "")
	cfg.TLSKey = getEnvDefault("FS_TLS_KEY", "")
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return nil, fmt.Errorf("FS_TLS_CERT и FS_TLS_KEY должны задаваться вместе")
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FS_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("FS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FS_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	cfg.ShutdownTimeout, err = getEnvDuration("FS_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FS_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL для pgxpool.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword),
		c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// TLSEnabled возвращает true, если заданы сертификат и ключ.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// normalizeBasePath приводит префикс к виду "/api" (без завершающего слэша).
// "/" и пустая строка — маршруты без префикса.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvList разбирает список значений через запятую.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		out := make([]string, len(defaultVal))
		copy(out, defaultVal)
		return out
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает bool значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 6h)", val)
	}
	if d < 0 {
		return 0, fmt.Errorf("длительность не может быть отрицательной: %q", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
