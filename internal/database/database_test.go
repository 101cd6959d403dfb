package database

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/goartstore/file-service/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupTestPostgres запускает PostgreSQL в Docker-контейнере через testcontainers.
// Возвращает конфигурацию подключения.
func setupTestPostgres(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("files_test"),
		postgres.WithUsername("files"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	return &config.Config{
		DBHost:     host,
		DBPort:     port.Int(),
		DBName:     "files_test",
		DBUser:     "files",
		DBPassword: "test-password",
		DBSSLMode:  "disable",
	}
}

// TestConnectAndMigrate проверяет подключение к PostgreSQL и применение миграций.
func TestConnectAndMigrate(t *testing.T) {
	cfg := setupTestPostgres(t)
	ctx := context.Background()
	logger := testLogger()

	pool, err := Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()

	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Повторное применение — ErrNoChange, не ошибка
	if err := Migrate(cfg, logger); err != nil {
		t.Fatalf("повторный Migrate: %v", err)
	}

	var exists bool
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'files')`,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("ошибка проверки таблицы: %v", err)
	}
	if !exists {
		t.Error("таблица files не создана")
	}
}

// TestOpenSQLite_Migrate проверяет открытие SQLite и применение миграций.
func TestOpenSQLite_Migrate(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()
	path := filepath.Join(t.TempDir(), "nested", "files.db")

	db, err := OpenSQLite(ctx, path, logger)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if err := MigrateSQLite(path, logger); err != nil {
		t.Fatalf("MigrateSQLite: %v", err)
	}
	if err := MigrateSQLite(path, logger); err != nil {
		t.Fatalf("повторный MigrateSQLite: %v", err)
	}

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'files'`,
	).Scan(&name)
	if err != nil {
		t.Fatalf("таблица files не создана: %v", err)
	}
}
