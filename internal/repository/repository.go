// Пакет repository — хранилища записей о файлах.
// Реализации: PostgreSQL (pgx), SQLite (database/sql + go-sqlite3)
// и in-memory индекс для разработки и тестов.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (storage_path уже занят).
	ErrConflict = errors.New("конфликт — запись уже существует")
)

// fileColumns — список столбцов таблицы files для SELECT-запросов.
const fileColumns = `id, original_name, storage_path, content_type, size, checksum, uploaded_at`

// FileRepository — интерфейс доступа к записям о файлах.
type FileRepository interface {
	// Create сохраняет запись и заполняет rec.ID.
	Create(ctx context.Context, rec *model.FileRecord) error
	// GetByID возвращает запись по идентификатору или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.FileRecord, error)
	// List возвращает срез записей, отсортированных по uploaded_at DESC, id DESC.
	List(ctx context.Context, limit, offset int) ([]*model.FileRecord, error)
	// Count возвращает общее количество записей.
	Count(ctx context.Context) (int, error)
	// Delete удаляет запись и возвращает её. ErrNotFound если записи нет.
	Delete(ctx context.Context, id int64) (*model.FileRecord, error)
	// StoragePaths возвращает множество путей всех записей (для GC).
	StoragePaths(ctx context.Context) (map[string]struct{}, error)
	// CheckReady проверяет доступность хранилища для readiness probe.
	CheckReady(ctx context.Context) (status string, message string)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner — общий интерфейс pgx.Row и *sql.Row / *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanFile читает строку с колонками fileColumns.
func scanFile(row scanner) (*model.FileRecord, error) {
	f := &model.FileRecord{}
	if err := row.Scan(
		&f.ID, &f.OriginalName, &f.StoragePath, &f.ContentType,
		&f.Size, &f.Checksum, &f.UploadedAt,
	); err != nil {
		return nil, err
	}
	f.UploadedAt = f.UploadedAt.UTC()
	return f, nil
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
