package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// sqliteFileRepo — реализация FileRepository поверх SQLite.
type sqliteFileRepo struct {
	db *sql.DB
}

// NewSQLiteFileRepository создаёт репозиторий файлов SQLite.
func NewSQLiteFileRepository(db *sql.DB) FileRepository {
	return &sqliteFileRepo{db: db}
}

// Create вставляет запись. id назначается AUTOINCREMENT и не переиспользуется.
func (r *sqliteFileRepo) Create(ctx context.Context, rec *model.FileRecord) error {
	query := `
		INSERT INTO files (original_name, storage_path, content_type, size, checksum, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		rec.OriginalName, rec.StoragePath, rec.ContentType, rec.Size, rec.Checksum, rec.UploadedAt.UTC(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: storage_path %s", ErrConflict, rec.StoragePath)
		}
		return fmt.Errorf("ошибка создания записи: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения id записи: %w", err)
	}
	rec.ID = id
	return nil
}

// GetByID возвращает запись по id или ErrNotFound.
func (r *sqliteFileRepo) GetByID(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = ?`, fileColumns)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return f, nil
}

// List возвращает страницу записей, новые первыми.
func (r *sqliteFileRepo) List(ctx context.Context, limit, offset int) ([]*model.FileRecord, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM files ORDER BY uploaded_at DESC, id DESC LIMIT ? OFFSET ?`,
		fileColumns,
	)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	result := make([]*model.FileRecord, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return result, nil
}

// Count возвращает общее количество записей.
func (r *sqliteFileRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	return total, nil
}

// Delete удаляет запись и возвращает удалённые данные.
func (r *sqliteFileRepo) Delete(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := fmt.Sprintf(`DELETE FROM files WHERE id = ? RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка удаления записи: %w", err)
	}
	return f, nil
}

// StoragePaths возвращает пути всех записей.
func (r *sqliteFileRepo) StoragePaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT storage_path FROM files`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения путей: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("ошибка сканирования пути: %w", err)
		}
		paths[p] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return paths, nil
}

// CheckReady проверяет доступность базы через ping.
func (r *sqliteFileRepo) CheckReady(ctx context.Context) (string, string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return "fail", fmt.Sprintf("SQLite недоступна: %v", err)
	}
	return "ok", "база открыта"
}
