package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// pgFileRepo — реализация FileRepository через pgx.
type pgFileRepo struct {
	db DBTX
}

// NewPostgresFileRepository создаёт репозиторий файлов PostgreSQL.
func NewPostgresFileRepository(db DBTX) FileRepository {
	return &pgFileRepo{db: db}
}

// Create вставляет запись. id назначается последовательностью BIGSERIAL.
func (r *pgFileRepo) Create(ctx context.Context, rec *model.FileRecord) error {
	query := `
		INSERT INTO files (original_name, storage_path, content_type, size, checksum, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		rec.OriginalName, rec.StoragePath, rec.ContentType, rec.Size, rec.Checksum, rec.UploadedAt,
	).Scan(&rec.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: storage_path %s", ErrConflict, rec.StoragePath)
		}
		return fmt.Errorf("ошибка создания записи: %w", err)
	}
	return nil
}

// GetByID возвращает запись по id или ErrNotFound.
func (r *pgFileRepo) GetByID(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return f, nil
}

// List возвращает страницу записей, новые первыми.
func (r *pgFileRepo) List(ctx context.Context, limit, offset int) ([]*model.FileRecord, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM files ORDER BY uploaded_at DESC, id DESC LIMIT $1 OFFSET $2`,
		fileColumns,
	)

	rows, err := r.db.Query(ctx, query, limit, offset)
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
func (r *pgFileRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта записей: %w", err)
	}
	return total, nil
}

// Delete удаляет запись и возвращает удалённые данные.
func (r *pgFileRepo) Delete(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := fmt.Sprintf(`DELETE FROM files WHERE id = $1 RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка удаления записи: %w", err)
	}
	return f, nil
}

// StoragePaths возвращает пути всех записей.
func (r *pgFileRepo) StoragePaths(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT storage_path FROM files`)
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

// CheckReady проверяет подключение простым запросом.
func (r *pgFileRepo) CheckReady(ctx context.Context) (string, string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.Exec(ctx, `SELECT 1`); err != nil {
		return "fail", fmt.Sprintf("PostgreSQL недоступен: %v", err)
	}
	return "ok", "подключение активно"
}
