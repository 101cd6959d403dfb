package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// memoryFileRepo — потокобезопасный in-memory индекс записей.
// Не персистентный: содержимое теряется при рестарте.
// Использует sync.RWMutex для конкурентного чтения и эксклюзивной записи.
type memoryFileRepo struct {
	mu     sync.RWMutex
	files  map[int64]*model.FileRecord // id → запись
	paths  map[string]int64            // storage_path → id
	nextID int64
	logger *slog.Logger
}

// NewMemoryFileRepository создаёт пустой in-memory репозиторий.
func NewMemoryFileRepository(logger *slog.Logger) FileRepository {
	return &memoryFileRepo{
		files:  make(map[int64]*model.FileRecord),
		paths:  make(map[string]int64),
		logger: logger.With(slog.String("component", "memory_repository")),
	}
}

// Create добавляет запись. id монотонно растёт и не переиспользуется.
func (r *memoryFileRepo) Create(_ context.Context, rec *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paths[rec.StoragePath]; ok {
		return fmt.Errorf("%w: storage_path %s", ErrConflict, rec.StoragePath)
	}

	r.nextID++
	rec.ID = r.nextID

	// Храним копию, чтобы избежать data race при внешних изменениях
	r.files[rec.ID] = rec.Clone()
	r.paths[rec.StoragePath] = rec.ID

	r.logger.Debug("Запись добавлена",
		slog.Int64("id", rec.ID),
		slog.String("storage_path", rec.StoragePath),
	)
	return nil
}

// GetByID возвращает копию записи или ErrNotFound.
func (r *memoryFileRepo) GetByID(_ context.Context, id int64) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// List возвращает страницу записей, новые первыми.
func (r *memoryFileRepo) List(_ context.Context, limit, offset int) ([]*model.FileRecord, error) {
	r.mu.RLock()
	all := make([]*model.FileRecord, 0, len(r.files))
	for _, rec := range r.files {
		all = append(all, rec.Clone())
	}
	r.mu.RUnlock()

	// Сортируем по дате загрузки (новые первые), при равенстве — по id
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadedAt.Equal(all[j].UploadedAt) {
			return all[i].UploadedAt.After(all[j].UploadedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	if offset >= total || limit <= 0 {
		return []*model.FileRecord{}, nil
	}

	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Count возвращает общее количество записей.
func (r *memoryFileRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files), nil
}

// Delete удаляет запись и возвращает её.
func (r *memoryFileRepo) Delete(_ context.Context, id int64) (*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.files, id)
	delete(r.paths, rec.StoragePath)

	r.logger.Debug("Запись удалена", slog.Int64("id", id))
	return rec, nil
}

// StoragePaths возвращает пути всех записей.
func (r *memoryFileRepo) StoragePaths(_ context.Context) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make(map[string]struct{}, len(r.paths))
	for p := range r.paths {
		paths[p] = struct{}{}
	}
	return paths, nil
}

// CheckReady всегда возвращает ok: индекс в памяти процесса.
func (r *memoryFileRepo) CheckReady(_ context.Context) (string, string) {
	r.mu.RLock()
	n := len(r.files)
	r.mu.RUnlock()
	return "ok", fmt.Sprintf("in-memory, записей: %d", n)
}
