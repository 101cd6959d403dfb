// files.go — сервис файлов: загрузка, список, метаданные, чтение и удаление.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bigkaa/goartstore/file-service/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-service/internal/domain/contenttype"
	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
	"github.com/bigkaa/goartstore/file-service/internal/domain/pagination"
	"github.com/bigkaa/goartstore/file-service/internal/domain/validation"
	"github.com/bigkaa/goartstore/file-service/internal/repository"
	"github.com/bigkaa/goartstore/file-service/internal/storage/blob"
)

// UploadParams — параметры загрузки файла.
type UploadParams struct {
	// Name — оригинальное имя файла
	Name string
	// ContentType — заявленный MIME-тип (может быть пустым)
	ContentType string
	// Size — заявленный размер (из multipart part)
	Size int64
	// Reader — поток данных файла
	Reader io.Reader
}

// Page — страница списка файлов.
type Page struct {
	Items    []*model.FileRecord
	Count    int
	LastPage int
}

// FileService — сервис файлов поверх хранилища записей и хранилища содержимого.
type FileService struct {
	repo      repository.FileRepository
	blobs     blob.Store
	cache     *CacheService
	validator *validation.Validator
	types     *contenttype.Table
	logger    *slog.Logger
}

// NewFileService создаёт сервис файлов.
func NewFileService(
	repo repository.FileRepository,
	blobs blob.Store,
	cache *CacheService,
	validator *validation.Validator,
	types *contenttype.Table,
	logger *slog.Logger,
) *FileService {
	if cache == nil {
		cache = NewCacheService(0, 0)
	}
	if types == nil {
		types = contenttype.Default()
	}
	return &FileService{
		repo:      repo,
		blobs:     blobs,
		cache:     cache,
		validator: validator,
		types:     types,
		logger:    logger.With(slog.String("component", "file_service")),
	}
}

// Upload валидирует и сохраняет файл.
//
// Поток:
//  1. Валидация имени, типа и заявленного размера
//  2. Запись содержимого (не более max+1 байт)
//  3. Проверка фактического размера
//  4. Определение типа по расширению, если не указан
//  5. Создание записи
//
// При ошибке на шагах 3-5 записанное содержимое удаляется.
// Ошибка валидации возвращается как *validation.Error.
func (s *FileService) Upload(ctx context.Context, p UploadParams) (*model.FileRecord, error) {
	if verr := s.validator.Validate(p.Name, p.ContentType, p.Size); verr != nil {
		middleware.OperationsTotal.WithLabelValues("upload", "rejected").Inc()
		s.logger.Info("Файл отклонён валидацией",
			slog.String("filename", p.Name),
			slog.String("content_type", p.ContentType),
			slog.Int64("size", p.Size),
			slog.String("reason", verr.Error()),
		)
		return nil, verr
	}

	limited := io.LimitReader(p.Reader, s.validator.MaxSize()+1)
	put, err := s.blobs.Put(ctx, p.Name, limited)
	if err != nil {
		middleware.OperationsTotal.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("запись содержимого: %w", err)
	}

	if verr := s.validator.CheckSize(put.Size); verr != nil {
		s.discardBlob(ctx, put.Path)
		middleware.OperationsTotal.WithLabelValues("upload", "rejected").Inc()
		s.logger.Info("Фактический размер превышает лимит",
			slog.String("filename", p.Name),
			slog.Int64("max_size", s.validator.MaxSize()),
		)
		return nil, verr
	}

	ct := contenttype.Normalize(p.ContentType)
	if ct == "" {
		ct, _ = s.types.Lookup(p.Name)
	}
	if len(ct) > model.MaxContentTypeLength {
		ct = ct[:model.MaxContentTypeLength]
	}

	rec := &model.FileRecord{
		OriginalName: p.Name,
		StoragePath:  put.Path,
		ContentType:  ct,
		Size:         put.Size,
		Checksum:     put.Checksum,
		UploadedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.discardBlob(ctx, put.Path)
		middleware.OperationsTotal.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("создание записи: %w", err)
	}

	s.cache.Set(rec)
	middleware.OperationsTotal.WithLabelValues("upload", "success").Inc()
	middleware.FilesTotal.Inc()

	s.logger.Info("Файл загружен",
		slog.Int64("file_id", rec.ID),
		slog.String("filename", rec.OriginalName),
		slog.String("content_type", rec.ContentType),
		slog.Int64("size", rec.Size),
		slog.String("checksum", rec.Checksum),
	)
	return rec, nil
}

// List возвращает страницу записей, новые первыми.
func (s *FileService) List(ctx context.Context, params pagination.Params) (*Page, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("подсчёт записей: %w", err)
	}

	bounds, lastPage := pagination.Paginate(total, params.Limit, params.Offset)
	items := []*model.FileRecord{}
	if bounds.Len() > 0 {
		items, err = s.repo.List(ctx, bounds.Len(), bounds.Start)
		if err != nil {
			return nil, fmt.Errorf("получение списка: %w", err)
		}
	}

	return &Page{Items: items, Count: total, LastPage: lastPage}, nil
}

// Get возвращает запись по id: сначала из кэша, затем из хранилища.
func (s *FileService) Get(ctx context.Context, id int64) (*model.FileRecord, error) {
	if rec, ok := s.cache.Get(id); ok {
		return rec, nil
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи %d: %w", id, err)
	}

	s.cache.Set(rec)
	return rec, nil
}

// OpenForRead возвращает запись и открытое содержимое файла.
// Вызывающий код обязан закрыть obj.Body.
func (s *FileService) OpenForRead(ctx context.Context, id int64) (*model.FileRecord, *blob.Object, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.blobs.Open(ctx, rec.StoragePath)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			s.logger.Warn("Содержимое файла отсутствует",
				slog.Int64("file_id", id),
				slog.String("storage_path", rec.StoragePath),
			)
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("открытие содержимого %d: %w", id, err)
	}

	middleware.OperationsTotal.WithLabelValues("read", "success").Inc()
	return rec, obj, nil
}

// Delete удаляет запись, затем содержимое.
// Ошибка удаления содержимого логируется: остаток соберёт GC.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	rec, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.cache.Delete(id)
			return ErrNotFound
		}
		middleware.OperationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("удаление записи %d: %w", id, err)
	}

	s.cache.Delete(id)
	middleware.FilesTotal.Dec()

	if err := s.blobs.Delete(ctx, rec.StoragePath); err != nil {
		s.logger.Warn("Ошибка удаления содержимого, оставлено для GC",
			slog.Int64("file_id", id),
			slog.String("storage_path", rec.StoragePath),
			slog.String("error", err.Error()),
		)
	}

	middleware.OperationsTotal.WithLabelValues("delete", "success").Inc()
	s.logger.Info("Файл удалён",
		slog.Int64("file_id", id),
		slog.String("filename", rec.OriginalName),
	)
	return nil
}

// MaxUploadSize возвращает максимальный размер загружаемого файла.
func (s *FileService) MaxUploadSize() int64 {
	return s.validator.MaxSize()
}

// InlineAllowed сообщает, можно ли отдать файл с данным типом inline.
// Тип, определённый по расширению, мог не пройти проверку допустимых типов.
func (s *FileService) InlineAllowed(ct string) bool {
	return ct != "" && s.validator.Allowed(ct)
}

// TooLargeMessage возвращает сообщение о превышении размера.
func (s *FileService) TooLargeMessage() string {
	return s.validator.TooLargeMessage()
}

// SyncMetrics выставляет gauge fs_files_total по фактическому числу записей.
func (s *FileService) SyncMetrics(ctx context.Context) error {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("подсчёт записей: %w", err)
	}
	middleware.FilesTotal.Set(float64(total))
	return nil
}

// discardBlob удаляет содержимое после неудачной загрузки.
// Контекст запроса может быть отменён, поэтому используется отдельный.
func (s *FileService) discardBlob(ctx context.Context, path string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(cleanupCtx, path); err != nil {
		s.logger.Warn("Ошибка удаления содержимого после неудачной загрузки",
			slog.String("storage_path", path),
			slog.String("error", err.Error()),
		)
	}
}
