// Пакет filestore — хранение содержимого файлов на локальном диске.
// Обеспечивает streaming-запись с подсчётом SHA-256 на лету,
// чтение с поддержкой Seek, удаление и перечисление файлов.
package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bigkaa/goartstore/file-service/internal/storage/blob"
)

const (
	// tmpSuffix — суффикс временных файлов незавершённой записи
	tmpSuffix = ".tmp"
	// healthCheckFile — служебный файл проверки записи
	healthCheckFile = ".health_check"
)

// FileStore — хранилище файлов в одной плоской директории.
type FileStore struct {
	// dataDir — корневая директория хранения файлов (FS_DATA_DIR)
	dataDir string
}

var _ blob.Store = (*FileStore)(nil)

// New создаёт новый FileStore. Проверяет и создаёт директорию
// если она не существует.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию данных %s: %w", dataDir, err)
	}

	return &FileStore{dataDir: dataDir}, nil
}

// Put записывает данные из reader на диск с подсчётом SHA-256 на лету.
//
// Паттерн: temp файл → запись + SHA-256 → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (fs *FileStore) Put(ctx context.Context, name string, reader io.Reader) (*blob.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	storageName := blob.GenerateName(name)
	fullPath := filepath.Join(fs.dataDir, storageName)
	tmpPath := fullPath + tmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	// Streaming запись с одновременным подсчётом SHA-256
	hasher := sha256.New()
	tee := io.TeeReader(&ctxReader{ctx: ctx, r: reader}, hasher)

	size, err := io.Copy(f, tee)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &blob.PutResult{
		Path:     storageName,
		Size:     size,
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open открывает файл для чтения.
// Вызывающий код обязан закрыть Body.
func (fs *FileStore) Open(_ context.Context, storagePath string) (*blob.Object, error) {
	fullPath, err := fs.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", blob.ErrNotFound, storagePath)
		}
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", storagePath, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ошибка получения информации о файле %s: %w", storagePath, err)
	}

	return &blob.Object{
		Body:    f,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Delete удаляет файл с диска.
// Возвращает nil если файл уже не существует.
func (fs *FileStore) Delete(_ context.Context, storagePath string) error {
	fullPath, err := fs.resolve(storagePath)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", storagePath, err)
	}
	return nil
}

// List возвращает все сохранённые файлы. Временные и служебные файлы пропускаются.
func (fs *FileStore) List(ctx context.Context) ([]blob.Info, error) {
	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", fs.dataDir, err)
	}

	result := make([]blob.Info, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasSuffix(name, tmpSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Файл удалён между ReadDir и Info
			continue
		}
		result = append(result, blob.Info{
			Path:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return result, nil
}

// CheckReady проверяет доступность директории данных на запись.
func (fs *FileStore) CheckReady(_ context.Context) (string, string) {
	testFile := filepath.Join(fs.dataDir, healthCheckFile)
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return "fail", "Директория данных недоступна для записи: " + err.Error()
	}
	_ = os.Remove(testFile)
	return "ok", ""
}

// DataDir возвращает путь к директории данных.
func (fs *FileStore) DataDir() string {
	return fs.dataDir
}

// resolve проверяет, что путь указывает на файл внутри плоской директории.
func (fs *FileStore) resolve(storagePath string) (string, error) {
	if storagePath == "" || storagePath != filepath.Base(storagePath) ||
		storagePath == "." || storagePath == ".." {
		return "", fmt.Errorf("%w: недопустимый путь %q", blob.ErrNotFound, storagePath)
	}
	return filepath.Join(fs.dataDir, storagePath), nil
}

// ctxReader прерывает чтение при отмене контекста.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
