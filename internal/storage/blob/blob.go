// Пакет blob — общий контракт хранилищ содержимого файлов.
// Реализации: filestore (локальный диск) и objectstore (MinIO / S3).
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound — объект с указанным путём отсутствует.
var ErrNotFound = errors.New("объект не найден")

// PutResult — результат записи объекта.
type PutResult struct {
	// Path — ключ объекта в плоском пространстве имён хранилища
	Path string
	// Size — количество записанных байт
	Size int64
	// Checksum — SHA-256 содержимого (hex)
	Checksum string
}

// Object — открытый на чтение объект. Вызывающий код обязан закрыть Body.
type Object struct {
	Body    io.ReadSeekCloser
	Size    int64
	ModTime time.Time
}

// Info — сведения об объекте для сборщика мусора.
type Info struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Store — хранилище содержимого файлов.
type Store interface {
	// Put записывает данные под новым уникальным путём, производным от name.
	Put(ctx context.Context, name string, r io.Reader) (*PutResult, error)
	// Open открывает объект на чтение. ErrNotFound если объекта нет.
	Open(ctx context.Context, path string) (*Object, error)
	// Delete удаляет объект. Отсутствие объекта не является ошибкой.
	Delete(ctx context.Context, path string) error
	// List возвращает все объекты хранилища.
	List(ctx context.Context) ([]Info, error)
	// CheckReady проверяет доступность хранилища для readiness probe.
	CheckReady(ctx context.Context) (status string, message string)
}
