// Пакет model — доменные типы file-service.
package model

import "time"

// Ограничения длины строковых полей записи.
const (
	MaxOriginalNameLength = 255
	MaxContentTypeLength  = 100
)

// FileRecord — метаданные загруженного файла.
type FileRecord struct {
	// ID — идентификатор, назначается хранилищем записей
	ID int64
	// OriginalName — имя файла на стороне клиента
	OriginalName string
	// StoragePath — ключ содержимого в хранилище blob-ов
	StoragePath string
	// ContentType — нормализованный MIME-тип (может быть пустым)
	ContentType string
	// Size — размер содержимого в байтах
	Size int64
	// Checksum — SHA-256 содержимого (hex)
	Checksum string
	// UploadedAt — время загрузки (UTC)
	UploadedAt time.Time
}

// Clone возвращает копию записи.
func (r *FileRecord) Clone() *FileRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
