// Пакет contenttype — определение MIME-типа файла по имени
// и нормализация значений Content-Type.
package contenttype

import (
	"mime"
	"path/filepath"
	"strings"
)

// defaultTable — соответствие расширений MIME-типам.
// Используется вместо системной mime-базы, чтобы результат
// не зависел от окружения. Типы, исполняемые браузером (HTML, SVG, XML),
// не определяются: такие файлы хранятся без типа.
var defaultTable = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".log":  "text/plain",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".pdf":  "application/pdf",
	".gif":  "image/gif",
	".webp": "image/webp",
	".csv":  "text/csv",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// Table — таблица соответствия расширений MIME-типам.
type Table struct {
	types map[string]string
}

// Default возвращает таблицу со встроенными соответствиями.
func Default() *Table {
	return New(nil)
}

// New создаёт таблицу на основе встроенной, дополненной overrides.
// Ключи overrides — расширения с точкой или без (".md" / "md").
func New(overrides map[string]string) *Table {
	types := make(map[string]string, len(defaultTable)+len(overrides))
	for ext, ct := range defaultTable {
		types[ext] = ct
	}
	for ext, ct := range overrides {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		types[ext] = Normalize(ct)
	}
	return &Table{types: types}
}

// Lookup возвращает MIME-тип по имени файла.
// Если расширение неизвестно — пустую строку и false.
func (t *Table) Lookup(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", false
	}
	ct, ok := t.types[ext]
	return ct, ok
}

// Normalize приводит Content-Type к виду "type/subtype":
// отбрасывает параметры и переводит в нижний регистр.
// "Text/Plain; charset=utf-8" → "text/plain".
func Normalize(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		// Нестандартное значение: отрезаем параметры вручную
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}
