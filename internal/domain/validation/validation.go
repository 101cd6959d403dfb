// Пакет validation — проверка загружаемых файлов: допустимый MIME-тип,
// максимальный размер, длина имени.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bigkaa/goartstore/file-service/internal/domain/contenttype"
	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// FieldFile — имя поля формы загрузки, к которому относятся ошибки.
const FieldFile = "file"

// Сообщения об ошибках валидации.
const (
	MsgUnsupportedType = "Unsupported file type"
	MsgNameTooLong     = "Ensure this filename has at most 255 characters."
	MsgEmptyName       = "The submitted file is empty or has no filename."
	MsgInvalidSize     = "Invalid file size."
)

// Error — ошибка валидации с сообщениями по полям.
type Error struct {
	Fields map[string][]string
}

// NewError создаёт ошибку валидации с одним сообщением для поля.
func NewError(field, message string) *Error {
	return &Error{Fields: map[string][]string{field: {message}}}
}

// Add добавляет сообщение для поля.
func (e *Error) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return strings.Join(parts, ", ")
}

// Message возвращает первое сообщение (по алфавиту полей).
func (e *Error) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(e.Fields[k]) > 0 {
			return e.Fields[k][0]
		}
	}
	return "validation failed"
}

// Validator проверяет загружаемые файлы.
type Validator struct {
	allowed map[string]struct{}
	maxSize int64
}

// New создаёт Validator. allowedTypes нормализуются.
func New(allowedTypes []string, maxSize int64) *Validator {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, ct := range allowedTypes {
		if n := contenttype.Normalize(ct); n != "" {
			allowed[n] = struct{}{}
		}
	}
	return &Validator{allowed: allowed, maxSize: maxSize}
}

// MaxSize возвращает максимальный допустимый размер файла.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// TooLargeMessage возвращает сообщение о превышении размера.
// Размер указывается в MB, если лимит кратен мебибайту.
func (v *Validator) TooLargeMessage() string {
	const mib = 1024 * 1024
	if v.maxSize >= mib && v.maxSize%mib == 0 {
		return fmt.Sprintf("File too large (max %dMB)", v.maxSize/mib)
	}
	return fmt.Sprintf("File too large (max %d bytes)", v.maxSize)
}

// Allowed проверяет, входит ли тип в список допустимых.
func (v *Validator) Allowed(ct string) bool {
	_, ok := v.allowed[contenttype.Normalize(ct)]
	return ok
}

// CheckSize возвращает ошибку, если фактический размер превышает лимит.
func (v *Validator) CheckSize(size int64) *Error {
	if size > v.maxSize {
		return NewError(FieldFile, v.TooLargeMessage())
	}
	return nil
}

// Validate проверяет имя, заявленный MIME-тип и размер файла.
// Возвращает nil, если файл допустим. Пустой тип не проверяется:
// он определяется позже по расширению имени. Файл ровно maxSize байт допустим.
func (v *Validator) Validate(name, ct string, size int64) *Error {
	verr := &Error{}

	switch {
	case strings.TrimSpace(name) == "":
		verr.Add(FieldFile, MsgEmptyName)
	case len([]rune(name)) > model.MaxOriginalNameLength:
		verr.Add(FieldFile, MsgNameTooLong)
	}

	if contenttype.Normalize(ct) != "" && !v.Allowed(ct) {
		verr.Add(FieldFile, MsgUnsupportedType)
	}

	switch {
	case size < 0:
		verr.Add(FieldFile, MsgInvalidSize)
	case size > v.maxSize:
		verr.Add(FieldFile, v.TooLargeMessage())
	}

	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}
