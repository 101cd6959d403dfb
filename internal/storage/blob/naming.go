package blob

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxNameLength — максимальная длина имени в ключе объекта.
const maxNameLength = 50

// GenerateName генерирует уникальный ключ объекта.
// Формат: {name}_{timestamp}_{uuid}{ext}
// Пример: photo_20260221150405_5f1c2c8e-5d3a-4f0b-9d8e-1c2a3b4c5d6e.jpg
func GenerateName(originalName string) string {
	ext := sanitizeExt(filepath.Ext(originalName))
	name := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	name = sanitize(name)
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}

	ts := time.Now().UTC().Format("20060102150405")
	return fmt.Sprintf("%s_%s_%s%s", name, ts, uuid.New().String(), ext)
}

// sanitize убирает небезопасные символы из строки для использования в имени файла.
// Оставляет только буквы, цифры, дефис и подчёркивание.
func sanitize(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' ||
			(r >= 0x0400 && r <= 0x04FF) { // Кириллица
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return "file"
	}
	return result.String()
}

// sanitizeExt оставляет расширение только из латинских букв и цифр.
func sanitizeExt(ext string) string {
	if len(ext) < 2 || len(ext) > 16 {
		return ""
	}
	for _, r := range ext[1:] {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return ""
		}
	}
	return strings.ToLower(ext)
}
