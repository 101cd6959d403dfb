package blob

import (
	"strings"
	"testing"
)

// TestGenerateName проверяет формат и уникальность ключей.
func TestGenerateName(t *testing.T) {
	a := GenerateName("test-photo.JPG")
	b := GenerateName("test-photo.JPG")

	if a == b {
		t.Errorf("ключи должны быть уникальны: %s", a)
	}
	if !strings.HasPrefix(a, "test-photo_") {
		t.Errorf("ключ должен начинаться с имени файла: %s", a)
	}
	if !strings.HasSuffix(a, ".jpg") {
		t.Errorf("ключ должен сохранять расширение в нижнем регистре: %s", a)
	}
}

// TestGenerateName_Unsafe проверяет удаление небезопасных символов.
func TestGenerateName_Unsafe(t *testing.T) {
	tests := []struct {
		input      string
		wantPrefix string
		wantSuffix string
	}{
		{"../../etc/passwd", "passwd_", ""},
		{"отчёт 2024.pdf", "отчёт2024_", ".pdf"},
		{"README", "README_", ""},
		{"...", "file_", ""},
		{"a.t x t", "a_", ""},
		{"", "file_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := GenerateName(tt.input)
			if strings.ContainsAny(got, "/\\ ") {
				t.Errorf("ключ содержит небезопасные символы: %q", got)
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("ключ %q: ожидался префикс %q", got, tt.wantPrefix)
			}
			if tt.wantSuffix != "" && !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("ключ %q: ожидался суффикс %q", got, tt.wantSuffix)
			}
		})
	}
}

// TestGenerateName_LongName проверяет ограничение длины имени.
func TestGenerateName_LongName(t *testing.T) {
	got := GenerateName(strings.Repeat("a", 200) + ".txt")
	name := got[:strings.IndexByte(got, '_')]
	if len(name) != maxNameLength {
		t.Errorf("длина имени: ожидалось %d, получено %d", maxNameLength, len(name))
	}
}

// TestSanitize проверяет очистку строк для имени файла.
func TestSanitize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"hello world", "helloworld"},
		{"test-file_01", "test-file_01"},
		{"file@#$%", "file"},
		{"", "file"}, // пустая строка → "file"
		{"тест", "тест"},
	}

	for _, tt := range tests {
		result := sanitize(tt.input)
		if result != tt.expected {
			t.Errorf("sanitize(%q): ожидалось %q, получено %q", tt.input, tt.expected, result)
		}
	}
}
