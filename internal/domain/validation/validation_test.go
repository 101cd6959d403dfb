package validation

import (
	"errors"
	"strings"
	"testing"
)

const maxSize = 10 * 1024 * 1024

func newTestValidator() *Validator {
	return New([]string{"text/plain", "application/json", "image/png", "image/jpeg", "application/pdf"}, maxSize)
}

// TestValidate_Accepts проверяет допустимые файлы.
func TestValidate_Accepts(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		ct   string
		size int64
	}{
		{"test.txt", "text/plain", 12},
		{"data.json", "application/json; charset=utf-8", 100},
		{"photo.PNG", "IMAGE/PNG", 0},
		{"max.pdf", "application/pdf", maxSize},
		{strings.Repeat("я", 255), "image/jpeg", 1},
	}

	for _, tt := range tests {
		t.Run(tt.ct, func(t *testing.T) {
			if err := v.Validate(tt.name, tt.ct, tt.size); err != nil {
				t.Errorf("ожидалось отсутствие ошибки, получено: %v", err)
			}
		})
	}
}

// TestValidate_UnsupportedType проверяет отклонение недопустимого типа.
func TestValidate_UnsupportedType(t *testing.T) {
	v := newTestValidator()

	err := v.Validate("app.exe", "application/x-msdownload", 10)
	if err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}
	msgs := err.Fields[FieldFile]
	if len(msgs) != 1 || msgs[0] != MsgUnsupportedType {
		t.Errorf("сообщения: ожидалось [%s], получено %v", MsgUnsupportedType, msgs)
	}
}

// TestValidate_EmptyType проверяет, что пустой тип не проверяется.
func TestValidate_EmptyType(t *testing.T) {
	v := newTestValidator()

	for _, ct := range []string{"", "   "} {
		if err := v.Validate("file.bin", ct, 10); err != nil {
			t.Errorf("тип %q: ожидалось отсутствие ошибки, получено %v", ct, err)
		}
	}

	// Размер проверяется и без типа
	if err := v.Validate("file.bin", "", maxSize+1); err == nil {
		t.Error("ожидалась ошибка размера для файла без типа")
	}
}

// TestValidate_TooLarge проверяет границу размера.
func TestValidate_TooLarge(t *testing.T) {
	v := newTestValidator()

	err := v.Validate("big.txt", "text/plain", maxSize+1)
	if err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}
	msgs := err.Fields[FieldFile]
	if len(msgs) != 1 || msgs[0] != "File too large (max 10MB)" {
		t.Errorf("сообщения: получено %v", msgs)
	}
}

// TestValidate_MultipleErrors проверяет накопление сообщений.
func TestValidate_MultipleErrors(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(strings.Repeat("a", 256), "video/mp4", maxSize+1)
	if err == nil {
		t.Fatal("ожидалась ошибка валидации")
	}
	if got := len(err.Fields[FieldFile]); got != 3 {
		t.Errorf("количество сообщений: ожидалось 3, получено %d (%v)", got, err.Fields)
	}
	if err.Message() != MsgNameTooLong {
		t.Errorf("Message: ожидалось %q, получено %q", MsgNameTooLong, err.Message())
	}
}

// TestValidate_NegativeSize проверяет отклонение отрицательного размера.
func TestValidate_NegativeSize(t *testing.T) {
	v := newTestValidator()

	if err := v.Validate("a.txt", "text/plain", -1); err == nil {
		t.Fatal("ожидалась ошибка для отрицательного размера")
	}
}

// TestCheckSize проверяет проверку фактического размера.
func TestCheckSize(t *testing.T) {
	v := newTestValidator()

	if err := v.CheckSize(maxSize); err != nil {
		t.Errorf("размер %d должен быть допустим", maxSize)
	}
	if err := v.CheckSize(maxSize + 1); err == nil {
		t.Error("ожидалась ошибка для размера больше лимита")
	}
}

// TestTooLargeMessage_NonMiB проверяет сообщение для лимита не кратного MiB.
func TestTooLargeMessage_NonMiB(t *testing.T) {
	v := New([]string{"text/plain"}, 1000)
	if got := v.TooLargeMessage(); got != "File too large (max 1000 bytes)" {
		t.Errorf("получено %q", got)
	}
}

// TestError_ErrorsAs проверяет работу errors.As с обёрнутой ошибкой.
func TestError_ErrorsAs(t *testing.T) {
	var err error = NewError(FieldFile, MsgUnsupportedType)
	wrapped := errors.Join(errors.New("контекст"), err)

	var verr *Error
	if !errors.As(wrapped, &verr) {
		t.Fatal("errors.As не нашёл *Error")
	}
	if verr.Error() != "file: Unsupported file type" {
		t.Errorf("Error(): получено %q", verr.Error())
	}
}
