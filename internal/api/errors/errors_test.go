package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// decode разбирает тело ответа ошибки.
func decode(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("ошибка декодирования ответа: %v", err)
	}
	return body
}

// TestConstructors проверяет статус-коды и коды ошибок конструкторов.
func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"validation", func(w http.ResponseWriter) { ValidationError(w, "bad") }, http.StatusBadRequest, CodeValidationError},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "nope") }, http.StatusNotFound, CodeNotFound},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom") }, http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("статус: ожидалось %d, получено %d", tt.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: получено %q", ct)
			}
			body := decode(t, rec)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code: ожидалось %s, получено %s", tt.wantCode, body.Error.Code)
			}
			if body.Error.Fields != nil {
				t.Errorf("fields должны отсутствовать: %v", body.Error.Fields)
			}
		})
	}
}

// TestValidationFields проверяет сообщения по полям.
func TestValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Disposition", "attachment")
	ValidationFields(rec, "Unsupported file type", map[string][]string{"file": {"Unsupported file type"}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("статус: ожидалось 400, получено %d", rec.Code)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("Content-Disposition должен быть удалён")
	}
	body := decode(t, rec)
	if got := body.Error.Fields["file"]; len(got) != 1 || got[0] != "Unsupported file type" {
		t.Errorf("fields: получено %v", body.Error.Fields)
	}
}
