package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// newTestRouter создаёт роутер с тестовыми маршрутами и middleware.
func newTestRouter(logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Use(RequestLogger(logger))
	r.Get("/mw-test/files/{file_id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	r.Get("/mw-test/fail", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// TestMetricsMiddleware_RoutePattern проверяет, что в лейблах используется шаблон маршрута.
func TestMetricsMiddleware_RoutePattern(t *testing.T) {
	router := newTestRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/mw-test/files/{file_id}", "200")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mw-test/files/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("статус: ожидалось 200, получено %d", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("счётчик запросов: ожидалось 3, получено %v", got)
	}
}

// TestMetricsMiddleware_Unmatched проверяет лейбл для несуществующего маршрута.
func TestMetricsMiddleware_Unmatched(t *testing.T) {
	router := newTestRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/path", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("счётчик unmatched: ожидалось 1, получено %v", got)
	}
}

// TestRequestLogger_Levels проверяет уровень логирования по статус-коду.
func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		path      string
		wantLevel string
		wantBytes string
	}{
		{"/mw-test/files/1", "level=INFO", "bytes=5"},
		{"/mw-test/fail", "level=ERROR", "bytes=0"},
		{"/unknown", "level=WARN", "status=404"},
		{"/health/live", "level=DEBUG", "status=200"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			router := newTestRouter(logger)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("ожидался %s в логе: %s", tt.wantLevel, out)
			}
			if !strings.Contains(out, tt.wantBytes) {
				t.Errorf("ожидалось %s в логе: %s", tt.wantBytes, out)
			}
			if !strings.Contains(out, "path="+tt.path) {
				t.Errorf("путь не залогирован: %s", out)
			}
		})
	}
}
