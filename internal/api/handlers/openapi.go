// openapi.go — отдача встроенного OpenAPI-контракта.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/file-service/internal/api/errors"
	"github.com/bigkaa/goartstore/file-service/internal/api/openapi"
)

// OpenAPIHandler — обработчик GET {base}/openapi.json.
type OpenAPIHandler struct {
	basePath string
	logger   *slog.Logger
}

// NewOpenAPIHandler создаёт обработчик документа OpenAPI.
func NewOpenAPIHandler(basePath string, logger *slog.Logger) *OpenAPIHandler {
	return &OpenAPIHandler{
		basePath: basePath,
		logger:   logger.With(slog.String("component", "openapi_handler")),
	}
}

// GetOpenAPI возвращает контракт с servers, указывающим на текущий префикс.
func (h *OpenAPIHandler) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	serverURL := h.basePath
	if serverURL == "" {
		serverURL = "/"
	}

	data, err := openapi.JSON(serverURL)
	if err != nil {
		h.logger.Error("Ошибка формирования OpenAPI", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Документ OpenAPI недоступен")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
