// handler.go — APIHandler реализует generated.ServerInterface,
// делегируя вызовы в отдельные handler'ы по доменам.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/file-service/internal/api/errors"
	"github.com/bigkaa/goartstore/file-service/internal/api/generated"
)

// APIHandler — единая реализация ServerInterface, собирающая
// все доменные handlers в один объект.
type APIHandler struct {
	files   *FilesHandler
	health  *HealthHandler
	openapi *OpenAPIHandler
	logger  *slog.Logger
}

// NewAPIHandler создаёт единый handler для всех endpoints.
func NewAPIHandler(
	files *FilesHandler,
	health *HealthHandler,
	openapi *OpenAPIHandler,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		files:   files,
		health:  health,
		openapi: openapi,
		logger:  logger.With(slog.String("component", "api_handler")),
	}
}

// --- File Operations ---

func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request, params generated.ListFilesParams) {
	h.files.ListFiles(w, r, params)
}

func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	h.files.UploadFile(w, r)
}

func (h *APIHandler) GetFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId) {
	h.files.GetFile(w, r, fileID)
}

func (h *APIHandler) DeleteFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId) {
	h.files.DeleteFile(w, r, fileID)
}

func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId, params generated.InfoParams) {
	h.files.DownloadFile(w, r, fileID, params)
}

func (h *APIHandler) PreviewFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId, params generated.InfoParams) {
	h.files.PreviewFile(w, r, fileID, params)
}

// --- Contract ---

func (h *APIHandler) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	h.openapi.GetOpenAPI(w, r)
}

// --- Health ---

func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// --- Metrics ---

func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// ParamErrorHandler обрабатывает ошибки привязки параметров.
// Нечисловой file_id означает несуществующий файл: 404.
func (h *APIHandler) ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var paramErr *generated.InvalidParamFormatError
	if errors.As(err, &paramErr) && paramErr.ParamName == "file_id" {
		apierrors.NotFound(w, "Файл не найден")
		return
	}
	apierrors.ValidationError(w, err.Error())
}

// Проверка соответствия интерфейсу на этапе компиляции.
var _ generated.ServerInterface = (*APIHandler)(nil)
