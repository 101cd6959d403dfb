// files.go — HTTP handlers файловых операций.
// List, Upload, Get metadata, Download, Preview, Delete.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/bigkaa/goartstore/file-service/internal/api/errors"
	"github.com/bigkaa/goartstore/file-service/internal/api/generated"
	"github.com/bigkaa/goartstore/file-service/internal/api/middleware"
	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
	"github.com/bigkaa/goartstore/file-service/internal/domain/pagination"
	"github.com/bigkaa/goartstore/file-service/internal/domain/validation"
	"github.com/bigkaa/goartstore/file-service/internal/service"
)

const (
	// multipartMemory — часть формы, хранимая в памяти; остальное во временных файлах
	multipartMemory = 8 << 20
	// multipartOverhead — запас на заголовки и границы multipart сверх размера файла
	multipartOverhead = 1 << 20

	msgNoFile = "No file was submitted."
)

// FilesHandler — обработчик файловых endpoints.
type FilesHandler struct {
	svc       *service.FileService
	basePath  string
	publicURL string
	logger    *slog.Logger
}

// NewFilesHandler создаёт обработчик файловых endpoints.
// basePath — префикс маршрутов ("/api"), publicURL — внешний адрес
// сервиса для абсолютных ссылок (пусто — из запроса).
func NewFilesHandler(svc *service.FileService, basePath, publicURL string, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		svc:       svc,
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger.With(slog.String("component", "files_handler")),
	}
}

// ListFiles обрабатывает GET /files.
// Нечисловые limit/offset заменяются значениями по умолчанию.
func (h *FilesHandler) ListFiles(w http.ResponseWriter, r *http.Request, params generated.ListFilesParams) {
	p := pagination.ParseParams(deref(params.Limit), deref(params.Offset))

	page, err := h.svc.List(r.Context(), p)
	if err != nil {
		h.logger.Error("Ошибка получения списка файлов",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка при получении списка файлов")
		return
	}

	data := make([]generated.FileRecordView, 0, len(page.Items))
	for _, rec := range page.Items {
		data = append(data, h.toView(r, rec))
	}

	writeJSON(w, http.StatusOK, generated.FileListResponse{
		Count:    page.Count,
		Lastpage: page.LastPage,
		Data:     data,
	})
}

// UploadFile обрабатывает POST /files/upload.
// Multipart form: file (обязательно).
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxUploadSize()+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg := h.svc.TooLargeMessage()
			apierrors.ValidationFields(w, msg, map[string][]string{validation.FieldFile: {msg}})
			return
		}
		apierrors.ValidationFields(w, msgNoFile, map[string][]string{validation.FieldFile: {msgNoFile}})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(validation.FieldFile)
	if err != nil {
		apierrors.ValidationFields(w, msgNoFile, map[string][]string{validation.FieldFile: {msgNoFile}})
		return
	}
	defer file.Close()

	rec, err := h.svc.Upload(r.Context(), service.UploadParams{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			apierrors.ValidationFields(w, verr.Message(), verr.Fields)
			return
		}
		h.logger.Error("Ошибка загрузки файла",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Ошибка сохранения файла")
		return
	}

	writeJSON(w, http.StatusCreated, h.toView(r, rec))
}

// GetFile обрабатывает GET /files/{file_id}.
func (h *FilesHandler) GetFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId) {
	rec, err := h.svc.Get(r.Context(), fileID)
	if err != nil {
		h.writeServiceError(w, fileID, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toView(r, rec))
}

// DeleteFile обрабатывает DELETE /files/{file_id}.
func (h *FilesHandler) DeleteFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId) {
	if err := h.svc.Delete(r.Context(), fileID); err != nil {
		h.writeServiceError(w, fileID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadFile обрабатывает GET /files/{file_id}/download.
// Всегда application/octet-stream и attachment с оригинальным именем.
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId, params generated.InfoParams) {
	h.serveContent(w, r, fileID, params, "download")
}

// PreviewFile обрабатывает GET /files/{file_id}/preview.
// Content-Type файла (если он в списке допустимых) и Content-Disposition: inline.
func (h *FilesHandler) PreviewFile(w http.ResponseWriter, r *http.Request, fileID generated.FileId, params generated.InfoParams) {
	h.serveContent(w, r, fileID, params, "preview")
}

// serveContent отдаёт содержимое файла или метаданные при info=1.
// Поддерживает Range requests (206) и ETag (If-None-Match → 304).
func (h *FilesHandler) serveContent(w http.ResponseWriter, r *http.Request, fileID generated.FileId, params generated.InfoParams, op string) {
	if params.Info != nil && *params.Info == "1" {
		h.GetFile(w, r, fileID)
		return
	}

	rec, obj, err := h.svc.OpenForRead(r.Context(), fileID)
	if err != nil {
		h.writeServiceError(w, fileID, err)
		return
	}
	defer obj.Body.Close()

	if op == "download" {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", attachmentDisposition(rec.OriginalName))
	} else {
		// Тип вне списка допустимых отдаётся как octet-stream
		ct := rec.ContentType
		if !h.svc.InlineAllowed(ct) {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Disposition", "inline")
	}
	if rec.Checksum != "" {
		w.Header().Set("ETag", `"`+rec.Checksum+`"`)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(w, r, "", rec.UploadedAt, obj.Body)
	middleware.OperationsTotal.WithLabelValues(op, "success").Inc()
}

// writeServiceError отображает ошибку сервиса в HTTP-ответ.
func (h *FilesHandler) writeServiceError(w http.ResponseWriter, fileID generated.FileId, err error) {
	if errors.Is(err, service.ErrNotFound) {
		apierrors.NotFound(w, "Файл не найден")
		return
	}
	h.logger.Error("Ошибка обработки запроса файла",
		slog.Int64("file_id", fileID),
		slog.String("error", err.Error()),
	)
	apierrors.InternalError(w, "Внутренняя ошибка хранилища")
}

// toView преобразует запись в API-представление с абсолютной ссылкой.
func (h *FilesHandler) toView(r *http.Request, rec *model.FileRecord) generated.FileRecordView {
	return generated.FileRecordView{
		Id:           rec.ID,
		OriginalName: rec.OriginalName,
		ContentType:  rec.ContentType,
		Size:         rec.Size,
		UploadedAt:   rec.UploadedAt,
		Url:          h.downloadURL(r, rec.ID),
	}
}

// downloadURL строит абсолютную ссылку на скачивание.
// X-Forwarded-Proto учитывается при работе за прокси.
func (h *FilesHandler) downloadURL(r *http.Request, id int64) string {
	origin := h.publicURL
	if origin == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		}
		origin = scheme + "://" + r.Host
	}
	return origin + h.basePath + "/files/" + strconv.FormatInt(id, 10) + "/download/"
}

// attachmentDisposition формирует Content-Disposition: attachment с именем файла.
// Имена с не-ASCII символами кодируются по RFC 2231.
func attachmentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
