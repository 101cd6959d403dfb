// Пакет generated — типы и маршрутизация HTTP API file-service
// в форме oapi-codegen chi-server: ServerInterface, обёртка с привязкой
// параметров и HandlerWithOptions. Должен соответствовать internal/api/openapi/openapi.yaml.
package generated

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// FileId — идентификатор файла в пути запроса.
type FileId = int64 //nolint:revive // имя из контракта

// ListFilesParams — query-параметры GET /files.
// Значения передаются строками: нечисловые не являются ошибкой,
// а заменяются значениями по умолчанию.
type ListFilesParams struct {
	Limit  *string `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *string `form:"offset,omitempty" json:"offset,omitempty"`
}

// InfoParams — query-параметры download / preview.
type InfoParams struct {
	// Info — "1" возвращает метаданные JSON вместо содержимого
	Info *string `form:"info,omitempty" json:"info,omitempty"`
}

// FileRecordView — представление файла в ответах API.
type FileRecordView struct {
	Id           int64     `json:"id"` //nolint:revive // имя из контракта
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Url          string    `json:"url"` //nolint:revive // имя из контракта
}

// FileListResponse — ответ GET /files.
type FileListResponse struct {
	Count    int              `json:"count"`
	Lastpage int              `json:"lastpage"`
	Data     []FileRecordView `json:"data"`
}

// ServerInterface — обработчики всех endpoints API.
type ServerInterface interface {
	// Список файлов
	// (GET /files)
	ListFiles(w http.ResponseWriter, r *http.Request, params ListFilesParams)
	// Загрузка файла
	// (POST /files/upload)
	UploadFile(w http.ResponseWriter, r *http.Request)
	// Метаданные файла
	// (GET /files/{file_id})
	GetFile(w http.ResponseWriter, r *http.Request, fileId FileId)
	// Удаление файла
	// (DELETE /files/{file_id})
	DeleteFile(w http.ResponseWriter, r *http.Request, fileId FileId)
	// Скачивание файла
	// (GET /files/{file_id}/download)
	DownloadFile(w http.ResponseWriter, r *http.Request, fileId FileId, params InfoParams)
	// Просмотр файла
	// (GET /files/{file_id}/preview)
	PreviewFile(w http.ResponseWriter, r *http.Request, fileId FileId, params InfoParams)
	// Документ OpenAPI
	// (GET /openapi.json)
	GetOpenAPI(w http.ResponseWriter, r *http.Request)
	// Liveness probe
	// (GET /health/live)
	HealthLive(w http.ResponseWriter, r *http.Request)
	// Readiness probe
	// (GET /health/ready)
	HealthReady(w http.ResponseWriter, r *http.Request)
	// Prometheus метрики
	// (GET /metrics)
	GetMetrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError — параметр запроса не удалось привязать.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServerInterfaceWrapper привязывает параметры запроса и вызывает обработчик.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// ListFiles operation middleware
func (siw *ServerInterfaceWrapper) ListFiles(w http.ResponseWriter, r *http.Request) {
	var params ListFilesParams

	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", r.URL.Query(), &params.Offset); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "offset", Err: err})
		return
	}

	siw.Handler.ListFiles(w, r, params)
}

// UploadFile operation middleware
func (siw *ServerInterfaceWrapper) UploadFile(w http.ResponseWriter, r *http.Request) {
	siw.Handler.UploadFile(w, r)
}

// GetFile operation middleware
func (siw *ServerInterfaceWrapper) GetFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := siw.bindFileID(w, r)
	if !ok {
		return
	}
	siw.Handler.GetFile(w, r, fileID)
}

// DeleteFile operation middleware
func (siw *ServerInterfaceWrapper) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := siw.bindFileID(w, r)
	if !ok {
		return
	}
	siw.Handler.DeleteFile(w, r, fileID)
}

// DownloadFile operation middleware
func (siw *ServerInterfaceWrapper) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := siw.bindFileID(w, r)
	if !ok {
		return
	}
	params, ok := siw.bindInfo(w, r)
	if !ok {
		return
	}
	siw.Handler.DownloadFile(w, r, fileID, params)
}

// PreviewFile operation middleware
func (siw *ServerInterfaceWrapper) PreviewFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := siw.bindFileID(w, r)
	if !ok {
		return
	}
	params, ok := siw.bindInfo(w, r)
	if !ok {
		return
	}
	siw.Handler.PreviewFile(w, r, fileID, params)
}

// GetOpenAPI operation middleware
func (siw *ServerInterfaceWrapper) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetOpenAPI(w, r)
}

// HealthLive operation middleware
func (siw *ServerInterfaceWrapper) HealthLive(w http.ResponseWriter, r *http.Request) {
	siw.Handler.HealthLive(w, r)
}

// HealthReady operation middleware
func (siw *ServerInterfaceWrapper) HealthReady(w http.ResponseWriter, r *http.Request) {
	siw.Handler.HealthReady(w, r)
}

// GetMetrics operation middleware
func (siw *ServerInterfaceWrapper) GetMetrics(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetMetrics(w, r)
}

func (siw *ServerInterfaceWrapper) bindFileID(w http.ResponseWriter, r *http.Request) (FileId, bool) {
	var fileID FileId
	err := runtime.BindStyledParameterWithOptions("simple", "file_id", chi.URLParam(r, "file_id"), &fileID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "file_id", Err: err})
		return 0, false
	}
	return fileID, true
}

func (siw *ServerInterfaceWrapper) bindInfo(w http.ResponseWriter, r *http.Request) (InfoParams, bool) {
	var params InfoParams
	if err := runtime.BindQueryParameter("form", true, false, "info", r.URL.Query(), &params.Info); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "info", Err: err})
		return params, false
	}
	return params, true
}

// ChiServerOptions — параметры монтирования маршрутов.
type ChiServerOptions struct {
	// BaseURL — префикс файловых маршрутов и документа OpenAPI
	BaseURL    string
	BaseRouter chi.Router
	// ErrorHandlerFunc — обработка ошибок привязки параметров
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions создаёт http.Handler с маршрутами API.
// Health и /metrics монтируются без префикса.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/files", wrapper.ListFiles)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/files/upload", wrapper.UploadFile)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/files/{file_id}", wrapper.GetFile)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/files/{file_id}", wrapper.DeleteFile)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/files/{file_id}/download", wrapper.DownloadFile)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/files/{file_id}/preview", wrapper.PreviewFile)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/openapi.json", wrapper.GetOpenAPI)
	})
	r.Group(func(r chi.Router) {
		r.Get("/health/live", wrapper.HealthLive)
	})
	r.Group(func(r chi.Router) {
		r.Get("/health/ready", wrapper.HealthReady)
	})
	r.Group(func(r chi.Router) {
		r.Get("/metrics", wrapper.GetMetrics)
	})

	return r
}
