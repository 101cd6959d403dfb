// Пакет openapi — встроенный OpenAPI-контракт file-service.
// Документ загружается и валидируется через kin-openapi,
// отдаётся клиентам на GET {base}/openapi.json.
package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var specYAML []byte

var (
	loadOnce sync.Once
	loaded   *openapi3.T
	loadErr  error
)

// GetSwagger возвращает разобранный и провалидированный документ.
// Документ разбирается один раз; вызывающий код не должен его изменять.
func GetSwagger() (*openapi3.T, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Load(context.Background())
	})
	return loaded, loadErr
}

// Load разбирает встроенный документ и проверяет его корректность.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false

	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора OpenAPI: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("некорректный OpenAPI: %w", err)
	}
	return doc, nil
}

// JSON возвращает документ в JSON с указанным адресом сервера.
// serverURL — префикс API (например, "/api"); пустой — без секции servers.
func JSON(serverURL string) ([]byte, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	// Копия верхнего уровня: servers зависит от конфигурации
	out := *doc
	out.Servers = nil
	if serverURL != "" {
		out.Servers = openapi3.Servers{{URL: serverURL}}
	}
	return json.Marshal(&out)
}
