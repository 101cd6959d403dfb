// Пакет objectstore — хранение содержимого файлов в S3-совместимом
// объектном хранилище (MinIO). Все объекты лежат в одном bucket
// в плоском пространстве имён.
package objectstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bigkaa/goartstore/file-service/internal/storage/blob"
)

// partSize — размер части multipart-загрузки при неизвестной длине потока.
const partSize = 16 * 1024 * 1024

// Config — параметры подключения к MinIO.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ObjectStore — хранилище содержимого в MinIO.
type ObjectStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

var _ blob.Store = (*ObjectStore)(nil)

// New создаёт ObjectStore. Создаёт bucket, если он не существует.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("ошибка создания bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("Bucket создан", slog.String("bucket", cfg.Bucket))
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With(slog.String("component", "objectstore")),
	}, nil
}

// Put загружает данные в bucket с подсчётом SHA-256 на лету.
// Длина потока заранее неизвестна: используется multipart-загрузка.
func (s *ObjectStore) Put(ctx context.Context, name string, reader io.Reader) (*blob.PutResult, error) {
	objectName := blob.GenerateName(name)

	hasher := sha256.New()
	tee := io.TeeReader(reader, hasher)

	info, err := s.client.PutObject(ctx, s.bucket, objectName, tee, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
		PartSize:    partSize,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки объекта %s: %w", objectName, err)
	}

	return &blob.PutResult{
		Path:     objectName,
		Size:     info.Size,
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open открывает объект на чтение. *minio.Object поддерживает Seek,
// что позволяет обслуживать Range-запросы.
func (s *ObjectStore) Open(ctx context.Context, objectName string) (*blob.Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(objectName, err)
	}

	// GetObject ленивый: отсутствие объекта обнаруживается при Stat
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, s.mapError(objectName, err)
	}

	return &blob.Object{
		Body:    obj,
		Size:    stat.Size,
		ModTime: stat.LastModified,
	}, nil
}

// Delete удаляет объект. Отсутствие объекта не является ошибкой.
func (s *ObjectStore) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		if errors.Is(s.mapError(objectName, err), blob.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("ошибка удаления объекта %s: %w", objectName, err)
	}
	return nil
}

// List возвращает все объекты bucket.
func (s *ObjectStore) List(ctx context.Context) ([]blob.Info, error) {
	var result []blob.Info
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("ошибка перечисления объектов: %w", obj.Err)
		}
		result = append(result, blob.Info{
			Path:    obj.Key,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}
	return result, nil
}

// CheckReady проверяет доступность bucket.
func (s *ObjectStore) CheckReady(ctx context.Context) (string, string) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return "fail", "MinIO недоступен: " + err.Error()
	}
	if !exists {
		return "fail", "Bucket не найден: " + s.bucket
	}
	return "ok", ""
}

// Bucket возвращает имя bucket.
func (s *ObjectStore) Bucket() string {
	return s.bucket
}

// mapError преобразует ответ «ключ не найден» в blob.ErrNotFound.
func (s *ObjectStore) mapError(objectName string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", blob.ErrNotFound, objectName)
	}
	return fmt.Errorf("ошибка чтения объекта %s: %w", objectName, err)
}
