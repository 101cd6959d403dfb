// CacheService — LRU-кэш метаданных файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fs_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fs_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных.",
	})
)

// CacheService — LRU-кэш метаданных файлов с автоматическим TTL.
// При maxSize = 0 кэш отключён: Get всегда промах, Set ничего не делает.
//
// Delete оставляет отметку об удалении на время TTL: Set для отмеченного id
// игнорируется. Иначе чтение, начатое до удаления, вернуло бы удалённую
// запись в кэш до истечения TTL.
type CacheService struct {
	mu        sync.Mutex
	cache     *expirable.LRU[int64, *model.FileRecord]
	tombstone *expirable.LRU[int64, struct{}]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
// maxSize — максимальное количество записей в кэше (0 — кэш отключён).
// ttl — время жизни записи после добавления.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	if maxSize <= 0 {
		return &CacheService{}
	}
	return &CacheService{
		cache:     expirable.NewLRU[int64, *model.FileRecord](maxSize, nil, ttl),
		tombstone: expirable.NewLRU[int64, struct{}](maxSize, nil, ttl),
	}
}

// Get возвращает копию FileRecord из кэша по id.
// Обновляет Prometheus-метрики hit/miss.
func (c *CacheService) Get(id int64) (*model.FileRecord, bool) {
	if c.cache == nil {
		return nil, false
	}
	val, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val.Clone(), true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
// Записи, удалённые через Delete, не добавляются.
func (c *CacheService) Set(record *model.FileRecord) {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tombstone.Contains(record.ID) {
		return
	}
	c.cache.Add(record.ID, record.Clone())
}

// Delete удаляет запись из кэша (инвалидация при удалении файла)
// и запрещает её повторное добавление на время TTL.
func (c *CacheService) Delete(id int64) {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tombstone.Add(id, struct{}{})
	c.cache.Remove(id)
}

// Len возвращает количество записей в кэше.
func (c *CacheService) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}
