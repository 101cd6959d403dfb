package service

import (
	"testing"
	"time"

	"github.com/bigkaa/goartstore/file-service/internal/domain/model"
)

// TestCacheService_GetSet проверяет базовые операции Get/Set.
func TestCacheService_GetSet(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	record := &model.FileRecord{
		ID:           1,
		OriginalName: "test.txt",
		ContentType:  "text/plain",
		Size:         1024,
	}

	// Cache miss
	if _, ok := cache.Get(1); ok {
		t.Fatal("ожидался cache miss для нового ключа")
	}

	// Set + cache hit
	cache.Set(record)
	got, ok := cache.Get(1)
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if got.OriginalName != "test.txt" {
		t.Errorf("OriginalName = %q, ожидался %q", got.OriginalName, "test.txt")
	}
}

// TestCacheService_CopyOnRead проверяет, что изменение результата не меняет кэш.
func TestCacheService_CopyOnRead(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	record := &model.FileRecord{ID: 7, OriginalName: "orig.txt"}
	cache.Set(record)
	record.OriginalName = "changed-after-set.txt"

	got, _ := cache.Get(7)
	got.OriginalName = "changed-after-get.txt"

	again, _ := cache.Get(7)
	if again.OriginalName != "orig.txt" {
		t.Errorf("OriginalName = %q, ожидался %q", again.OriginalName, "orig.txt")
	}
}

// TestCacheService_Delete проверяет удаление из кэша (инвалидация).
func TestCacheService_Delete(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	cache.Set(&model.FileRecord{ID: 3})
	if _, ok := cache.Get(3); !ok {
		t.Fatal("ожидался cache hit перед удалением")
	}

	cache.Delete(3)

	if _, ok := cache.Get(3); ok {
		t.Fatal("ожидался cache miss после Delete")
	}
}

// TestCacheService_TTLExpiration проверяет автоматическое истечение TTL.
func TestCacheService_TTLExpiration(t *testing.T) {
	// Короткий TTL = 50ms для теста
	cache := NewCacheService(100, 50*time.Millisecond)

	cache.Set(&model.FileRecord{ID: 5})
	if _, ok := cache.Get(5); !ok {
		t.Fatal("ожидался cache hit сразу после Set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get(5); ok {
		t.Fatal("ожидался cache miss после истечения TTL")
	}
}

// TestCacheService_Eviction проверяет вытеснение при переполнении.
func TestCacheService_Eviction(t *testing.T) {
	cache := NewCacheService(2, 5*time.Minute)

	cache.Set(&model.FileRecord{ID: 1})
	cache.Set(&model.FileRecord{ID: 2})
	cache.Set(&model.FileRecord{ID: 3})

	if cache.Len() != 2 {
		t.Errorf("Len = %d, ожидалось 2", cache.Len())
	}
	if _, ok := cache.Get(1); ok {
		t.Error("старейшая запись должна быть вытеснена")
	}
}

// TestCacheService_Disabled проверяет отключённый кэш (size = 0).
func TestCacheService_Disabled(t *testing.T) {
	cache := NewCacheService(0, time.Minute)

	cache.Set(&model.FileRecord{ID: 1})
	if _, ok := cache.Get(1); ok {
		t.Error("отключённый кэш не должен возвращать записи")
	}
	cache.Delete(1)
	if cache.Len() != 0 {
		t.Errorf("Len = %d, ожидалось 0", cache.Len())
	}
}

// TestCacheService_SetAfterDelete проверяет, что удалённая запись не
// возвращается в кэш повторным Set.
func TestCacheService_SetAfterDelete(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	record := &model.FileRecord{ID: 9, OriginalName: "gone.txt"}
	cache.Set(record)
	cache.Delete(9)
	cache.Set(record)

	if _, ok := cache.Get(9); ok {
		t.Fatal("ожидался cache miss: запись удалена")
	}

	// Другие id не затронуты
	cache.Set(&model.FileRecord{ID: 10})
	if _, ok := cache.Get(10); !ok {
		t.Error("ожидался cache hit для id 10")
	}
}
