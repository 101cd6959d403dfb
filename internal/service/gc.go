// gc.go — сервис фоновой сборки осиротевшего содержимого.
//
// Загрузка пишет содержимое до создания записи, удаление убирает запись
// до содержимого. Сбой между шагами оставляет объект без записи.
// GC находит такие объекты и удаляет их, если они старше grace period
// (защита загрузок, которые ещё не успели создать запись).
//
// Запускается как горутина с периодическим тикером (FS_GC_INTERVAL).
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/file-service/internal/repository"
	"github.com/bigkaa/goartstore/file-service/internal/storage/blob"
)

// Prometheus метрики GC
var (
	// gcRunsTotal — количество запусков GC.
	gcRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fs_gc_runs_total",
		Help: "Общее количество запусков GC",
	})

	// gcOrphansDeletedTotal — количество удалённых осиротевших объектов.
	gcOrphansDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fs_gc_orphans_deleted_total",
		Help: "Общее количество осиротевших объектов, удалённых GC",
	})

	// gcDurationSeconds — длительность выполнения GC.
	gcDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fs_gc_duration_seconds",
		Help:    "Длительность выполнения GC в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// GCResult — результат одного запуска GC.
type GCResult struct {
	// Scanned — количество просмотренных объектов
	Scanned int
	// Orphans — объекты без записи (включая моложе grace period)
	Orphans int
	// Deleted — удалённые объекты
	Deleted int
	// Skipped — осиротевшие объекты моложе grace period
	Skipped int
	// Errors — количество ошибок
	Errors int
	// Duration — длительность выполнения
	Duration time.Duration
}

// GCService — сервис фоновой сборки осиротевшего содержимого.
type GCService struct {
	blobs    blob.Store
	repo     repository.FileRepository
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger

	mu     sync.Mutex // защита от параллельного запуска RunOnce
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGCService создаёт сервис GC.
func NewGCService(
	blobs blob.Store,
	repo repository.FileRepository,
	interval time.Duration,
	grace time.Duration,
	logger *slog.Logger,
) *GCService {
	return &GCService{
		blobs:    blobs,
		repo:     repo,
		interval: interval,
		grace:    grace,
		logger:   logger.With(slog.String("component", "gc")),
	}
}

// Start запускает фоновую горутину GC с периодическим тикером.
// При interval <= 0 GC не запускается.
func (gc *GCService) Start(ctx context.Context) {
	if gc.interval <= 0 {
		gc.logger.Info("GC отключён")
		return
	}

	gcCtx, cancel := context.WithCancel(ctx)
	gc.cancel = cancel
	gc.done = make(chan struct{})

	go gc.run(gcCtx)

	gc.logger.Info("GC запущен",
		slog.String("interval", gc.interval.String()),
		slog.String("grace_period", gc.grace.String()),
	)
}

// Stop останавливает фоновый процесс GC и дожидается завершения цикла.
func (gc *GCService) Stop() {
	if gc.cancel == nil {
		return
	}
	gc.cancel()
	<-gc.done
	gc.cancel = nil
	gc.logger.Info("GC остановлен")
}

// run — основной цикл фоновой горутины.
func (gc *GCService) run(ctx context.Context) {
	defer close(gc.done)

	// Первый запуск — сразу после старта
	gc.RunOnce(ctx)

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gc.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один цикл GC.
// Потокобезопасен: использует mutex для защиты от параллельного запуска.
//
// Порядок:
//  1. Список объектов хранилища
//  2. Множество путей из записей
//  3. Удаление объектов без записи старше grace period
//
// Список объектов берётся до множества путей: объект, записанный
// между шагами, либо имеет запись, либо моложе grace period.
func (gc *GCService) RunOnce(ctx context.Context) *GCResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	start := time.Now()
	result := &GCResult{}

	gc.logger.Debug("GC запуск начат")

	objects, err := gc.blobs.List(ctx)
	if err != nil {
		gc.logger.Error("GC: ошибка получения списка объектов",
			slog.String("error", err.Error()),
		)
		result.Errors++
		gc.finish(result, start)
		return result
	}

	known, err := gc.repo.StoragePaths(ctx)
	if err != nil {
		gc.logger.Error("GC: ошибка получения путей записей",
			slog.String("error", err.Error()),
		)
		result.Errors++
		gc.finish(result, start)
		return result
	}

	threshold := time.Now().Add(-gc.grace)
	for _, obj := range objects {
		result.Scanned++
		if _, ok := known[obj.Path]; ok {
			continue
		}
		result.Orphans++

		if obj.ModTime.After(threshold) {
			result.Skipped++
			continue
		}

		if err := gc.blobs.Delete(ctx, obj.Path); err != nil {
			gc.logger.Error("GC: ошибка удаления объекта",
				slog.String("storage_path", obj.Path),
				slog.String("error", err.Error()),
			)
			result.Errors++
			continue
		}

		gc.logger.Debug("GC: осиротевший объект удалён",
			slog.String("storage_path", obj.Path),
			slog.Int64("size", obj.Size),
		)
		result.Deleted++
	}

	gc.finish(result, start)
	return result
}

// finish обновляет метрики и логирует итог запуска.
func (gc *GCService) finish(result *GCResult, start time.Time) {
	result.Duration = time.Since(start)

	gcRunsTotal.Inc()
	gcOrphansDeletedTotal.Add(float64(result.Deleted))
	gcDurationSeconds.Observe(result.Duration.Seconds())

	gc.logger.Info("GC завершён",
		slog.Int("scanned", result.Scanned),
		slog.Int("orphans", result.Orphans),
		slog.Int("deleted", result.Deleted),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.Errors),
		slog.Duration("duration", result.Duration),
	)
}
