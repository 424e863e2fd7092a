package debug

import (
	"log/slog"
	"runtime"

	"github.com/dustin/go-humanize"
)

func logMemStats(logger *slog.Logger, ms *runtime.MemStats, rss uint64) {
	logger.Info("memstats",
		slog.Int("goroutines", runtime.NumGoroutine()),
		slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
		slog.String("heap_inuse", humanize.Bytes(ms.HeapInuse)),
		slog.String("heap_idle", humanize.Bytes(ms.HeapIdle)),
		slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
		slog.String("next_gc", humanize.Bytes(ms.NextGC)),
		slog.String("rss", humanize.Bytes(rss)),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	)
}
