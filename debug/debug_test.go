package debug

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLoggersEmitAndStop(t *testing.T) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartGoroutineLogger(ctx, 5*time.Millisecond, logger, func() []slog.Attr {
		return []slog.Attr{slog.Int("rois", 2)}
	})
	StartMemLogger(ctx, 5*time.Millisecond, logger)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := out.String()
		if strings.Contains(s, `"goroutine-stacks"`) && strings.Contains(s, `"memstats"`) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	s := out.String()
	if !strings.Contains(s, `"rois":2`) {
		t.Fatalf("extra attrs missing: %s", s)
	}
	if !strings.Contains(s, `"memstats"`) {
		t.Fatalf("memstats not logged: %s", s)
	}
}

func TestLogMemStats(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	var ms runtime.MemStats
	ms.HeapAlloc = 2048
	logMemStats(logger, &ms, 1<<20)
	if !strings.Contains(buf.String(), `"heap_alloc":"2.0 kB"`) || !strings.Contains(buf.String(), `"rss":"1.0 MB"`) {
		t.Fatalf("unexpected log line: %s", buf.String())
	}
}
