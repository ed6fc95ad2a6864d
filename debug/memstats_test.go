package debug

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/process"
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

func TestReadMemSample_HeapOnly(t *testing.T) {
	s, err := ReadMemSample(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.HeapAlloc == 0 || s.Goroutines == 0 {
		t.Fatalf("expected heap and goroutine figures, got %+v", s)
	}
	if s.RSS != 0 {
		t.Fatalf("RSS should be zero without a process handle")
	}
}

func TestReadMemSample_Process(t *testing.T) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		t.Skipf("process handle unavailable: %v", err)
	}
	s, err := ReadMemSample(proc)
	if err != nil {
		t.Skipf("process memory unavailable: %v", err)
	}
	if s.RSS == 0 {
		t.Fatalf("expected non-zero RSS")
	}
}

func TestLoggers_EmitAndStop(t *testing.T) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartMemLogger(ctx, 5*time.Millisecond, logger)
	StartGoroutineLogger(ctx, 5*time.Millisecond, logger)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := out.String()
		if strings.Contains(s, "memstats") && strings.Contains(s, "goroutine-stacks") {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	s := out.String()
	if !strings.Contains(s, "memstats") || !strings.Contains(s, "goroutine-stacks") {
		t.Fatalf("expected both loggers to emit, got %q", s)
	}
}
