package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/starburger/dispatch-system/internal/core/ports"
)

// stubDispatchService records concurrency of RankOpenOrders calls.
type stubDispatchService struct {
	mu      sync.Mutex
	active  int32
	overlap bool
	calls   int
	err     error
	delay   time.Duration
}

func (s *stubDispatchService) RankOpenOrders(ctx context.Context) (*ports.DispatchSnapshot, error) {
	if atomic.AddInt32(&s.active, 1) > 1 {
		s.mu.Lock()
		s.overlap = true
		s.mu.Unlock()
	}
	defer atomic.AddInt32(&s.active, -1)

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return &ports.DispatchSnapshot{GeneratedAt: time.Now().UTC()}, nil
}

func TestRunner_Run_ReturnsSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := &stubDispatchService{}
	runner := NewRunner(service, zerolog.Nop())
	runner.Start(ctx)

	snapshot, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot == nil {
		t.Fatal("expected a snapshot")
	}
}

func TestRunner_Run_SerializesConcurrentRequests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := &stubDispatchService{delay: 10 * time.Millisecond}
	runner := NewRunner(service, zerolog.Nop())
	runner.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := runner.Run(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	service.mu.Lock()
	defer service.mu.Unlock()
	if service.overlap {
		t.Error("expected passes to run one at a time")
	}
	if service.calls != 5 {
		t.Errorf("expected 5 passes, got %d", service.calls)
	}
}

func TestRunner_Run_PropagatesServiceError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wantErr := errors.New("batch failed")
	runner := NewRunner(&stubDispatchService{err: wantErr}, zerolog.Nop())
	runner.Start(ctx)

	if _, err := runner.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestRunner_Run_CallerContextCancellation(t *testing.T) {
	// The worker never starts, so the request stays queued and the caller's
	// context is the only way out.
	runner := NewRunner(&stubDispatchService{}, zerolog.Nop())

	callCtx, callCancel := context.WithCancel(context.Background())
	callCancel()

	if _, err := runner.Run(callCtx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
