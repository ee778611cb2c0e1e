package queue

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/starburger/dispatch-system/internal/core/ports"
)

const requestBuffer = 16

var ErrRunnerStopped = errors.New("dispatch runner stopped")

// Runner funnels batch ranking runs through a single worker, so concurrent
// staff requests execute as sequential passes instead of racing each other
// against the geocoding provider.
type Runner struct {
	service  ports.DispatchService
	requests chan runRequest
	log      zerolog.Logger
}

type runRequest struct {
	ctx   context.Context
	reply chan runResult
}

type runResult struct {
	snapshot *ports.DispatchSnapshot
	err      error
}

// NewRunner creates a Runner over the given dispatch service.
func NewRunner(service ports.DispatchService, log zerolog.Logger) *Runner {
	return &Runner{
		service:  service,
		requests: make(chan runRequest, requestBuffer),
		log:      log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled;
// in-flight geocoding calls are abandoned with it.
func (r *Runner) Start(ctx context.Context) {
	go r.runWorker(ctx)
}

// Run executes one batch ranking pass, waiting for any pass already in flight
// to finish first.
func (r *Runner) Run(ctx context.Context) (*ports.DispatchSnapshot, error) {
	req := runRequest{ctx: ctx, reply: make(chan runResult, 1)}

	select {
	case r.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.snapshot, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Runner) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return
		case req := <-r.requests:
			snapshot, err := r.service.RankOpenOrders(req.ctx)
			if err != nil {
				r.log.Error().Err(err).Msg("batch ranking pass failed")
			}
			req.reply <- runResult{snapshot: snapshot, err: err}
		}
	}
}

// drain fails any requests still queued when the worker stops.
func (r *Runner) drain() {
	for {
		select {
		case req := <-r.requests:
			req.reply <- runResult{err: ErrRunnerStopped}
		default:
			return
		}
	}
}
