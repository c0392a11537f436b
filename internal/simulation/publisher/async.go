package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Degagemain/degage-sub000/internal/simulation/metrics"
	"github.com/Degagemain/degage-sub000/internal/simulation/models"
)

// AsyncPublisher hands runs to a background goroutine so request latency
// does not include broker round-trips. Close drains the buffer.
type AsyncPublisher struct {
	next    Publisher
	queue   chan *models.Run
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

type AsyncOption func(*AsyncPublisher)

func WithAsyncLogger(logger *slog.Logger) AsyncOption {
	return func(p *AsyncPublisher) { p.logger = logger }
}

func WithAsyncMetrics(m *metrics.Metrics) AsyncOption {
	return func(p *AsyncPublisher) { p.metrics = m }
}

// WithPublishTimeout bounds each delivery attempt.
func WithPublishTimeout(d time.Duration) AsyncOption {
	return func(p *AsyncPublisher) { p.timeout = d }
}

func NewAsync(next Publisher, buffer int, opts ...AsyncOption) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan *models.Run, buffer),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// Publish enqueues run. A full buffer or a closed publisher drops the event
// and counts it as a failure; it never blocks the caller.
func (p *AsyncPublisher) Publish(ctx context.Context, run *models.Run) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.dropped(ctx, run, "publisher closed")
		return nil
	}
	select {
	case p.queue <- run:
	default:
		p.dropped(ctx, run, "buffer full")
	}
	return nil
}

func (p *AsyncPublisher) loop() {
	defer p.wg.Done()
	for run := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, run); err != nil {
			p.metrics.IncrementPublishFailure()
			if p.logger != nil {
				p.logger.Error("failed to publish simulation event",
					"run_id", run.ID,
					"error", err,
				)
			}
		}
		cancel()
	}
}

func (p *AsyncPublisher) dropped(ctx context.Context, run *models.Run, reason string) {
	p.metrics.IncrementPublishFailure()
	if p.logger != nil && run != nil {
		p.logger.WarnContext(ctx, "simulation event dropped",
			"run_id", run.ID,
			"reason", reason,
		)
	}
}

// Close stops accepting events, drains the queue and closes the next publisher.
func (p *AsyncPublisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
		p.next.Close()
	})
}
