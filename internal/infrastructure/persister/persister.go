package persister

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/gospend/internal/domain"
)

var (
	// ErrQueueFull is returned when a save cannot be enqueued.
	ErrQueueFull = errors.New("save queue is full")
	// ErrStopped is returned for saves submitted after the worker stopped.
	ErrStopped = errors.New("persister is stopped")
)

// Store is the durable side of the persister.
type Store interface {
	Set(ctx context.Context, key string, value []byte) error
}

// Recorder receives save outcomes.
type Recorder interface {
	SaveCompleted(key string, attempts int, err error)
	QueueDepth(n int)
}

// Config for Persister.
type Config struct {
	Store           Store
	Logger          zerolog.Logger
	Metrics         Recorder
	QueueSize       int           // Pending saves before ErrQueueFull
	MaxRetries      int           // Retries after the first failed attempt
	InitialInterval time.Duration // First backoff interval
	MaxInterval     time.Duration // Backoff ceiling
	// OnFailure is called once per save that failed after all retries.
	OnFailure func(key string, err error)
}

type job struct {
	ctx   context.Context
	key   string
	value []byte
	done  chan error
}

// Persister applies key-value writes in the background, in submission order.
type Persister struct {
	store           Store
	logger          zerolog.Logger
	metrics         Recorder
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	onFailure       func(key string, err error)

	queue chan job

	mu      sync.RWMutex
	stopped bool
}

// New creates a new Persister. Run must be started for saves to complete.
func New(cfg Config) *Persister {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 50 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = time.Second
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopRecorder{}
	}

	return &Persister{
		store:           cfg.Store,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
		onFailure:       cfg.OnFailure,
		queue:           make(chan job, cfg.QueueSize),
	}
}

// Save enqueues a write without blocking. The returned channel receives
// exactly one result and is then closed. Cancelling ctx after Save returns
// does not cancel the write.
func (p *Persister) Save(ctx context.Context, key string, value []byte) <-chan error {
	done := make(chan error, 1)
	j := job{
		ctx:   context.WithoutCancel(ctx),
		key:   key,
		value: append([]byte(nil), value...),
		done:  done,
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		p.reject(j, ErrStopped)
		return done
	}

	select {
	case p.queue <- j:
		p.metrics.QueueDepth(len(p.queue))
	default:
		p.reject(j, ErrQueueFull)
	}

	return done
}

// Run processes saves until ctx is cancelled, then writes whatever is still
// queued and returns ctx.Err().
func (p *Persister) Run(ctx context.Context) error {
	p.logger.Info().
		Int("queue_size", cap(p.queue)).
		Int("max_retries", p.maxRetries).
		Msg("persister started")

	for {
		select {
		case <-ctx.Done():
			p.drain()
			p.logger.Info().Msg("persister shutting down")
			return ctx.Err()
		case j := <-p.queue:
			p.metrics.QueueDepth(len(p.queue))
			p.process(ctx, j)
		}
	}
}

func (p *Persister) drain() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	ctx := context.Background()
	for {
		select {
		case j := <-p.queue:
			p.process(ctx, j)
		default:
			p.metrics.QueueDepth(0)
			return
		}
	}
}

// process writes one job. ctx bounds the backoff waits, j.ctx is handed to the store.
func (p *Persister) process(ctx context.Context, j job) {
	attempts, err := p.write(ctx, j)
	p.metrics.SaveCompleted(j.key, attempts, err)

	if err != nil {
		err = fmt.Errorf("%w: saving %s: %w", domain.ErrPersistence, j.key, err)
		p.logger.Error().
			Err(err).
			Str("key", j.key).
			Int("attempts", attempts).
			Msg("save failed")
		if p.onFailure != nil {
			p.onFailure(j.key, err)
		}
	} else {
		p.logger.Debug().
			Str("key", j.key).
			Int("bytes", len(j.value)).
			Int("attempts", attempts).
			Msg("saved")
	}

	j.done <- err
	close(j.done)
}

func (p *Persister) write(ctx context.Context, j job) (int, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialInterval
	b.MaxInterval = p.maxInterval
	b.MaxElapsedTime = 0

	attempts := 0

	err := backoff.Retry(func() error {
		attempts++
		err := p.store.Set(j.ctx, j.key, j.value)
		if err == nil {
			return nil
		}

		if attempts <= p.maxRetries {
			p.logger.Warn().
				Err(err).
				Str("key", j.key).
				Int("retry", attempts).
				Msg("save failed, retrying")
		}

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.maxRetries)), ctx))

	return attempts, err
}

func (p *Persister) reject(j job, err error) {
	err = fmt.Errorf("%w: saving %s: %w", domain.ErrPersistence, j.key, err)
	p.metrics.SaveCompleted(j.key, 0, err)
	p.logger.Error().Err(err).Str("key", j.key).Msg("save rejected")
	if p.onFailure != nil {
		p.onFailure(j.key, err)
	}
	j.done <- err
	close(j.done)
}

type noopRecorder struct{}

func (noopRecorder) SaveCompleted(string, int, error) {}
func (noopRecorder) QueueDepth(int)                   {}
