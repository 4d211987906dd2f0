package out

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"engagemon/internal/modules/sensing/domain"
	sensingout "engagemon/internal/modules/sensing/port/out"
	apperrors "engagemon/internal/platform/errors"
)

// AsyncSource samples a blocking source on its own goroutine and hands
// completed samples to the tick through a one-slot mailbox. The pump is the
// only sender on the mailbox.
type AsyncSource struct {
	inner  sensingout.Source
	every  time.Duration
	maxAge time.Duration

	mailbox chan domain.Sample

	errMu   sync.Mutex
	lastErr error

	mu     sync.Mutex
	latest domain.Sample
	has    bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAsyncSource wraps inner. Samples older than maxAge are treated as
// missing; zero disables the check.
func NewAsyncSource(inner sensingout.Source, every, maxAge time.Duration) *AsyncSource {
	return &AsyncSource{
		inner:   inner,
		every:   every,
		maxAge:  maxAge,
		mailbox: make(chan domain.Sample, 1),
	}
}

// Start launches the pump. It stops when ctx is done or Close is called.
func (a *AsyncSource) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	go a.pump(ctx)
}

func (a *AsyncSource) pump(ctx context.Context) {
	defer close(a.done)
	ticker := time.NewTicker(a.every)
	defer ticker.Stop()
	for {
		a.produce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *AsyncSource) produce(ctx context.Context) {
	sample, err := a.inner.Sample(ctx)
	if err != nil {
		if ctx.Err() == nil {
			a.setErr(err)
		}
		return
	}
	a.setErr(nil)
	select {
	case a.mailbox <- sample:
	default:
		// The tick has not consumed the previous sample; replace it.
		select {
		case <-a.mailbox:
		default:
		}
		a.mailbox <- sample
	}
}

func (a *AsyncSource) Kind() domain.Kind { return a.inner.Kind() }

// Sample returns the newest completed sample without blocking.
func (a *AsyncSource) Sample(_ context.Context) (domain.Sample, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case s := <-a.mailbox:
		a.latest = s
		a.has = true
	default:
	}
	if !a.has {
		if err := a.err(); err != nil {
			if errors.Is(err, apperrors.ErrSourceUnavailable) {
				return domain.Sample{}, err
			}
			return domain.Sample{}, fmt.Errorf("%w: %s sensor: %v", apperrors.ErrSourceUnavailable, a.Kind(), err)
		}
		return domain.Sample{}, fmt.Errorf("%w: %s sensor has not produced a sample yet", apperrors.ErrSourceUnavailable, a.Kind())
	}
	if a.maxAge > 0 && time.Since(a.latest.Timestamp) > a.maxAge {
		return domain.Sample{}, fmt.Errorf("%s sensor sample is stale (%s old)", a.Kind(), time.Since(a.latest.Timestamp).Round(time.Second))
	}
	return a.latest, nil
}

// Close stops the pump and closes the wrapped source.
func (a *AsyncSource) Close() error {
	if a.cancel != nil {
		a.cancel()
		<-a.done
	}
	return a.inner.Close()
}

func (a *AsyncSource) setErr(err error) {
	a.errMu.Lock()
	a.lastErr = err
	a.errMu.Unlock()
}

func (a *AsyncSource) err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.lastErr
}
