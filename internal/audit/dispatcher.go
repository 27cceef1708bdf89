package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type writer interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher records events that have no unit of work to ride on, such as a
// lost slot race after its rollback.
type Dispatcher struct {
	logger writer
	log    zerolog.Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger writer, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100), // buffer seguro
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.logger.Log(ctx, ev); err != nil {
			d.log.Warn().Err(err).Str("kind", ev.Kind).Msg("audit error")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("kind", ev.Kind).Msg("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn().Str("kind", ev.Kind).Msg("audit queue full, dropping event")
	}
}

// Close drains the queue. Later Dispatch calls are dropped.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()

		d.wg.Wait()
	})
}
