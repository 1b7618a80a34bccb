package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrQueueFull   = errors.New("mail queue full")
	ErrQueueClosed = errors.New("mail queue closed")
)

const (
	DefaultQueueSize   = 100
	DefaultWorkers     = 1
	DefaultSendTimeout = 10 * time.Second
)

type QueueConfig struct {
	Size        int
	Workers     int
	SendTimeout time.Duration
}

// Queue is a bounded in-process outbox drained by a fixed worker pool.
// Delivery is at most once: a failed send is logged and dropped.
type Queue struct {
	sender      Sender
	sendTimeout time.Duration
	lg          zerolog.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan Message
	wg     sync.WaitGroup
}

func NewQueue(sender Sender, cfg QueueConfig, lg zerolog.Logger) *Queue {
	if cfg.Size <= 0 {
		cfg.Size = DefaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}

	q := &Queue{
		sender:      sender,
		sendTimeout: cfg.SendTimeout,
		lg:          lg.With().Str("component", "mail_queue").Str("sender", sender.Name()).Logger(),
		jobs:        make(chan Message, cfg.Size),
	}
	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue never blocks. It fails with ErrQueueFull when the buffer is at
// capacity and ErrQueueClosed after Close.
func (q *Queue) Enqueue(m Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- m:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len is the number of messages waiting for a worker.
func (q *Queue) Len() int { return len(q.jobs) }

// Close stops intake and waits for queued messages to drain, or for ctx to
// end, whichever comes first.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		q.lg.Warn().Int("pending", len(q.jobs)).Msg("mail queue drain interrupted")
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for m := range q.jobs {
		q.deliver(m)
	}
}

func (q *Queue) deliver(m Message) {
	ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
	defer cancel()

	start := time.Now()
	if err := q.sender.Send(ctx, m); err != nil {
		q.lg.Error().Err(err).Str("subject", m.Subject).Msg("mail send failed")
		return
	}
	q.lg.Info().
		Str("subject", m.Subject).
		Dur("duration", time.Since(start)).
		Msg("mail sent")
}
