// Package shardqueue provides a sharded FIFO executor: jobs submitted with
// the same key always land on the same shard and run in submission order.
// Each worker retries failed jobs with exponential backoff, so transient
// server outages do not drop writes.
package shardqueue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ShardExecutor owns cfg.Shards worker goroutines, one per shard queue.
type ShardExecutor struct {
	cfg    Config
	queues []chan Job

	mu     sync.RWMutex // guards closed vs. concurrent Submit
	closed bool
	wg     sync.WaitGroup
}

// NewShardExecutor starts the workers immediately. A zero-valued Config is
// usable; missing fields take the documented defaults.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	e := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan Job, cfg.Shards),
	}
	for i := range e.queues {
		e.queues[i] = make(chan Job, cfg.QueueSize)
		e.wg.Add(1)
		go e.worker(i)
	}
	return e
}

// Submit enqueues j on the shard owning key. It blocks for at most
// cfg.EnqueueTimeout when the shard queue is full, then reports
// *QueueFullError. A stopped executor returns ErrExecutorClosed.
func (e *ShardExecutor) Submit(ctx context.Context, key string, j Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrExecutorClosed
	}

	shard := e.shardFor(key)
	q := e.queues[shard]

	timer := time.NewTimer(e.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case q <- j:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(q), Capacity: cap(q)}
	}
}

// Stop drains the queues and waits for in-flight jobs to finish.
// Safe to call once; subsequent Submits return ErrExecutorClosed.
func (e *ShardExecutor) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	for _, q := range e.queues {
		close(q)
	}
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(e.cfg.Shards))
}

// worker consumes one shard queue until it is closed and drained. It is the
// sole writer of the shard's queueDepth gauge.
func (e *ShardExecutor) worker(shard int) {
	defer e.wg.Done()
	label := labelFor(shard)
	for j := range e.queues[shard] {
		queueDepth.WithLabelValues(label).Set(float64(len(e.queues[shard])))

		start := time.Now()
		err := e.runWithRetry(j)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err != nil && e.cfg.ErrorHandler != nil {
			e.cfg.ErrorHandler(err)
		}
	}
	queueDepth.WithLabelValues(label).Set(0)
}

// runWithRetry executes the job under the configured exponential-backoff
// policy: at most MaxAttempts tries, starting at BaseBackoff and capped at
// MaxInterval. Panics are converted to errors so one bad job cannot kill a
// shard worker.
func (e *ShardExecutor) runWithRetry(j Job) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.cfg.BaseBackoff
	bo.MaxInterval = e.cfg.MaxInterval
	bo.MaxElapsedTime = 0 // attempts, not wall clock, bound the retries

	op := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = backoff.Permanent(fmt.Errorf("job panicked: %v", r))
			}
		}()
		return j.Run(context.Background())
	}

	return backoff.Retry(op, backoff.WithMaxRetries(bo, uint64(e.cfg.MaxAttempts-1)))
}
