package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/procurecontract/session-service/internal/api/metrics"
	"github.com/procurecontract/session-service/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder persists one transition.
type Recorder interface {
	Record(ctx context.Context, t domain.Transition) error
}

// Dispatcher routes session transitions to a fixed set of workers using
// consistent hashing on the client id, guaranteeing per-client ordering.
// Enqueue never blocks the session manager: when a worker's buffer is full
// the transition is dropped and counted.
type Dispatcher struct {
	workers  []chan domain.Transition
	recorder Recorder
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder Recorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.Transition, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Transition, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// once ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends a transition to the worker responsible for its client.
// It has the signature of ports.Observer so it can be subscribed directly.
func (d *Dispatcher) Enqueue(t domain.Transition) {
	idx := d.shardIndex(t.ClientID)
	select {
	case d.workers[idx] <- t:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("client_id", t.ClientID).
			Str("reason", string(t.Reason)).
			Int("worker_id", idx).
			Msg("audit queue full, transition dropped")
	}
}

// shardIndex maps a client id deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Transition) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case t := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.record(ctx, id, t)
		}
	}
}

// drain records whatever is still buffered, detached from the cancelled context.
func (d *Dispatcher) drain(id int, ch <-chan domain.Transition) {
	ctx := context.Background()
	for {
		select {
		case t := <-ch:
			d.record(ctx, id, t)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, t domain.Transition) {
	if err := d.recorder.Record(ctx, t); err != nil {
		d.log.Error().Err(err).
			Str("client_id", t.ClientID).
			Int("worker_id", id).
			Msg("transition audit failed")
	}
}
