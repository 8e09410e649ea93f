package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	ltime "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/time"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	ResyncFrequency time.Duration
	MaxWorkers      int
	RunMaxItems     int

	// Ticker drives Resync; a wall ticker at ResyncFrequency is used when nil.
	Ticker ltime.Ticker
}

var ErrInvalidResyncFrequency = fmt.Errorf("invalid resync frequency")
var ErrInvalidMaxWorkers = fmt.Errorf("invalid max workers")
var ErrInvalidRunMaxItems = fmt.Errorf("invalid run max items")

func NewConfig(resyncFrequency time.Duration, maxWorkers, runMaxItems int) (*Config, error) {
	if resyncFrequency < 1*time.Millisecond {
		return nil, ErrInvalidResyncFrequency
	}
	if maxWorkers < 1 {
		return nil, ErrInvalidMaxWorkers
	}
	if runMaxItems < 1 {
		return nil, ErrInvalidRunMaxItems
	}
	return &Config{
		ResyncFrequency: resyncFrequency,
		MaxWorkers:      maxWorkers,
		RunMaxItems:     runMaxItems,
	}, nil
}

type Manager[T Key] struct {
	reconciler Reconciler[T]
	config     *Config
	context    context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	queue      *ReconcileQueue[T]
	tracer     trace.Tracer
	finishOnce sync.Once
}

func NewManager[T Key](ctx context.Context, cfg *Config, reconciler Reconciler[T]) *Manager[T] {
	if reconciler == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)

	tracer := otel.Tracer("reconciler_" + reconciler.Name())

	func() {
		ctx, span := startSpan(ctx, tracer, reconciler.Name()+".Reboot")
		defer span.End()

		reconciler.Reboot(ctx)
	}()

	return &Manager[T]{
		reconciler: reconciler,
		config:     cfg,
		context:    ctx,
		cancel:     cancel,
		queue:      NewReconcileQueue[T](),
		tracer:     tracer,
	}
}

func startSpan(ctx context.Context, tracer trace.Tracer, spanName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// Add queues an id for reconciliation outside of the resync cycle.
func (r *Manager[T]) Add(id T) bool {
	return r.queue.Add(id)
}

func (r *Manager[T]) Queue() *ReconcileQueue[T] {
	return r.queue
}

func (r *Manager[T]) resync() {
	ctx, span := startSpan(r.context, r.tracer, r.reconciler.Name()+".Resync")
	defer span.End()

	r.reconciler.Resync(ctx, r.queue)
}

func (r *Manager[T]) Start() {
	ticker := r.config.Ticker
	if ticker == nil {
		ticker = ltime.NewWallTicker(r.config.ResyncFrequency)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Close()

		r.resync()

		for {
			select {
			case <-ticker.Channel():
				r.resync()
			case <-r.context.Done():
				log.Printf("reconciler Resync %s shutting down", r.reconciler.Name())
				return
			}
		}
	}()

	r.wg.Add(r.config.MaxWorkers)
	for i := 0; i < r.config.MaxWorkers; i++ {
		go func() {
			defer r.wg.Done()

			for {
				select {
				case <-r.context.Done():
					log.Printf("reconciler Reconcile %s shutting down", r.reconciler.Name())
					return
				default:
					items := r.queue.Pop(r.config.RunMaxItems)
					if len(items) == 0 {
						continue
					}
					func() {
						ctx, span := startSpan(r.context, r.tracer, r.reconciler.Name()+".Reconcile")
						defer span.End()

						r.reconciler.Reconcile(ctx, items)
					}()
				}
			}
		}()
	}
}

// Finish cancels in-flight reconciles and waits for every worker to return.
func (r *Manager[T]) Finish() {
	r.finishOnce.Do(func() {
		r.cancel()
		r.queue.Close()
		r.wg.Wait()
	})
}
