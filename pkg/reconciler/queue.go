package reconciler

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

type Key interface {
	int64 | uint64 | string
}

// ReconcileQueue hands out ids in the order they were added. An id that is pending is not
// added again; an id added while it is being reconciled is queued once its callback runs.
type ReconcileQueue[T Key] struct {
	order    []T
	pending  map[T]struct{}
	running  map[T]struct{}
	requeue  map[T]struct{}
	wakeup   chan struct{}
	shutdown chan struct{}
	closed   bool
	lock     sync.Mutex
}

type ReconcileItemCallback func(error)

type ReconcileItem[T Key] struct {
	ID       T
	Callback ReconcileItemCallback
}

func NewReconcileQueue[T Key]() *ReconcileQueue[T] {
	return &ReconcileQueue[T]{
		pending:  make(map[T]struct{}),
		running:  make(map[T]struct{}),
		requeue:  make(map[T]struct{}),
		wakeup:   make(chan struct{}, 1),
		shutdown: make(chan struct{}),
	}
}

func (q *ReconcileQueue[T]) signal() {
	select {
	case q.wakeup <- struct{}{}:
	default:
	}
}

// Add reports whether the id was queued, either now or for when its current run finishes.
func (q *ReconcileQueue[T]) Add(id T) bool {
	// Moves nil -> pending, running -> running + requeue
	q.lock.Lock()
	defer q.lock.Unlock()
	if _, ok := q.pending[id]; ok {
		return false
	}
	if _, ok := q.running[id]; ok {
		if _, ok := q.requeue[id]; ok {
			return false
		}
		q.requeue[id] = struct{}{}
		return true
	}
	q.push(id)
	return true
}

func (q *ReconcileQueue[T]) push(id T) {
	q.pending[id] = struct{}{}
	q.order = append(q.order, id)
	q.signal()
}

// Contains reports whether the id is pending or running.
func (q *ReconcileQueue[T]) Contains(id T) bool {
	q.lock.Lock()
	defer q.lock.Unlock()
	_, pending := q.pending[id]
	_, running := q.running[id]
	return pending || running
}

func (q *ReconcileQueue[T]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.order)
}

// Pop blocks until up to max items are available. It returns nothing once the queue is closed.
func (q *ReconcileQueue[T]) Pop(max int) []ReconcileItem[T] {
	// Moves pending -> running
	for {
		q.lock.Lock()
		if q.closed {
			q.lock.Unlock()
			return nil
		}
		ret := make([]ReconcileItem[T], 0)
		for len(q.order) > 0 && len(ret) < max {
			id := q.order[0]
			q.order = q.order[1:]
			delete(q.pending, id)
			q.running[id] = struct{}{}
			ret = append(ret, ReconcileItem[T]{
				ID:       id,
				Callback: q.getCallback(id),
			})
		}
		if len(q.order) > 0 {
			// let another worker pick up the rest
			q.signal()
		}
		q.lock.Unlock()

		if len(ret) > 0 {
			return ret
		}

		select {
		case <-q.wakeup:
		case <-q.shutdown:
			return nil
		}
	}
}

// Close releases every blocked Pop. Pending ids are dropped.
func (q *ReconcileQueue[T]) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.shutdown)
}

func (q *ReconcileQueue[T]) getCallback(id T) ReconcileItemCallback {
	// Moves running -> nil, or running + requeue -> pending
	var once sync.Once
	return func(err error) {
		once.Do(func() {
			q.lock.Lock()
			defer q.lock.Unlock()
			delete(q.running, id)
			if err != nil {
				log.Debugf("reconcile of %v finished with error: %s", id, err)
			}
			if _, ok := q.requeue[id]; ok {
				delete(q.requeue, id)
				if !q.closed {
					q.push(id)
				}
			}
		})
	}
}
