package app

import (
	"context"
	"io"
	"sync"
)

// Instance owns the process lifecycle: a root context cancelled on shutdown and the closers
// that release resources once it is.
type Instance struct {
	lock     sync.Mutex
	closers  []io.Closer
	failed   bool
	stop     chan struct{}
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewInstance() *Instance {
	ctx, cancel := context.WithCancel(context.Background())
	return &Instance{
		stop:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (instance *Instance) Context() context.Context {
	return instance.ctx
}

func ContextFromInstance(instance *Instance) context.Context {
	return instance.ctx
}

func (instance *Instance) Failed() bool {
	instance.lock.Lock()
	defer instance.lock.Unlock()
	return instance.failed
}
