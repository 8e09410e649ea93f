package app

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

type CloseFunc func() error

func (instance *Instance) AddCloseFunc(fn CloseFunc) {
	instance.AddCloser(&closeWrapper{fn: fn})
}

type closeWrapper struct {
	fn CloseFunc
}

func (w *closeWrapper) Close() error {
	return w.fn()
}

func (instance *Instance) AddCloser(closer io.Closer) {
	instance.lock.Lock()
	defer instance.lock.Unlock()
	instance.closers = append(instance.closers, closer)
}

// Stop asks WaitForFinish to shut down. It is safe to call more than once.
func (instance *Instance) Stop(failed bool) {
	instance.lock.Lock()
	instance.failed = failed || instance.failed
	instance.lock.Unlock()
	instance.stopOnce.Do(func() {
		close(instance.stop)
	})
}

// Close cancels the root context and runs the closers in reverse registration order.
func (instance *Instance) Close() error {
	instance.cancel()

	instance.lock.Lock()
	closers := instance.closers
	instance.closers = nil
	instance.lock.Unlock()

	var result *multierror.Error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// WaitForFinish blocks until a termination signal or Stop, then closes everything.
func (instance *Instance) WaitForFinish() {
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigint)

	select {
	case sig := <-sigint:
		log.Printf("received %s, shutting down", sig)
	case <-instance.stop:
		log.Printf("stop requested, shutting down")
	}

	if err := instance.Close(); err != nil {
		log.Printf("failed to close: %s", err)
		instance.Stop(true)
	}

	if instance.Failed() {
		os.Exit(1)
	}
}
