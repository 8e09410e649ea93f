package sbhttpserver

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Serve starts listening and registers the graceful shutdown with the app
func (b *Instance) Serve() error {
	// Register all the known handlers
	b.registerProfileHandlers()

	listener, err := net.Listen("tcp", b.server.Addr)
	if err != nil {
		return errors.WithStack(err)
	}

	// Shut server down
	var wg sync.WaitGroup
	wg.Add(1)
	b.app.AddCloseFunc(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), b.config.ShutdownTimeout)
		defer cancel()
		err := b.server.Shutdown(ctx)
		wg.Wait()
		return err
	})

	log.Printf("serving at %s", listener.Addr())
	go func() {
		defer wg.Done()
		err := b.server.Serve(listener)

		if err != http.ErrServerClosed {
			log.Printf("failed to run server: %s", err)
			b.app.Stop(true)
		}
	}()

	return nil
}
