package sbhttpserver

import (
	"context"
)

// NopServer is always ready and serves nothing beyond the status endpoints
type NopServer struct{}

func (NopServer) Ready(context.Context) error      { return nil }
func (NopServer) Live(context.Context) error       { return nil }
func (NopServer) Shutdown() error                  { return nil }
func (NopServer) GetHandlers() []HandleDescription { return nil }

var _ Server = NopServer{}
