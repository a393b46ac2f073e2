// Package health serves the liveness endpoint polled by the hosting platform.
package health

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	addr   string
	server *fasthttp.Server
}

func NewServer(port int) *Server {
	server := &Server{addr: ":" + strconv.Itoa(port)}
	server.server = &fasthttp.Server{
		Handler:      server.handle,
		Name:         "bedwarslb",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return server
}

func (server *Server) handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/", "/healthz":
		if !ctx.IsGet() && !ctx.IsHead() {
			ctx.Error(fasthttp.StatusMessage(fasthttp.StatusMethodNotAllowed), fasthttp.StatusMethodNotAllowed)
			return
		}
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("OK")
	default:
		ctx.NotFound()
	}
}

// Listen on the configured port until the context is done
func (server *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", server.addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", server.addr)
	}
	log.Info().Str("addr", server.addr).Msg("Health server listening")
	return server.Serve(ctx, listener)
}

// Serve on the provided listener until the context is done
func (server *Server) Serve(ctx context.Context, listener net.Listener) error {
	served := make(chan error, 1)
	go func() { served <- server.server.Serve(listener) }()

	select {
	case err := <-served:
		return errors.Wrap(err, "health server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.server.ShutdownWithContext(shutdownCtx); err != nil {
		return errors.Wrap(err, "shut down health server")
	}
	log.Info().Msg("Health server stopped")
	return nil
}
