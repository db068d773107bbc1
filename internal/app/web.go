package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/atomicstack/caption-pair-manager/internal/command"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/web"
)

// RunWeb serves the browser surface until ctx ends. ready is called with the
// page URL once the listener is open.
func RunWeb(ctx context.Context, cfg Config, ready func(url string)) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	url := "http://" + ln.Addr().String() + "/"

	core, err := NewCore(cfg, CoreOptions{Rewriter: web.ImageURL, OpenHint: url})
	if err != nil {
		ln.Close()
		return err
	}
	srv, err := web.NewServer(web.Config{Addr: ln.Addr().String(), Root: core.Root()}, core.Bridge(), core.Commands())
	if err != nil {
		ln.Close()
		return err
	}
	if err := core.Start(); err != nil {
		ln.Close()
		return err
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.Serve(ln)
	}()

	logging.Infof("serving %s at %s", core.Root(), url)
	if ready != nil {
		ready(url)
	}
	if err := core.Commands().Execute(ctx, command.Request{ID: command.Open}); err != nil {
		logging.Error(err)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown: %w", err))
	}
	return errors.Join(runErr, core.Stop(shutdownCtx))
}
