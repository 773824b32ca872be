package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/stride/internal/web"
	"github.com/okian/stride/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 120 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	apiTimeout        = 90 * time.Second
)

func main() {
	addr := flag.String("addr", ":3000", "listen address for the web frontend")
	apiURL := flag.String("api", "http://localhost:8000", "base URL of the recommendation API")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := web.NewServer(*apiURL, apiTimeout, log)
	if err != nil {
		os.Stderr.WriteString("failed to create web server: " + err.Error() + "\n")
		return
	}

	mux := http.NewServeMux()
	srv.Register(ctx, mux)

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting web frontend", logger.String("addr", *addr), logger.String("api", *apiURL))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("web server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down web frontend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "web shutdown failed", logger.Error(err))
	}
}
