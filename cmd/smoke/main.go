package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/stride/internal/smoke"
	"github.com/okian/stride/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumRequests = 200
	defaultTimeout     = 60 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8000", "Base URL of the service")
		numRequests = flag.Int("requests", defaultNumRequests, "Number of randomized requests to send")
		workers     = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL:     *baseURL,
		NumRequests: *numRequests,
		Workers:     *workers,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}

	if err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("smoke run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
