package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/stride/internal/scrape"
	"github.com/okian/stride/pkg/logger"
)

const defaultListingURL = "https://www.roadrunnersports.com/category/mens/shoes/running"

func main() {
	url := flag.String("url", defaultListingURL, "listing URL to crawl")
	out := flag.String("out", "catalog.json", "output JSON path")
	maxProducts := flag.Int("max-products", 0, "limit number of products (0 = no limit)")
	concurrency := flag.Int("concurrency", 4, "parallel product page fetches")
	throttle := flag.Duration("throttle", 600*time.Millisecond, "delay between product pages per worker")
	retries := flag.Int("retries", 3, "retries per failed page load")
	timeout := flag.Duration("timeout", 30*time.Second, "per-request timeout")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := scrape.New(
		scrape.WithFetcher(scrape.NewFetcher(*timeout, *retries)),
		scrape.WithConcurrency(*concurrency),
		scrape.WithMaxProducts(*maxProducts),
		scrape.WithThrottle(*throttle),
	)

	log.Info(ctx, "starting catalog scrape", logger.String("url", *url))

	shoes, err := s.Run(ctx, *url)
	if err != nil {
		log.Error(ctx, "scrape failed", logger.Error(err))
		os.Exit(1)
	}

	if err := scrape.WriteCatalog(*out, shoes); err != nil {
		log.Error(ctx, "failed to write catalog", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "catalog written",
		logger.String("path", *out),
		logger.Int("records", len(shoes)),
	)
}
