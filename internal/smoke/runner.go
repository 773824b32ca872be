package smoke

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/stride/pkg/logger"
)

// Run executes the smoke test against a running server. It fetches the
// catalog summary, fans randomized recommendation requests out over a
// worker pool, verifies every response, and reports aggregate statistics.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get().Named("smoke")
	stats := Stats{StartTime: time.Now()}

	client := newHTTPClient(config.Timeout)

	var summary catalogSummary
	if err := client.getJSON(ctx, config.BaseURL+"/catalog", &summary); err != nil {
		return fmt.Errorf("failed to fetch catalog summary: %w", err)
	}
	if summary.Count == 0 {
		return fmt.Errorf("server reports an empty catalog")
	}
	log.Info(ctx, "catalog loaded",
		logger.Int("count", summary.Count),
		logger.Int("brands", len(summary.Brands)),
	)

	var (
		sent     int64
		ok       int64
		failed   int64
		empty    int64
		contract int64
	)

	requests := make(chan recommendRequest, config.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range requests {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&sent, 1)
				wasEmpty, err := runOne(ctx, client, config, req)
				if wasEmpty {
					atomic.AddInt64(&empty, 1)
				}
				if err != nil {
					switch {
					case isContractError(err):
						atomic.AddInt64(&contract, 1)
						log.Error(ctx, "contract violation",
							logger.String("request", describeRequest(req)),
							logger.Error(err),
						)
					default:
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Warn(ctx, "request failed",
								logger.String("request", describeRequest(req)),
								logger.Error(err),
							)
						}
					}
					continue
				}
				atomic.AddInt64(&ok, 1)
			}
		}()
	}

	go func() {
		defer close(requests)
		for i := 0; i < config.NumRequests; i++ {
			select {
			case <-ctx.Done():
				return
			case requests <- generateRequest(summary.Brands):
			}
		}
	}()

	wg.Wait()

	stats.RequestsSent = int(atomic.LoadInt64(&sent))
	stats.RequestsOK = int(atomic.LoadInt64(&ok))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.EmptyResults = int(atomic.LoadInt64(&empty))
	stats.ContractFailures = int(atomic.LoadInt64(&contract))
	stats.Duration = time.Since(stats.StartTime)

	log.Info(ctx, "smoke run complete",
		logger.Int("sent", stats.RequestsSent),
		logger.Int("ok", stats.RequestsOK),
		logger.Int("failed", stats.RequestsFailed),
		logger.Int("empty", stats.EmptyResults),
		logger.Int("contract_failures", stats.ContractFailures),
		logger.Duration("duration", stats.Duration),
	)

	if stats.ContractFailures > 0 {
		return fmt.Errorf("%d responses violated the recommendation contract", stats.ContractFailures)
	}
	if stats.RequestsOK == 0 {
		return fmt.Errorf("no request succeeded")
	}
	return nil
}

// contractError marks a verification failure as opposed to a transport
// failure; transport flakes are tolerated, contract violations are not.
type contractError struct{ err error }

func (e contractError) Error() string { return e.err.Error() }
func (e contractError) Unwrap() error { return e.err }

func isContractError(err error) bool {
	_, ok := err.(contractError)
	return ok
}

// runOne sends a single request, verifies the response, then repeats the
// request to confirm the ranking is deterministic. It reports whether the
// server matched nothing, which is allowed but tracked.
func runOne(ctx context.Context, client *httpClient, config *Config, req recommendRequest) (bool, error) {
	url := config.BaseURL + "/recommend"

	var first recommendResponse
	if err := client.postJSON(ctx, url, req, &first); err != nil {
		return false, err
	}
	wasEmpty := len(first.Results) == 0
	if err := verifyResponse(req, first); err != nil {
		return wasEmpty, contractError{err}
	}

	var second recommendResponse
	if err := client.postJSON(ctx, url, req, &second); err != nil {
		return wasEmpty, err
	}
	if err := verifyDeterminism(first, second); err != nil {
		return wasEmpty, contractError{err}
	}
	return wasEmpty, nil
}
