package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/pkg/logger"
)

// loadFile reads, parses, and validates the catalog file. Records that
// fail validation are skipped with a warning rather than coerced; the
// load fails only when nothing valid remains.
func loadFile(ctx context.Context, path string, log logger.Logger) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCatalog, err)
	}

	var raw []model.Shoe
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCatalog, err)
	}

	shoes := make([]model.Shoe, 0, len(raw))
	for i, shoe := range raw {
		if err := shoe.Validate(); err != nil {
			log.Warn(ctx, "skipping invalid catalog record",
				logger.Int("index", i),
				logger.Error(err),
			)
			continue
		}
		shoes = append(shoes, shoe)
	}

	if len(shoes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, path)
	}

	return &Snapshot{shoes: shoes, loadedAt: time.Now()}, nil
}
