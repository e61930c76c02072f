package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/cirovladimir/ral-color-mix/internal/kv"
	"github.com/cirovladimir/ral-color-mix/internal/mixes"
)

const emptyObject = "{}"

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run creates the draft and price-list entries if they do not exist yet.
// Existing entries are left untouched, so Run is safe on every start.
func Run(ctx context.Context, store kv.Store) (Stats, error) {
	stats := Stats{}

	for _, key := range []string{mixes.PointsKey, mixes.CostsKey, mixes.MixesKey} {
		if err := ensureEntry(ctx, store, key, &stats); err != nil {
			return Stats{}, err
		}
	}

	return stats, nil
}

func ensureEntry(ctx context.Context, store kv.Store, key string, stats *Stats) error {
	_, err := store.Get(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("check %s existence: %w", key, err)
	}

	if err := store.Set(ctx, key, emptyObject); err != nil {
		return fmt.Errorf("insert empty %s: %w", key, err)
	}
	stats.Inserts++
	return nil
}
