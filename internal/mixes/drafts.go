package mixes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cirovladimir/ral-color-mix/internal/kv"
	"github.com/cirovladimir/ral-color-mix/internal/logger"
	"github.com/cirovladimir/ral-color-mix/internal/pricing"
)

const (
	// PointsKey holds the measurements being edited before they become a mix.
	PointsKey = "colorantPoints"
	// CostsKey holds the purchase price of each colorant.
	CostsKey = "colorantCosts"
)

// Costs maps colorant names to the unit cost text a user entered.
type Costs map[string]string

// DraftStore persists the working draft and the colorant price list.
type DraftStore struct {
	kv  kv.Store
	log *logger.Logger
}

func NewDraftStore(store kv.Store, log *logger.Logger) *DraftStore {
	if log == nil {
		log = logger.Nop()
	}
	return &DraftStore{kv: store, log: log}
}

func (d *DraftStore) LoadPoints(ctx context.Context) pricing.Measurements {
	points := pricing.Measurements{}
	if !d.load(ctx, PointsKey, &points) || points == nil {
		return pricing.Measurements{}
	}
	return points
}

func (d *DraftStore) SavePoints(ctx context.Context, points pricing.Measurements) error {
	return d.save(ctx, PointsKey, points)
}

func (d *DraftStore) LoadCosts(ctx context.Context) Costs {
	costs := Costs{}
	if !d.load(ctx, CostsKey, &costs) || costs == nil {
		return Costs{}
	}
	return costs
}

func (d *DraftStore) SaveCosts(ctx context.Context, costs Costs) error {
	return d.save(ctx, CostsKey, costs)
}

func (d *DraftStore) load(ctx context.Context, key string, dest any) bool {
	raw, err := d.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false
	}
	if err != nil {
		d.log.Warn(d.log.WithField(ctx, "key", key), "drafts.load_failed", err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		d.log.Warn(d.log.WithField(ctx, "key", key), "drafts.decode_failed", err)
		return false
	}
	return true
}

func (d *DraftStore) save(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersist, key, err)
	}
	if err := d.kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersist, key, err)
	}
	return nil
}

// MergeCosts copies points and sets each entry's unit cost from costs.
// Colorants without a price get an empty unit cost.
func MergeCosts(points pricing.Measurements, costs Costs) pricing.Measurements {
	merged := make(pricing.Measurements, len(points))
	for name, m := range points {
		m.UnitCost = costs[name]
		merged[name] = m
	}
	return merged
}
