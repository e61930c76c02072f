package mixes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cirovladimir/ral-color-mix/internal/kv"
	"github.com/cirovladimir/ral-color-mix/internal/logger"
)

// MixesKey is the key-value entry holding every saved mix.
const MixesKey = "ralColorMixes"

// ErrPersist marks failures to write mixes. They are safe to retry.
var ErrPersist = errors.New("persist mixes")

var errCorrupt = errors.New("stored mixes are unreadable")

// Store persists mixes keyed by id.
type Store interface {
	// LoadAll returns every saved mix. Missing or unreadable data yields an
	// empty map.
	LoadAll(ctx context.Context) map[string]Mix
	// Save inserts or replaces the whole record at mix.ID.
	Save(ctx context.Context, mix Mix) error
	Get(ctx context.Context, id string) (Mix, bool)
}

// KVStore keeps all mixes as one JSON object under MixesKey. Saves are
// serialised so concurrent callers never drop each other's records.
type KVStore struct {
	kv  kv.Store
	log *logger.Logger

	mu sync.Mutex
}

func NewKVStore(store kv.Store, log *logger.Logger) *KVStore {
	if log == nil {
		log = logger.Nop()
	}
	return &KVStore{kv: store, log: log}
}

// LoadAll skips records that cannot be decoded; they stay in storage.
func (s *KVStore) LoadAll(ctx context.Context) map[string]Mix {
	snap, err := s.read(ctx)
	if err != nil {
		s.log.Warn(ctx, "mixes.load_failed", err)
		return map[string]Mix{}
	}
	return snap.mixes
}

func (s *KVStore) Get(ctx context.Context, id string) (Mix, bool) {
	mix, ok := s.LoadAll(ctx)[id]
	return mix, ok
}

func (s *KVStore) Save(ctx context.Context, mix Mix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read(ctx)
	if err != nil {
		if !errors.Is(err, errCorrupt) {
			return fmt.Errorf("%w: read mixes before saving %q: %w", ErrPersist, mix.ID, err)
		}
		s.log.Warn(ctx, "mixes.corrupt_overwritten", err)
		snap = stored{mixes: map[string]Mix{}}
	}

	snap.mixes[mix.ID] = mix.Clone()
	delete(snap.unreadable, mix.ID)

	payload, err := snap.encode()
	if err != nil {
		return fmt.Errorf("%w: encode mixes: %w", ErrPersist, err)
	}
	if err := s.kv.Set(ctx, MixesKey, string(payload)); err != nil {
		return fmt.Errorf("%w: write mix %q: %w", ErrPersist, mix.ID, err)
	}

	s.log.Info(s.log.WithMixID(ctx, mix.ID), "mixes.saved")
	return nil
}

// stored is the decoded mapping. Records that failed to decode are kept
// verbatim in unreadable and written back untouched.
type stored struct {
	mixes      map[string]Mix
	unreadable map[string]json.RawMessage
}

func (st stored) encode() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(st.mixes)+len(st.unreadable))
	for id, raw := range st.unreadable {
		out[id] = raw
	}
	for id, mix := range st.mixes {
		raw, err := json.Marshal(mix)
		if err != nil {
			return nil, fmt.Errorf("encode mix %q: %w", id, err)
		}
		out[id] = raw
	}
	return json.Marshal(out)
}

// read returns kv.ErrNotFound as an empty mapping and any other backend
// failure as-is. A value that is not a JSON object wraps errCorrupt.
func (s *KVStore) read(ctx context.Context) (stored, error) {
	snap := stored{mixes: map[string]Mix{}, unreadable: map[string]json.RawMessage{}}

	raw, err := s.kv.Get(ctx, MixesKey)
	if errors.Is(err, kv.ErrNotFound) {
		return snap, nil
	}
	if err != nil {
		return stored{}, err
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return stored{}, fmt.Errorf("%w: %w", errCorrupt, err)
	}

	for id, entry := range entries {
		var mix Mix
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			snap.unreadable[id] = entry
			continue
		}
		if err := json.Unmarshal(entry, &mix); err != nil {
			s.log.Warn(s.log.WithMixID(ctx, id), "mixes.record_skipped", err)
			snap.unreadable[id] = entry
			continue
		}
		if mix.ID == "" {
			mix.ID = id
		}
		snap.mixes[id] = mix
	}
	return snap, nil
}

// Sorted returns the mixes newest first, then by id.
func Sorted(mixes map[string]Mix) []Mix {
	out := make([]Mix, 0, len(mixes))
	for _, mix := range mixes {
		out = append(out, mix)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
