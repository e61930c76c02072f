// Package kv holds the key-value stores that persist drafts and saved mixes.
//
// Every backend stores opaque string values under string keys. Callers own
// the encoding of the value.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing has been stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store reads and writes string values by key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
