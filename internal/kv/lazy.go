package kv

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errClosed = errors.New("kv: store closed")

const openTimeout = 15 * time.Second

// Opener builds the backing store. The returned close func may be nil.
type Opener func(ctx context.Context) (Store, func() error, error)

// Lazy opens its backing store on first access and reuses it afterwards.
// Only a successful open is kept; a failed open is retried on the next call.
type Lazy struct {
	open Opener

	mu      sync.Mutex
	store   Store
	closeFn func() error
	closed  bool
}

func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

// resolve opens with a context that ignores the caller's cancellation.
func (l *Lazy) resolve(ctx context.Context) (Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, errClosed
	}
	if l.store != nil {
		return l.store, nil
	}

	openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), openTimeout)
	defer cancel()

	store, closeFn, err := l.open(openCtx)
	if err != nil {
		return nil, err
	}
	l.store, l.closeFn = store, closeFn
	return store, nil
}

func (l *Lazy) Get(ctx context.Context, key string) (string, error) {
	store, err := l.resolve(ctx)
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key)
}

func (l *Lazy) Set(ctx context.Context, key, value string) error {
	store, err := l.resolve(ctx)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value)
}

// Close closes the backing store if it was ever opened. Later calls fail.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	if l.store == nil || l.closeFn == nil {
		return nil
	}
	return l.closeFn()
}
