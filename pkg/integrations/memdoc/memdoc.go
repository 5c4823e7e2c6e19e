// Package memdoc is an in-process remote document slot. It stands in for
// the bucket store when none is configured and backs the sync tests.
package memdoc

import (
	"context"
	"sync"

	"pixeltrader/pkg/types/remote"

	"github.com/pkg/errors"
)

var ErrSaveRejected = errors.New("save rejected")

var _ remote.RemoteStore = (*Store)(nil)

const watchBuffer = 16

type Store struct {
	mu       sync.Mutex
	doc      *remote.Document
	watchers map[int]chan remote.Document
	nextID   int
	saves    int
	failNext error
}

func New() *Store {
	return &Store{watchers: make(map[int]chan remote.Document)}
}

func (s *Store) Load(ctx context.Context) (*remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, nil
	}
	doc := *s.doc
	return &doc, nil
}

// Save stores doc and queues it for every watcher, including the writer's
// own, the same way a shared remote echoes writes back.
func (s *Store) Save(ctx context.Context, doc remote.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}

	s.doc = &doc
	s.saves++
	for _, ch := range s.watchers {
		select {
		case ch <- doc:
		default:
		}
	}
	return nil
}

// Put stores doc as if another device wrote it.
func (s *Store) Put(ctx context.Context, doc remote.Document) error {
	return s.Save(ctx, doc)
}

// FailNext makes the next Save return err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// Saves counts successful saves.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Watch delivers the current document, if any, and then every later save.
func (s *Store) Watch(ctx context.Context, fn func(remote.Document)) error {
	ch := make(chan remote.Document, watchBuffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	if s.doc != nil {
		ch <- *s.doc
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case doc := <-ch:
			fn(doc)
		}
	}
}
