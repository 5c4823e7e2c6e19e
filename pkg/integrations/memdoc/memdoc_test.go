package memdoc

import (
	"context"
	"testing"
	"time"

	"pixeltrader/pkg/types/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadEmpty(t *testing.T) {
	doc, err := New().Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestStore_SaveLoadAndWatch(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan remote.Document, 1)
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, func(d remote.Document) { got <- d }) }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.watchers) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Save(ctx, remote.Document{Version: 3, Origin: "a", Assets: []byte(`[]`)}))

	select {
	case d := <-got:
		assert.EqualValues(t, 3, d.Version)
	case <-time.After(time.Second):
		t.Fatal("watcher not notified")
	}

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Origin)
	assert.Equal(t, 1, s.Saves())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestStore_FailNext(t *testing.T) {
	s := New()
	s.FailNext(ErrSaveRejected)
	require.ErrorIs(t, s.Save(context.Background(), remote.Document{}), ErrSaveRejected)
	require.NoError(t, s.Save(context.Background(), remote.Document{}))
	assert.Equal(t, 1, s.Saves())
}

func TestStore_WatchDeliversCurrentDocument(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Save(ctx, remote.Document{Version: 7}))

	got := make(chan remote.Document, 1)
	go func() { _ = s.Watch(ctx, func(d remote.Document) { got <- d }) }()

	select {
	case d := <-got:
		assert.EqualValues(t, 7, d.Version)
	case <-time.After(time.Second):
		t.Fatal("current document not delivered")
	}
}
