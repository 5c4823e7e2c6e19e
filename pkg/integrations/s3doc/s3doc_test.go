package s3doc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"pixeltrader/pkg/types/remote"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	etags   map[string]int
	gets    int
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, etags: map[string]int{}}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[k] = body
	f.etags[k]++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	if _, ok := f.objects[k]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{ETag: aws.String(fmt.Sprintf(`"%d"`, f.etags[k]))}, nil
}

func (f *fakeObjects) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func newStore(t *testing.T, objects *fakeObjects) *Store {
	t.Helper()
	s, err := New(WithClient(objects), WithBucket("backups"), WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	objects := newFakeObjects()
	tests := []struct {
		name string
		opts []Option
	}{
		{"missing client", []Option{WithBucket("b")}},
		{"missing bucket", []Option{WithClient(objects)}},
		{"empty key", []Option{WithClient(objects), WithBucket("b"), WithKey("")}},
		{"zero poll interval", []Option{WithClient(objects), WithBucket("b"), WithPollInterval(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			require.ErrorIs(t, err, ErrInvalidStoreConfig)
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	doc, err := newStore(t, newFakeObjects()).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestStore_SaveAndLoad(t *testing.T) {
	objects := newFakeObjects()
	s := newStore(t, objects)

	in := remote.Document{
		Assets:      []byte(`[{"id":"a","symbol":"BTC","transactions":[]}]`),
		Version:     4,
		Origin:      "device-a",
		LastUpdated: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Save(context.Background(), in))
	assert.Contains(t, objects.objects, "backups/"+DefaultKey)

	out, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.EqualValues(t, 4, out.Version)
	assert.Equal(t, "device-a", out.Origin)
	assert.JSONEq(t, string(in.Assets), string(out.Assets))
	assert.True(t, in.LastUpdated.Equal(out.LastUpdated))
}

func TestStore_WatchDeliversOnETagChange(t *testing.T) {
	objects := newFakeObjects()
	s := newStore(t, objects)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Save(ctx, remote.Document{Assets: []byte(`[]`), Version: 1}))

	got := make(chan remote.Document, 8)
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, func(d remote.Document) { got <- d }) }()

	select {
	case d := <-got:
		assert.EqualValues(t, 1, d.Version)
	case <-time.After(time.Second):
		t.Fatal("current document not delivered")
	}

	// unchanged etag: no further downloads
	gets := objects.getCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, gets, objects.getCount())

	require.NoError(t, s.Save(ctx, remote.Document{Assets: []byte(`[]`), Version: 2}))
	select {
	case d := <-got:
		assert.EqualValues(t, 2, d.Version)
	case <-time.After(time.Second):
		t.Fatal("change not delivered")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
