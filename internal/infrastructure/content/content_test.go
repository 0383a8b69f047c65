package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"glassbird/internal/domain"
	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFetcher(t *testing.T) {
	fetcher := NewFileFetcher(fstest.MapFS{
		"python/1-1.html": {Data: []byte("<h2>Intro</h2>")},
	})
	ctx := context.Background()

	got, err := fetcher.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "python/1-1.html"})
	require.NoError(t, err)
	assert.Equal(t, domain.ContentMarkup, got.Type)
	assert.Equal(t, "<h2>Intro</h2>", got.Text)

	_, err = fetcher.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "../etc/passwd"})
	assert.ErrorIs(t, err, domain.ErrContentResolution)

	_, err = fetcher.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "python/missing.html"})
	assert.ErrorIs(t, err, domain.ErrContentResolution)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/lessons/python/1-1.html" {
			_, _ = w.Write([]byte("<p>remote</p>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fetcher, err := NewHTTPFetcher(srv.URL+"/lessons", time.Second)
	require.NoError(t, err)
	ctx := context.Background()

	got, err := fetcher.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "python/1-1.html"})
	require.NoError(t, err)
	assert.Equal(t, "<p>remote</p>", got.Text)

	_, err = fetcher.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "python/404.html"})
	assert.ErrorIs(t, err, domain.ErrContentResolution)

	_, err = fetcher.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "http://evil.example/x"})
	assert.ErrorIs(t, err, domain.ErrContentResolution)
}

func TestRegistryAndComposite(t *testing.T) {
	ctx := context.Background()
	registry := NewBuiltinRegistry()
	composite := NewComposite(NewFileFetcher(BundledMarkup()), registry)

	assert.Equal(t, []string{"integer-basics"}, registry.IDs())

	got, err := composite.Resolve(ctx, domain.ContentRef{Kind: domain.KindStructured, Location: "integer-basics"})
	require.NoError(t, err)
	assert.Equal(t, domain.ContentStructured, got.Type)
	assert.Equal(t, IntegerBasics.Title, got.Title)

	got, err = composite.Resolve(ctx, domain.ContentRef{Kind: domain.KindMarkup, Location: "python/1-2.html"})
	require.NoError(t, err)
	assert.Contains(t, got.Text, "Installing Python")

	_, err = composite.Resolve(ctx, domain.ContentRef{Kind: domain.KindStructured, Location: "nope"})
	assert.ErrorIs(t, err, domain.ErrContentResolution)

	_, err = composite.Resolve(ctx, domain.ContentRef{Kind: "video", Location: "x"})
	assert.ErrorIs(t, err, domain.ErrContentResolution)
}

type countingResolver struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (r *countingResolver) Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return domain.Content{}, r.err
	}
	return domain.Content{Type: domain.ContentMarkup, Text: ref.Location}, nil
}

func TestCachedDedupesAndCaches(t *testing.T) {
	upstream := &countingResolver{release: make(chan struct{})}
	cached := NewCached(upstream, cache.NewContentCache(cache.NewMemoryKV(), time.Minute), logger.Nop())
	ref := domain.ContentRef{Kind: domain.KindMarkup, Location: "python/1-1.html"}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cached.Resolve(context.Background(), ref)
			assert.NoError(t, err)
			assert.Equal(t, "python/1-1.html", got.Text)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(upstream.release)
	wg.Wait()

	_, err := cached.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.LessOrEqual(t, upstream.calls.Load(), int32(5))
	calls := upstream.calls.Load()

	_, err = cached.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, calls, upstream.calls.Load())
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	upstream := &countingResolver{err: errors.New("boom")}
	cached := NewCached(upstream, cache.NewContentCache(cache.NewMemoryKV(), time.Minute), logger.Nop())
	ref := domain.ContentRef{Kind: domain.KindMarkup, Location: "x"}

	_, err := cached.Resolve(context.Background(), ref)
	assert.Error(t, err)
	_, err = cached.Resolve(context.Background(), ref)
	assert.Error(t, err)
	assert.Equal(t, int32(2), upstream.calls.Load())
}

type ctxResolver struct {
	calls   atomic.Int32
	release chan struct{}
}

func (r *ctxResolver) Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	r.calls.Add(1)
	select {
	case <-ctx.Done():
		return domain.Content{}, ctx.Err()
	case <-r.release:
		return domain.Content{Type: domain.ContentMarkup, Text: ref.Location}, nil
	}
}

func TestCachedSharedFetchSurvivesCallerCancel(t *testing.T) {
	upstream := &ctxResolver{release: make(chan struct{})}
	cached := NewCached(upstream, cache.NewContentCache(cache.NewMemoryKV(), time.Minute), logger.Nop())
	ref := domain.ContentRef{Kind: domain.KindMarkup, Location: "python/1-2.html"}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cached.Resolve(ctxA, ref)
		errA <- err
	}()
	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 }, time.Second, time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	type result struct {
		got domain.Content
		err error
	}
	resB := make(chan result, 1)
	go func() {
		got, err := cached.Resolve(context.Background(), ref)
		resB <- result{got, err}
	}()
	time.Sleep(20 * time.Millisecond)
	close(upstream.release)

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "python/1-2.html", b.got.Text)
	assert.Equal(t, int32(1), upstream.calls.Load())
}
