package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangatrack/pkg/models"
)

func pageOf(n, count int, hasMore bool) Page {
	items := make([]models.SeriesItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, models.SeriesItem{
			ID:    fmt.Sprintf("p%d-%d", n, i),
			Title: fmt.Sprintf("Series %d-%d", n, i),
		})
	}
	return Page{Items: items, HasMore: hasMore}
}

func TestFeedFirstLoad(t *testing.T) {
	var pages []int
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		pages = append(pages, page)
		return pageOf(page, 3, true), nil
	}, 3)

	assert.Equal(t, FeedIdle, feed.State())

	require.True(t, feed.Poke(context.Background()))
	assert.Equal(t, FeedIdle, feed.State())
	assert.Equal(t, 3, feed.Len())
	assert.Equal(t, []int{1}, pages)
	assert.True(t, feed.HasMore())
}

func TestFeedAppendOnlyAndIncreasingPages(t *testing.T) {
	var pages []int
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		pages = append(pages, page)
		return pageOf(page, 2, page < 3), nil
	}, 2)

	ctx := context.Background()
	require.True(t, feed.LoadMore(ctx))
	require.True(t, feed.LoadMore(ctx))
	require.True(t, feed.LoadMore(ctx))

	assert.Equal(t, []int{1, 2, 3}, pages)
	items := feed.Items()
	require.Len(t, items, 6)
	// earlier pages stay in place as later ones append
	assert.Equal(t, "p1-0", items[0].ID)
	assert.Equal(t, "p3-1", items[5].ID)

	assert.Equal(t, FeedExhausted, feed.State())
	assert.False(t, feed.HasMore())

	// exhausted feeds swallow further triggers
	assert.False(t, feed.LoadMore(ctx))
	assert.False(t, feed.Poke(ctx))
	assert.Equal(t, []int{1, 2, 3}, pages)
}

func TestFeedSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		close(started)
		<-release
		return pageOf(page, 1, true), nil
	}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.True(t, feed.LoadMore(context.Background()))
	}()

	<-started
	assert.Equal(t, FeedLoading, feed.State())
	// a trigger during an in-flight load is swallowed, not queued
	assert.False(t, feed.LoadMore(context.Background()))
	assert.False(t, feed.Poke(context.Background()))

	close(release)
	wg.Wait()
	assert.Equal(t, 1, feed.Len())
}

func TestFeedErrorPreservesItemsAndRetries(t *testing.T) {
	fail := false
	var pages []int
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		pages = append(pages, page)
		if fail {
			return Page{}, errors.New("upstream down")
		}
		return pageOf(page, 2, true), nil
	}, 2)

	ctx := context.Background()
	require.True(t, feed.LoadMore(ctx))
	require.Equal(t, 2, feed.Len())

	fail = true
	require.True(t, feed.LoadMore(ctx))
	assert.Equal(t, FeedError, feed.State())
	require.Error(t, feed.Err())
	// the page that failed never merged, the first page survived
	assert.Equal(t, 2, feed.Len())

	// sentinel trigger never auto-retries out of an error
	assert.False(t, feed.Poke(ctx))
	assert.Equal(t, []int{1, 2}, pages)

	// an explicit retry re-requests the same failed page
	fail = false
	require.True(t, feed.LoadMore(ctx))
	assert.Equal(t, []int{1, 2, 2}, pages)
	assert.Equal(t, 4, feed.Len())
	assert.Equal(t, FeedIdle, feed.State())
	assert.NoError(t, feed.Err())
}

func TestFeedReset(t *testing.T) {
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		return pageOf(page, 2, true), nil
	}, 2)

	ctx := context.Background()
	require.True(t, feed.LoadMore(ctx))
	require.Equal(t, 2, feed.Len())

	feed.Reset()
	assert.Equal(t, 0, feed.Len())
	assert.Equal(t, FeedIdle, feed.State())
	assert.True(t, feed.HasMore())
}

func TestFeedResetDiscardsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		close(started)
		<-release
		return pageOf(page, 5, true), nil
	}, 5)

	done := make(chan bool, 1)
	go func() {
		done <- feed.LoadMore(context.Background())
	}()

	<-started
	feed.Reset()
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("LoadMore did not settle")
	}

	// the pre-Reset response belongs to a dead identity
	assert.Equal(t, 0, feed.Len())
	assert.Equal(t, FeedIdle, feed.State())

	// the next load starts over from page one
	var gotPage int
	fresh := func(ctx context.Context, page, limit int) (Page, error) {
		gotPage = page
		return pageOf(page, 1, false), nil
	}
	feed2 := NewFeed(fresh, 1)
	require.True(t, feed2.LoadMore(context.Background()))
	assert.Equal(t, 1, gotPage)
}

func TestFeedEmptyFinalPage(t *testing.T) {
	feed := NewFeed(func(ctx context.Context, page, limit int) (Page, error) {
		return Page{Items: nil, HasMore: false}, nil
	}, 10)

	require.True(t, feed.LoadMore(context.Background()))
	assert.Equal(t, FeedExhausted, feed.State())
	assert.Equal(t, 0, feed.Len())
}

func TestFeedStateString(t *testing.T) {
	assert.Equal(t, "idle", FeedIdle.String())
	assert.Equal(t, "loading", FeedLoading.String())
	assert.Equal(t, "exhausted", FeedExhausted.String())
	assert.Equal(t, "error", FeedError.String())
}
