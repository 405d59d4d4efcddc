package discovery

import (
	"context"
	"sync"

	"mangatrack/pkg/models"
)

// FeedState is the pager's lifecycle state. Loading is a mutual
// exclusion gate, not a queue: a trigger that arrives while a load is
// in flight is swallowed.
type FeedState int

const (
	FeedIdle FeedState = iota
	FeedLoading
	FeedExhausted
	FeedError
)

func (s FeedState) String() string {
	switch s {
	case FeedIdle:
		return "idle"
	case FeedLoading:
		return "loading"
	case FeedExhausted:
		return "exhausted"
	case FeedError:
		return "error"
	default:
		return "unknown"
	}
}

// Page is one page of results from a paginated listing endpoint.
type Page struct {
	Items   []models.SeriesItem
	HasMore bool
}

// FetchFunc fetches one page. Unlike connectors, it returns errors:
// the feed needs to distinguish a failed page (Error state, retryable)
// from an empty one (Exhausted).
type FetchFunc func(ctx context.Context, page, limit int) (Page, error)

// Feed turns a sequence of page requests into a monotonically growing
// item list. Pages are requested strictly in increasing order, results
// are append-only, at most one request is in flight, and a Reset fences
// off any stale in-flight response so it can never merge into the new
// filter identity's state.
type Feed struct {
	mu    sync.Mutex
	fetch FetchFunc
	limit int

	items   []models.SeriesItem
	page    int
	hasMore bool
	state   FeedState
	err     error

	gen    int
	cancel context.CancelFunc
}

func NewFeed(fetch FetchFunc, limit int) *Feed {
	if limit <= 0 {
		limit = models.DefaultPageLimit
	}
	return &Feed{
		fetch:   fetch,
		limit:   limit,
		hasMore: true,
		state:   FeedIdle,
	}
}

// LoadMore requests the next page and blocks until the fetch settles.
// It reports whether a fetch was actually issued: false means the call
// was swallowed by the single-flight gate or the feed is exhausted.
// Calling LoadMore while in FeedError retries; that retry is always
// caller-initiated, never automatic.
//
// On success the page's items are appended (never replacing, never
// re-fetching seen pages) and the has-more flag is taken from the
// server's signal. On failure the accumulated items stay untouched and
// the feed lands in FeedError.
func (f *Feed) LoadMore(ctx context.Context) bool {
	f.mu.Lock()
	if f.state == FeedLoading || !f.hasMore {
		f.mu.Unlock()
		return false
	}

	next := 1
	if len(f.items) > 0 {
		next = f.page + 1
	}

	gen := f.gen
	fctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state = FeedLoading
	f.err = nil
	f.mu.Unlock()

	page, err := f.fetch(fctx, next, f.limit)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// Reset happened while the request was in flight; the response
		// belongs to a dead filter identity and must not merge.
		return true
	}

	if err != nil {
		f.state = FeedError
		f.err = err
		return true
	}

	f.items = append(f.items, page.Items...)
	f.page = next
	f.hasMore = page.HasMore
	if page.HasMore {
		f.state = FeedIdle
	} else {
		f.state = FeedExhausted
	}
	return true
}

// Poke is the viewport-sentinel trigger: it loads only from a clean
// idle state, so it covers the automatic first load and scroll
// continuation but never auto-retries out of FeedError.
func (f *Feed) Poke(ctx context.Context) bool {
	f.mu.Lock()
	idle := f.state == FeedIdle && f.hasMore
	f.mu.Unlock()
	if !idle {
		return false
	}
	return f.LoadMore(ctx)
}

// Reset aborts any in-flight request and clears accumulated state for a
// new filter identity. A response from before the Reset is discarded.
func (f *Feed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	f.items = nil
	f.page = 0
	f.hasMore = true
	f.state = FeedIdle
	f.err = nil
}

// Items returns a copy of the accumulated list.
func (f *Feed) Items() []models.SeriesItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SeriesItem, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *Feed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Err returns the last fetch error, set only while in FeedError.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
