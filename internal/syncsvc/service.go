package syncsvc

import (
	"context"
	"log"
	"time"

	"mangatrack/internal/catalog"
	"mangatrack/internal/connector"
	"mangatrack/internal/discovery"
	synchub "mangatrack/internal/sync"
	"mangatrack/pkg/models"
)

// Service walks every registered connector page by page and upserts
// what it finds into the catalog. Each source is independent: a dead or
// failing source is skipped and the pass continues. Progress events go
// out over the hub when one is attached.
type Service struct {
	Repo       *catalog.Repo
	Hub        *synchub.Hub // optional
	Connectors []connector.Connector
	PageLimit  int
	MaxPages   int // per-source page cap
}

func New(repo *catalog.Repo, hub *synchub.Hub) *Service {
	return &Service{
		Repo:       repo,
		Hub:        hub,
		Connectors: connector.All(),
		PageLimit:  50,
		MaxPages:   4,
	}
}

func (s *Service) Run(ctx context.Context) {
	for _, conn := range s.Connectors {
		s.syncSource(ctx, conn)
	}
}

func (s *Service) syncSource(ctx context.Context, conn connector.Connector) {
	source := conn.ID()

	// Probe first: adapters collapse "down" into "empty", so this is
	// the only way to tell an outage from a genuinely empty listing.
	if h := conn.HealthCheck(ctx); !h.OK {
		log.Printf("[sync] skipping %s: %s", source, h.Message)
		s.broadcast(synchub.SyncEvent{Type: "sync.skipped", Source: source, Message: h.Message, At: time.Now().UTC()})
		return
	}

	feed := discovery.NewFeed(func(ctx context.Context, page, limit int) (discovery.Page, error) {
		items := conn.FetchSeriesList(ctx, models.Pagination{Page: page, Limit: limit})
		return discovery.Page{Items: items, HasMore: len(items) >= limit}, nil
	}, s.PageLimit)

	page := 0
	for page < s.MaxPages {
		before := feed.Len()
		if !feed.LoadMore(ctx) {
			break
		}
		page++

		items := feed.Items()[before:]
		if len(items) == 0 {
			break
		}

		records := make([]models.SeriesRecord, 0, len(items))
		for _, item := range items {
			records = append(records, models.NewSeriesRecord(source, item))
		}
		if err := s.Repo.UpsertBatch(ctx, records); err != nil {
			log.Printf("[sync] %s page %d: save failed: %v", source, page, err)
			s.broadcast(synchub.SyncEvent{Type: "sync.error", Source: source, Page: page, Message: err.Error(), At: time.Now().UTC()})
			return
		}

		log.Printf("[sync] %s page %d: %d items", source, page, len(items))
		s.broadcast(synchub.SyncEvent{Type: "sync.page", Source: source, Page: page, Items: len(items), At: time.Now().UTC()})

		if !feed.HasMore() {
			break
		}
	}

	log.Printf("[sync] %s done: %d items", source, feed.Len())
	s.broadcast(synchub.SyncEvent{Type: "sync.complete", Source: source, Items: feed.Len(), At: time.Now().UTC()})
}

func (s *Service) broadcast(ev synchub.SyncEvent) {
	if s.Hub != nil {
		s.Hub.BroadcastJSON(ev)
	}
}
