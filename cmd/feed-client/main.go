package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"mangatrack/internal/discovery"
)

// feed-client walks the discovery feed from a terminal, page by page,
// the same way the web grid does: one request in flight, append-only
// accumulation, stop on exhaustion or error.
func main() {
	var (
		base   = flag.String("addr", "http://127.0.0.1:8080", "API server base URL")
		source = flag.String("source", "mangadex", "source id to browse")
		limit  = flag.Int("limit", 20, "items per page")
		pages  = flag.Int("pages", 3, "pages to fetch")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := discovery.NewClient(*base, *source)
	feed := discovery.NewFeed(client.FetchPage, *limit)

	for i := 0; i < *pages; i++ {
		before := feed.Len()
		if !feed.LoadMore(ctx) {
			break
		}
		if feed.State() == discovery.FeedError {
			log.Fatalf("page fetch failed: %v", feed.Err())
		}

		for _, item := range feed.Items()[before:] {
			fmt.Printf("%-12s %s\n", item.ID, item.Title)
		}
		if !feed.HasMore() {
			log.Println("all caught up")
			break
		}
	}

	log.Printf("fetched %d items from %s", feed.Len(), *source)
}
