package main

import (
	"context"
	"flag"
	"log"
	"time"

	"mangatrack/internal/catalog"
	"mangatrack/internal/syncsvc"
	"mangatrack/pkg/database"
)

func main() {
	var (
		limit    = flag.Int("limit", 50, "items per page")
		maxPages = flag.Int("max-pages", 4, "page cap per source")
		timeout  = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	svc := syncsvc.New(catalog.NewRepo(db), nil)
	svc.PageLimit = *limit
	svc.MaxPages = *maxPages

	svc.Run(ctx)
	log.Println("catalog sync finished")
}
