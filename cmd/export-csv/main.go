package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"mangatrack/pkg/database"
)

func main() {
	out := flag.String("out", "data/series.csv", "output CSV path")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportSeries(ctx, db, *out); err != nil {
		log.Fatalf("export series failed: %v", err)
	}
	log.Printf("exported series to %s", *out)
}

func exportSeries(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "source", "source_id", "title", "alt_titles", "description", "tags", "language", "cover_url"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, source, source_id, title, alt_titles, description, tags, language, cover_url
		FROM series
		ORDER BY title
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, source, sourceID, title  string
			altTitles, description, tags sql.NullString
			language, coverURL           sql.NullString
		)
		if err := rows.Scan(&id, &source, &sourceID, &title, &altTitles, &description, &tags, &language, &coverURL); err != nil {
			return err
		}

		if err := w.Write([]string{
			id, source, sourceID, title,
			altTitles.String, description.String, tags.String,
			language.String, coverURL.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
