package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"mangatrack/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string // keyword search in title
	Tag    string // single-tag any-match
	Source string
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.SeriesRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, source, source_id, title, alt_titles, description, tags, language, cover_url
		FROM series
		WHERE id = ?
	`, id)

	rec, err := scanSeries(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return rec, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.SeriesRecord, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.SeriesRecord, 0, q.Limit)
	for rows.Next() {
		rec, err := scanSeries(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// UpsertBatch writes one sync page transactionally, so a failed page
// never leaves a half-written batch behind.
func (r *Repo) UpsertBatch(ctx context.Context, recs []models.SeriesRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO series (id, source, source_id, title, alt_titles, description, tags, language, cover_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  alt_titles = excluded.alt_titles,
		  description = excluded.description,
		  tags = excluded.tags,
		  language = excluded.language,
		  cover_url = excluded.cover_url,
		  updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		altJSON, err := json.Marshal(rec.AltTitles)
		if err != nil {
			return fmt.Errorf("marshal alt titles for %s: %w", rec.ID, err)
		}
		tagsJSON, err := json.Marshal(rec.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", rec.ID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			rec.ID,
			rec.Source,
			rec.SourceID,
			rec.Title,
			string(altJSON),
			rec.Description,
			string(tagsJSON),
			rec.Language,
			rec.CoverURL,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanSeries(scan func(dest ...any) error) (*models.SeriesRecord, error) {
	var (
		rec         models.SeriesRecord
		altJSON     sql.NullString
		description sql.NullString
		tagsJSON    sql.NullString
		language    sql.NullString
		coverURL    sql.NullString
	)

	if err := scan(
		&rec.ID, &rec.Source, &rec.SourceID, &rec.Title,
		&altJSON, &description, &tagsJSON, &language, &coverURL,
	); err != nil {
		return nil, err
	}

	rec.Description = description.String
	rec.Language = language.String
	rec.CoverURL = coverURL.String
	if altJSON.Valid {
		_ = json.Unmarshal([]byte(altJSON.String), &rec.AltTitles)
	}
	if tagsJSON.Valid {
		_ = json.Unmarshal([]byte(tagsJSON.String), &rec.Tags)
	}
	return &rec, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list. The tag
// filter does a LIKE match inside the stored JSON text, same trade-off
// as searching any denormalized column.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT id, source, source_id, title, alt_titles, description, tags, language, cover_url
		FROM series
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM series`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(alt_titles) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if strings.TrimSpace(q.Source) != "" {
		where = append(where, "source = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Source)))
	}

	if strings.TrimSpace(q.Tag) != "" {
		where = append(where, "LOWER(tags) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Tag))+"%")
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
