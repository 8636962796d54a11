package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib" // register the pgx driver

	"zchut-crawler/pkg/models"
)

// Postgres mirrors every checkpoint into an articles table. Because
// the crawler hands each flush the full accumulator, inserts conflict
// on url and are simply skipped; the table ends up with one row per
// article regardless of how many snapshots were written.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Open connects to Postgres, retrying while the database comes up.
func Open(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("pgx", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				return db, nil
			}
		}
		log.Printf("Waiting for DB... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("could not connect to DB after retries: %w", err)
}

func (s *Postgres) Save(ctx context.Context, articles []models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (url, title, content, categories, related_urls, crawled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		_, err := stmt.ExecContext(ctx,
			a.URL,
			a.Title,
			a.Content,
			strings.Join(a.Categories, "|"),
			strings.Join(a.RelatedURLs, "|"),
			a.CrawledAt,
		)
		if err != nil {
			log.Printf("Error inserting %s: %v", a.URL, err)
		}
	}

	return tx.Commit()
}
