package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"zchut-crawler/pkg/models"
)

// timestampLayout yields <prefix>_YYYYMMDD_HHMMSS.json file names.
const timestampLayout = "20060102_150405"

// Checkpoint writes article snapshots as JSON batch files. Every Save
// serializes the entire batch to a freshly named file, so checkpoint
// files are cumulative snapshots, not diffs. An ingester that
// concatenates all files will see duplicates; it should read only the
// newest file, or deduplicate by url.
type Checkpoint struct {
	dir    string
	prefix string
	log    *zap.Logger

	now func() time.Time
}

func NewCheckpoint(dir, prefix string, log *zap.Logger) (*Checkpoint, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Checkpoint{dir: dir, prefix: prefix, log: log, now: time.Now}, nil
}

// Save writes the batch as one UTF-8 JSON array.
func (c *Checkpoint) Save(_ context.Context, articles []models.Article) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal articles: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", c.prefix, c.now().Format(timestampLayout))
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", path, err)
	}

	c.log.Info("wrote checkpoint", zap.String("file", path), zap.Int("articles", len(articles)))
	return nil
}
