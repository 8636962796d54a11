package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zchut-crawler/internal/config"
	"zchut-crawler/pkg/models"
)

// Sink persists a batch of articles. Each call receives the full
// accumulator, so sinks must tolerate items they have already seen.
type Sink interface {
	Save(ctx context.Context, articles []models.Article) error
}

// Result summarizes one crawl session.
type Result struct {
	PagesFetched int
	Articles     int
	Checkpoints  int
	Duration     time.Duration
}

// Crawler drives the crawl: pop a URL, fetch, extract, enqueue what the
// page links to, checkpoint on a fixed article interval. Strictly one
// fetch in flight; politeness comes from the Fetcher's rate limiter.
type Crawler struct {
	cfg       *config.Config
	fetcher   *Fetcher
	extractor *Extractor
	links     *LinkExtractor
	frontier  *Frontier
	sinks     []Sink
	log       *zap.Logger

	// Accumulator for the session. Snapshots are cumulative: every
	// flush writes the whole slice. flushed marks how many articles
	// the last successful flush covered, so a failed write is retried
	// at the next boundary or the final flush.
	articles []models.Article
	flushed  int
}

func New(cfg *config.Config, fetcher *Fetcher, extractor *Extractor, links *LinkExtractor, sinks []Sink, log *zap.Logger) *Crawler {
	return &Crawler{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		links:     links,
		frontier:  NewFrontier(),
		sinks:     sinks,
		log:       log,
	}
}

// Run crawls from the configured seed until the frontier drains, the
// article budget is hit, or ctx is cancelled. Fetch and extraction
// failures are logged and skipped; only a cancelled context ends the
// crawl with an error.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	if c.cfg.CategoryURL != "" {
		if err := c.SeedFromCategory(ctx, c.cfg.CategoryURL); err != nil {
			c.log.Warn("category bootstrap failed", zap.String("url", c.cfg.CategoryURL), zap.Error(err))
		}
	}
	c.frontier.Push(c.cfg.SeedURL)

	var runErr error
	for len(c.articles) < c.cfg.MaxArticles {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		current, ok := c.frontier.Pop()
		if !ok {
			break
		}

		doc, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			// Skip and move on; the URL stays marked seen and is
			// never retried within this session.
			c.log.Warn("fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}
		result.PagesFetched++

		if article, isArticle := c.extractor.Extract(doc, current); isArticle {
			c.collect(ctx, article, result)
		}

		// Non-article pages still contribute their links.
		for _, link := range c.links.Links(doc) {
			c.frontier.Push(link)
		}
	}

	// The final flush runs even on cancellation so a stopped crawl
	// still leaves its partial output behind.
	c.finalFlush(context.WithoutCancel(ctx), result)

	result.Articles = len(c.articles)
	result.Duration = time.Since(start)
	return result, runErr
}

// SeedFromCategory walks a category index page (and its pagination)
// and pushes every listed article onto the frontier.
func (c *Crawler) SeedFromCategory(ctx context.Context, categoryURL string) error {
	seeded := 0
	for pageURL := categoryURL; pageURL != ""; {
		doc, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return err
		}

		members, next := c.links.CategoryMembers(doc)
		for _, member := range members {
			if c.frontier.Push(member) {
				seeded++
			}
		}
		pageURL = next
	}

	c.log.Info("category bootstrap complete", zap.String("category", categoryURL), zap.Int("seeded", seeded))
	return nil
}

func (c *Crawler) collect(ctx context.Context, article *models.Article, result *Result) {
	if c.cfg.SkipUntitled && article.Title == "" {
		c.log.Debug("discarding untitled article", zap.String("url", article.URL))
		return
	}

	c.articles = append(c.articles, *article)
	c.log.Info("collected article",
		zap.String("title", article.Title),
		zap.String("url", article.URL),
		zap.Int("count", len(c.articles)),
		zap.Int("budget", c.cfg.MaxArticles))

	for _, related := range article.RelatedURLs {
		if c.links.Followable(related) {
			c.frontier.Push(related)
		}
	}

	if c.cfg.CheckpointEvery > 0 && len(c.articles)%c.cfg.CheckpointEvery == 0 {
		if c.flush(ctx) {
			result.Checkpoints++
		}
	}
}

// flush writes the full accumulator to every sink. A sink failure is
// logged, leaves the accumulator untouched, and is retried at the next
// boundary. Returns true when all sinks succeeded.
func (c *Crawler) flush(ctx context.Context) bool {
	ok := true
	for _, sink := range c.sinks {
		if err := sink.Save(ctx, c.articles); err != nil {
			c.log.Error("checkpoint failed", zap.Int("articles", len(c.articles)), zap.Error(err))
			ok = false
		}
	}
	if ok {
		c.flushed = len(c.articles)
	}
	return ok
}

// finalFlush persists whatever the last successful flush did not cover.
func (c *Crawler) finalFlush(ctx context.Context, result *Result) {
	if len(c.articles) == 0 || c.flushed == len(c.articles) {
		return
	}
	if c.flush(ctx) {
		result.Checkpoints++
	}
}
