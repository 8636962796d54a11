package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"zchut-crawler/internal/config"
	"zchut-crawler/internal/crawler"
	"zchut-crawler/internal/logger"
	"zchut-crawler/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Flags override the environment, e.g.
	// ./crawler -url="https://www.kolzchut.org.il/he/פנסיה" -max=100
	seedURL := flag.String("url", cfg.SeedURL, "The URL to start crawling from")
	categoryURL := flag.String("category", cfg.CategoryURL, "Optional category index page to seed the frontier from")
	maxArticles := flag.Int("max", cfg.MaxArticles, "Maximum number of articles to collect")
	flag.Parse()
	cfg.SeedURL = *seedURL
	cfg.CategoryURL = *categoryURL
	cfg.MaxArticles = *maxArticles

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	checkpoint, err := storage.NewCheckpoint(cfg.OutputDir, cfg.FilePrefix, zlog)
	if err != nil {
		zlog.Fatal("init checkpoint store", zap.Error(err))
	}
	sinks := []crawler.Sink{checkpoint}

	if cfg.DatabaseURL != "" {
		db, err := storage.Open(cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("connect to database", zap.Error(err))
		}
		defer db.Close()
		sinks = append(sinks, storage.NewPostgres(db))
	}

	fetcher := crawler.NewFetcher(cfg.UserAgent, cfg.RateLimit, zlog)
	extractor, err := crawler.NewExtractor(cfg.Selectors, cfg.SeedURL)
	if err != nil {
		zlog.Fatal("init extractor", zap.Error(err))
	}
	links, err := crawler.NewLinkExtractor(cfg.Selectors, cfg.SeedURL)
	if err != nil {
		zlog.Fatal("init link extractor", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zlog.Info("starting crawl",
		zap.String("seed", cfg.SeedURL),
		zap.Int("max_articles", cfg.MaxArticles),
		zap.Duration("rate_limit", cfg.RateLimit))

	c := crawler.New(cfg, fetcher, extractor, links, sinks, zlog)
	result, err := c.Run(ctx)
	if err != nil {
		zlog.Warn("crawl interrupted", zap.Error(err))
	}

	zlog.Info("crawl complete",
		zap.Int("pages_fetched", result.PagesFetched),
		zap.Int("articles", result.Articles),
		zap.Int("checkpoints", result.Checkpoints),
		zap.Duration("duration", result.Duration))
}
