package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// SeedURL is the page the crawl starts from.
	SeedURL string `envconfig:"SEED_URL" default:"https://www.kolzchut.org.il/he/עמוד_ראשי"`

	// CategoryURL optionally bootstraps the frontier from a category
	// index page before the main loop starts. Empty disables the pass.
	CategoryURL string `envconfig:"CATEGORY_URL" default:""`

	// MaxArticles bounds how many articles one crawl session collects.
	MaxArticles int `envconfig:"MAX_ARTICLES" default:"50"`

	// CheckpointEvery is the article interval between snapshot writes.
	CheckpointEvery int `envconfig:"CHECKPOINT_EVERY" default:"10"`

	// RateLimit is the minimum interval between requests to the origin.
	RateLimit time.Duration `envconfig:"RATE_LIMIT" default:"1s"`

	UserAgent string `envconfig:"USER_AGENT" default:"ZchutCrawler/1.0 (rights knowledge base; contact: admin@example.org)"`

	// OutputDir and FilePrefix name the checkpoint files:
	// <OutputDir>/<FilePrefix>_<YYYYMMDD_HHMMSS>.json
	OutputDir  string `envconfig:"OUTPUT_DIR" default:"data/raw"`
	FilePrefix string `envconfig:"FILE_PREFIX" default:"articles"`

	// DatabaseURL enables the Postgres sink when set.
	DatabaseURL string `envconfig:"DB_URL" default:""`

	// SkipUntitled discards extraction results whose title came back
	// empty instead of storing them for downstream filtering.
	SkipUntitled bool `envconfig:"SKIP_UNTITLED" default:"false"`

	Debug bool `envconfig:"DEBUG" default:"false"`

	Selectors Selectors
}

// Selectors holds the page regions and link rules the extractor works
// against. Defaults match the kolzchut.org.il MediaWiki layout.
type Selectors struct {
	// Heading is the article title element.
	Heading string `envconfig:"SEL_HEADING" default:"h1.firstHeading"`

	// Content is the main-content region; pages without it are not
	// treated as articles.
	Content string `envconfig:"SEL_CONTENT" default:"div#mw-content-text"`

	// Categories is the category-links region.
	Categories string `envconfig:"SEL_CATEGORIES" default:"div#catlinks"`

	// CategoryMembers is the member-list region on category index pages.
	CategoryMembers string `envconfig:"SEL_CATEGORY_MEMBERS" default:"div#mw-pages"`

	// Excluded matches ancestors whose subtrees never contribute body
	// text or links (navigation, table of contents, infoboxes).
	Excluded string `envconfig:"SEL_EXCLUDED" default:"nav, #toc, .toc, .navbox, .infobox, .mw-editsection"`

	// ArticlePathPrefix is the path prefix shared by article pages.
	ArticlePathPrefix string `envconfig:"ARTICLE_PATH_PREFIX" default:"/he/"`

	// ExcludedNamespaces are page-name prefixes (after the article path
	// prefix) that mark non-article pages.
	ExcludedNamespaces []string `envconfig:"EXCLUDED_NAMESPACES" default:"Special:,File:"`

	// RelatedLabel is the heading text that opens the "see also"
	// section; NextPageLabel is the pagination link text on category
	// pages. Both are Hebrew on the target site.
	RelatedLabel  string `envconfig:"RELATED_LABEL" default:"ראו גם"`
	NextPageLabel string `envconfig:"NEXT_PAGE_LABEL" default:"הדף הבא"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// Try to load .env first. We don't fail here because in production
	// (Docker/K8s) there often is no .env file; vars are injected
	// directly.
	if err := godotenv.Load(); err != nil {
		// Only warn if the file exists but could not be loaded.
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
