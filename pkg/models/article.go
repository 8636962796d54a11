package models

import "time"

// Article is one extracted Kol Zchut page. Field names are part of the
// on-disk checkpoint format consumed by the knowledge-base ingester, so
// renaming a JSON tag is a breaking change.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Categories  []string  `json:"categories"`
	Content     string    `json:"content"`
	RelatedURLs []string  `json:"related_urls"`
	CrawledAt   time.Time `json:"crawled_at"`
}
