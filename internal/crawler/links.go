package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"zchut-crawler/internal/config"
)

// LinkExtractor finds article links worth following. Only links inside
// the main-content region count; everything is resolved against the
// site's base origin (the site links root-relative), and anything that
// leaves the origin, lacks the article path prefix, or sits in an
// excluded namespace is dropped.
type LinkExtractor struct {
	sel  config.Selectors
	base *url.URL
}

func NewLinkExtractor(sel config.Selectors, seedURL string) (*LinkExtractor, error) {
	base, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("seed URL %q has no host", seedURL)
	}
	return &LinkExtractor{sel: sel, base: &url.URL{Scheme: base.Scheme, Host: base.Host}}, nil
}

// Links returns the followable article links in the content region,
// absolute, fragment-free, deduplicated, in document order.
func (l *LinkExtractor) Links(doc *goquery.Document) []string {
	return l.linksIn(doc.Find(l.sel.Content).First())
}

// CategoryMembers returns the article links listed on a category index
// page, plus the absolute URL of the next pagination page ("" when the
// listing ends). Subcategory links are skipped.
func (l *LinkExtractor) CategoryMembers(doc *goquery.Document) (members []string, next string) {
	region := doc.Find(l.sel.CategoryMembers).First()
	if region.Length() == 0 {
		return nil, ""
	}

	for _, link := range l.linksIn(region) {
		if strings.HasPrefix(l.pageName(link), "Category:") {
			continue
		}
		members = append(members, link)
	}

	region.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != l.sel.NextPageLabel {
			return true
		}
		href, _ := s.Attr("href")
		if resolved, ok := l.resolve(href); ok && l.sameOrigin(resolved) {
			next = resolved.String()
		}
		return false
	})

	return members, next
}

// Followable reports whether an already-absolute URL passes the same
// rules Links applies; the crawl loop uses it to gate related links
// before they reach the frontier.
func (l *LinkExtractor) Followable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return l.followable(u)
}

func (l *LinkExtractor) linksIn(region *goquery.Selection) []string {
	var links []string
	seen := make(map[string]bool)

	region.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, ok := l.resolve(href)
		if !ok || !l.followable(resolved) {
			return
		}
		link := resolved.String()
		if seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links
}

// resolve turns an href into an absolute fragment-free URL. Pure
// in-page anchors resolve to nothing.
func (l *LinkExtractor) resolve(href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := l.base.ResolveReference(u)
	resolved.Fragment = ""
	return resolved, true
}

func (l *LinkExtractor) followable(u *url.URL) bool {
	if !l.sameOrigin(u) {
		return false
	}
	if !strings.HasPrefix(u.Path, l.sel.ArticlePathPrefix) {
		return false
	}
	name := l.pageName(u.String())
	for _, ns := range l.sel.ExcludedNamespaces {
		if strings.HasPrefix(name, ns) {
			return false
		}
	}
	return true
}

func (l *LinkExtractor) sameOrigin(u *url.URL) bool {
	return u.Scheme == l.base.Scheme && u.Host == l.base.Host
}

// pageName is the path portion after the article prefix, e.g.
// "Special:Random" for "/he/Special:Random".
func (l *LinkExtractor) pageName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, l.sel.ArticlePathPrefix)
}
