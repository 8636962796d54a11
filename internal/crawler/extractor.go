package crawler

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"zchut-crawler/internal/config"
	"zchut-crawler/pkg/models"
)

// bodyElements are the elements inside the content region that carry
// article text, in document order.
const bodyElements = "p, h2, h3, h4, h5, h6, li"

// Extractor pulls an Article out of a parsed wiki page. Extraction is
// best-effort: a missing title or category block degrades to empty
// fields, only a missing content region means "not an article".
type Extractor struct {
	sel  config.Selectors
	base *url.URL
}

func NewExtractor(sel config.Selectors, seedURL string) (*Extractor, error) {
	base, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	return &Extractor{sel: sel, base: &url.URL{Scheme: base.Scheme, Host: base.Host}}, nil
}

// Extract returns ok=false when the document has no main-content
// region, i.e. the page is not an article at all.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) (*models.Article, bool) {
	content := doc.Find(e.sel.Content).First()
	if content.Length() == 0 {
		return nil, false
	}

	art := &models.Article{
		URL:       pageURL,
		Title:     strings.TrimSpace(doc.Find(e.sel.Heading).First().Text()),
		CrawledAt: time.Now(),
	}

	// The "see also" section is captured structurally as RelatedURLs,
	// so its heading and link list stay out of the body text.
	marker, section := e.relatedSection(content)
	art.RelatedURLs = e.relatedLinks(section)
	related := nodeSet(marker, section)

	var blocks []string
	content.Find(bodyElements).Each(func(_ int, s *goquery.Selection) {
		if s.Closest(e.sel.Excluded).Length() > 0 {
			return
		}
		if underAny(related, s) {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "• " + text
		}
		blocks = append(blocks, text)
	})
	art.Content = strings.Join(blocks, "\n\n")

	doc.Find(e.sel.Categories).Find("a").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			art.Categories = append(art.Categories, t)
		}
	})

	return art, true
}

// relatedSection locates the marker heading and the sibling run between
// it and the next heading of the same level. Both are nil when the page
// has no "see also" section.
func (e *Extractor) relatedSection(content *goquery.Selection) (marker, section *goquery.Selection) {
	content.Find("h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), e.sel.RelatedLabel) {
			marker = s
			return false
		}
		return true
	})
	if marker == nil {
		return nil, nil
	}
	return marker, marker.NextUntil(goquery.NodeName(marker))
}

func (e *Extractor) relatedLinks(section *goquery.Selection) []string {
	if section == nil {
		return nil
	}

	var links []string
	section.Find("a[href]").AddBackFiltered("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := e.base.ResolveReference(u)
		resolved.Fragment = ""
		links = append(links, resolved.String())
	})
	return links
}

// nodeSet collects the nodes of the given selections for ancestry
// checks during the body walk.
func nodeSet(sels ...*goquery.Selection) map[*html.Node]bool {
	set := make(map[*html.Node]bool)
	for _, sel := range sels {
		if sel == nil {
			continue
		}
		for _, n := range sel.Nodes {
			set[n] = true
		}
	}
	return set
}

func underAny(set map[*html.Node]bool, s *goquery.Selection) bool {
	if len(set) == 0 {
		return false
	}
	for _, n := range s.Nodes {
		for p := n; p != nil; p = p.Parent {
			if set[p] {
				return true
			}
		}
	}
	return false
}
