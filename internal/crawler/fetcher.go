package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// acceptLanguage prefers Hebrew; the origin serves localized content.
const acceptLanguage = "he-IL,he;q=0.9,en-US;q=0.8,en;q=0.7"

// Fetcher retrieves pages from a single origin, politely: one request
// per rate-limit interval, identified User-Agent, robots.txt honored.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       *zap.Logger

	// robots.txt group for the crawl origin, fetched lazily once.
	robots       *robotstxt.Group
	robotsLoaded bool
}

func NewFetcher(userAgent string, minInterval time.Duration, log *zap.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(minInterval), 1),
		userAgent: userAgent,
		log:       log,
	}
}

// Fetch GETs targetURL and parses the response body. Any transport
// error, non-2xx status, or robots.txt disallow comes back as an error;
// callers skip the URL and move on, a failed fetch is never fatal.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*goquery.Document, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", targetURL, err)
	}

	if !f.allowed(u) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", targetURL)
	}

	// The polite delay between requests.
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", targetURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", targetURL, err)
	}
	return doc, nil
}

// allowed checks the cached robots.txt group for the origin. A missing
// or unreadable robots.txt means allowed.
func (f *Fetcher) allowed(u *url.URL) bool {
	if !f.robotsLoaded {
		f.robots = f.loadRobots(u)
		f.robotsLoaded = true
	}
	if f.robots == nil {
		return true
	}
	return f.robots.Test(u.Path)
}

func (f *Fetcher) loadRobots(u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	resp, err := f.client.Get(robotsURL)
	if err != nil {
		f.log.Debug("robots.txt unavailable, assuming allowed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		f.log.Debug("robots.txt unparsable, assuming allowed", zap.Error(err))
		return nil
	}
	return data.FindGroup(f.userAgent)
}
