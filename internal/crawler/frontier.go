package crawler

// Frontier tracks which URLs have been seen and which are waiting to be
// fetched. Pop order is FIFO, so a budget-truncated crawl prefers pages
// close to the seed. Deduplication happens at push time: a URL enters
// the pending queue at most once per session, which is what guarantees
// at-most-one fetch per URL.
//
// The frontier is owned by a single crawl loop and is not safe for
// concurrent use.
type Frontier struct {
	seen    map[string]bool
	pending []string
}

func NewFrontier() *Frontier {
	return &Frontier{seen: make(map[string]bool)}
}

// Push enqueues a URL. Returns false if the URL was already seen.
func (f *Frontier) Push(url string) bool {
	if f.seen[url] {
		return false
	}
	f.seen[url] = true
	f.pending = append(f.pending, url)
	return true
}

// Pop returns the oldest pending URL. Returns false when the frontier
// is empty.
func (f *Frontier) Pop() (string, bool) {
	if len(f.pending) == 0 {
		return "", false
	}
	url := f.pending[0]
	f.pending = f.pending[1:]
	return url, true
}

// Seen reports whether a URL has ever been pushed.
func (f *Frontier) Seen(url string) bool {
	return f.seen[url]
}

// Len is the number of URLs still pending.
func (f *Frontier) Len() int {
	return len(f.pending)
}
