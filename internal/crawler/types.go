// Package crawler implements the breadth-first site walker that drives URL
// normalization, robots checks, fetching, structured-data extraction, and
// same-domain link discovery for one crawl invocation.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/schemascan/schemascan/internal/schema"
)

// Options configure a single crawl invocation.
type Options struct {
	// MaxPages is the pages-crawled budget. Recommended 1-1000.
	MaxPages int
	// MaxDepth is the maximum link-follow depth from the seed. Depth 0
	// crawls only the seed page.
	MaxDepth int
	// Delay is the politeness pause between sequential fetches. It is a
	// per-request throttle, not a concurrency limit; the loop is strictly
	// sequential either way.
	Delay time.Duration
	// RespectRobots fetches /robots.txt at setup and honors its rules.
	// A robots fetch failure is non-fatal and degrades to allow-all.
	RespectRobots bool
}

const (
	defaultMaxPages = 100
	defaultMaxDepth = 3
	// frontierCap bounds pending frontier entries to keep memory flat on
	// link-dense sites.
	frontierCap = 1000
)

func (o Options) withDefaults() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = defaultMaxDepth
	}
	return o
}

// Status is the terminal outcome of a crawl invocation.
type Status string

// Terminal crawl statuses. A crawl always ends in exactly one of these.
const (
	StatusCompleted Status = "completed"
	StatusStopped   Status = "stopped"
	StatusError     Status = "error"
)

// Result summarizes a finished crawl. Items streamed before a stop or error
// are always preserved here.
type Result struct {
	Status       Status
	PagesCrawled int
	ItemsFound   int
	Items        []schema.Item
}

// Hooks receive synchronous notifications inline with loop progress, so an
// observer sees monotonically non-decreasing counters and each item exactly
// once, in discovery order.
type Hooks struct {
	// OnProgress fires after every page attempt, successful or not.
	OnProgress func(pagesCrawled, itemsFound int)
	// OnData fires once per page that yields at least one item, with only
	// that page's newly found items.
	OnData func(items []schema.Item)
}

func (h Hooks) progress(pages, items int) {
	if h.OnProgress != nil {
		h.OnProgress(pages, items)
	}
}

func (h Hooks) data(items []schema.Item) {
	if h.OnData != nil && len(items) > 0 {
		h.OnData(items)
	}
}

// Fetcher is the single capability the orchestrator needs from the transport
// layer: the body of a URL as text, or failure. Everything else the transport
// does (proxying, fallbacks, caching) is opaque to the crawl core.
type Fetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// FetchError wraps a transport-level failure for one URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// frontierEntry is one pending (url, depth) pair in the FIFO frontier.
type frontierEntry struct {
	url   string
	depth int
}
