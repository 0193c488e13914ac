package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/extractor"
	"github.com/schemascan/schemascan/internal/robots"
	"github.com/schemascan/schemascan/internal/schema"
)

// Crawler walks a site breadth-first and streams extracted structured data to
// the caller through Hooks. One Run call owns all crawl state (frontier,
// visited set, counters); nothing survives between invocations.
type Crawler struct {
	fetcher   Fetcher
	extractor *extractor.Extractor
	logger    *zap.Logger
	pause     pauseController
}

// New constructs a Crawler. A nil extractor or logger gets a sensible default.
func New(fetcher Fetcher, ex *extractor.Extractor, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ex == nil {
		ex = extractor.New(logger)
	}
	return &Crawler{
		fetcher:   fetcher,
		extractor: ex,
		logger:    logger,
		pause:     &timerPauseController{},
	}
}

// Run crawls domainInput until the frontier empties, the page budget is
// spent, or ctx is canceled. The loop is strictly sequential: one frontier
// entry at a time, FIFO per depth-discovery order, which guarantees
// breadth-first traversal. Per-page failures are logged and skipped; only a
// setup failure (unusable domain input) returns an error, with StatusError.
// Cancellation is not an error: it returns StatusStopped with whatever was
// already streamed.
func (c *Crawler) Run(ctx context.Context, domainInput string, opts Options, hooks Hooks) (Result, error) {
	opts = opts.withDefaults()

	seed, err := seedURL(domainInput)
	if err != nil {
		return Result{Status: StatusError}, fmt.Errorf("invalid domain input %q: %w", domainInput, err)
	}
	domain := seed.Host

	rules := &robots.Rules{}
	if opts.RespectRobots {
		rules = c.loadRobots(ctx, seed)
	}

	visited := make(map[string]struct{})
	frontier := []frontierEntry{{url: Normalize(seed.String(), domain), depth: 0}}
	var items []schema.Item
	pagesCrawled, itemsFound := 0, 0
	firstFetch := true

	stopped := func() Result {
		c.logger.Info("crawl canceled",
			zap.Int("pages_crawled", pagesCrawled),
			zap.Int("items_found", itemsFound),
		)
		return Result{Status: StatusStopped, PagesCrawled: pagesCrawled, ItemsFound: itemsFound, Items: items}
	}

	for len(frontier) > 0 && pagesCrawled < opts.MaxPages {
		if ctx.Err() != nil {
			return stopped(), nil
		}

		entry := frontier[0]
		frontier = frontier[1:]

		if _, ok := visited[entry.url]; ok {
			continue
		}
		if entry.depth > opts.MaxDepth {
			continue
		}
		if !rules.IsAllowed(entry.url) {
			TotalRobotsDenied.Inc()
			c.logger.Debug("robots denied", zap.String("url", entry.url))
			continue
		}

		if !firstFetch {
			c.pause.Pause(ctx, opts.Delay)
			if ctx.Err() != nil {
				return stopped(), nil
			}
		}
		firstFetch = false

		body, err := c.fetcher.FetchText(ctx, entry.url)
		if err != nil {
			TotalFetchErrors.Inc()
			c.logger.Warn("page fetch failed; skipping",
				zap.String("url", entry.url),
				zap.Error(err),
			)
			hooks.progress(pagesCrawled, itemsFound)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			c.logger.Warn("page parse failed; skipping",
				zap.String("url", entry.url),
				zap.Error(err),
			)
			hooks.progress(pagesCrawled, itemsFound)
			continue
		}

		canonical := canonicalURL(doc, entry.url, domain)
		if _, ok := visited[canonical]; ok {
			hooks.progress(pagesCrawled, itemsFound)
			continue
		}
		visited[entry.url] = struct{}{}
		visited[canonical] = struct{}{}
		pagesCrawled++
		TotalPagesCrawled.Inc()

		pageItems := c.extractor.Extract(body, canonical)
		if len(pageItems) > 0 {
			items = append(items, pageItems...)
			itemsFound += len(pageItems)
			TotalItemsExtracted.Add(float64(len(pageItems)))
			hooks.data(pageItems)
		}

		if entry.depth < opts.MaxDepth {
			if base, err := url.Parse(entry.url); err == nil {
				for _, link := range c.discoverLinks(doc, base, domain) {
					if _, ok := visited[link]; ok {
						continue
					}
					if len(frontier) >= frontierCap {
						break
					}
					frontier = append(frontier, frontierEntry{url: link, depth: entry.depth + 1})
				}
			}
		}

		hooks.progress(pagesCrawled, itemsFound)
	}

	c.logger.Info("crawl completed",
		zap.Int("pages_crawled", pagesCrawled),
		zap.Int("items_found", itemsFound),
	)
	return Result{Status: StatusCompleted, PagesCrawled: pagesCrawled, ItemsFound: itemsFound, Items: items}, nil
}

// loadRobots fetches and parses /robots.txt from the seed host. Any failure
// degrades to an empty rule table, which allows everything.
func (c *Crawler) loadRobots(ctx context.Context, seed *url.URL) *robots.Rules {
	robotsURL := (&url.URL{Scheme: seed.Scheme, Host: seed.Host, Path: "/robots.txt"}).String()
	body, err := c.fetcher.FetchText(ctx, robotsURL)
	if err != nil {
		c.logger.Warn("robots fetch failed; proceeding allow-all",
			zap.String("url", robotsURL),
			zap.Error(err),
		)
		return &robots.Rules{}
	}
	rules := robots.Parse(body)
	c.logger.Info("robots rules loaded",
		zap.String("url", robotsURL),
		zap.Int("rules", rules.Len()),
	)
	return rules
}

// canonicalURL resolves a <link rel="canonical"> declaration against the
// fetched URL. A missing, unparseable, or cross-domain canonical keeps the
// fetched URL.
func canonicalURL(doc *goquery.Document, fetchedURL, domain string) string {
	href := strings.TrimSpace(doc.Find(`link[rel="canonical"]`).First().AttrOr("href", ""))
	if href == "" {
		return fetchedURL
	}
	base, err := url.Parse(fetchedURL)
	if err != nil {
		return fetchedURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return fetchedURL
	}
	abs := base.ResolveReference(ref)
	if !sameDomain(abs.Host, domain) {
		return fetchedURL
	}
	return Normalize(abs.String(), domain)
}

// discoverLinks collects same-domain outbound hyperlinks, resolved against
// base and normalized. Non-navigational schemes are ignored.
func (c *Crawler) discoverLinks(doc *goquery.Document, base *url.URL, domain string) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			c.logger.Debug("skipping unparseable link", zap.String("href", href))
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if !sameDomain(abs.Host, domain) {
			return
		}
		links = append(links, Normalize(abs.String(), domain))
	})
	return links
}

func sameDomain(host, domain string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host == strings.ToLower(domain)
}

// seedURL turns raw domain input (with or without scheme or "www.") into the
// https base URL that seeds the frontier.
func seedURL(input string) (*url.URL, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, errors.New("empty domain input")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse domain: %w", err)
	}
	u.Scheme = "https"
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if u.Host == "" {
		return nil, errors.New("domain input has no host")
	}
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
