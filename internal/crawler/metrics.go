package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalPagesCrawled counts pages fetched, parsed, and extracted.
	TotalPagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schemascan_pages_crawled_total",
		Help: "The total number of pages successfully crawled.",
	})
	// TotalFetchErrors counts per-page fetch failures that were skipped.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schemascan_fetch_errors_total",
		Help: "The total number of page fetches that failed.",
	})
	// TotalItemsExtracted counts structured-data items found across all pages.
	TotalItemsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schemascan_items_extracted_total",
		Help: "The total number of structured-data items extracted.",
	})
	// TotalRobotsDenied counts frontier entries skipped by robots rules.
	TotalRobotsDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schemascan_robots_denied_total",
		Help: "The total number of URLs skipped due to robots rules.",
	})
)
