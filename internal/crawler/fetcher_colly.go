package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// CollyFetcher implements Fetcher over a Colly collector: one sequential
// request per call, HTML-only, body decoded to UTF-8. Robots handling is
// disabled here because the orchestrator enforces robots itself, ahead of
// the fetch.
type CollyFetcher struct {
	base         *colly.Collector
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewCollyFetcher constructs a configured fetcher.
func NewCollyFetcher(userAgent string, timeout time.Duration, maxBodyBytes int64, logger *zap.Logger) (*CollyFetcher, error) {
	if userAgent == "" {
		return nil, errors.New("user agent must be set")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 5 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.Async(true),
		colly.IgnoreRobotsTxt(),
	)
	// The orchestrator owns visited-set dedup; the collector must not
	// second-guess it.
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(timeout)

	return &CollyFetcher{
		base:         base,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}, nil
}

// FetchText retrieves the body of rawURL as UTF-8 text, or fails with a
// FetchError. Non-HTML content types and oversized bodies are failures so a
// single capability covers "fetch the page, or tell me you couldn't".
func (f *CollyFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	f.logger.Debug("fetching page", zap.String("url", rawURL))
	collector := f.base.Clone()
	resultCh := make(chan textFetchResult, 1)
	var once sync.Once
	send := func(res textFetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		contentType := ""
		if r.Headers != nil {
			contentType = r.Headers.Get("Content-Type")
		}
		if !isHTMLContentType(contentType) {
			send(textFetchResult{err: &FetchError{URL: rawURL, Err: fmt.Errorf("non-HTML content type %q", contentType)}})
			return
		}
		if int64(len(r.Body)) > f.maxBodyBytes {
			send(textFetchResult{err: &FetchError{URL: rawURL, Err: fmt.Errorf("body size %d exceeds cap %d", len(r.Body), f.maxBodyBytes)}})
			return
		}
		send(textFetchResult{body: decodeToUTF8(r.Body, contentType)})
	})

	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown collector error")
		}
		send(textFetchResult{err: &FetchError{URL: rawURL, Err: err}})
	})

	if err := collector.Visit(rawURL); err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return res.body, res.err
	default:
		return "", &FetchError{URL: rawURL, Err: errors.New("fetch produced no result")}
	}
}

type textFetchResult struct {
	body string
	err  error
}

// isHTMLContentType accepts text/html and XHTML media types, plus an empty
// header since some servers omit it.
func isHTMLContentType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "html")
	}
	return strings.Contains(mediaType, "html")
}

// decodeToUTF8 converts the body to UTF-8 guided by the Content-Type charset
// and byte sniffing; on any decode trouble the raw bytes are used as-is.
func decodeToUTF8(body []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
