// Package webfetch turns a job-posting URL into a bounded plain-text excerpt.
//
// Fetch never returns an error: failures are folded into the returned text as
// "Error scraping website: <reason>" so agents can see and react to them.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hupe1980/recruitmesh/logging"
)

const (
	// DefaultTimeout bounds a single fetch attempt.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxChars bounds the returned excerpt in characters.
	DefaultMaxChars = 8000
	// DefaultCacheSize is the number of excerpts kept in memory.
	DefaultCacheSize = 64
	// DefaultCacheTTL is how long an excerpt stays cached.
	DefaultCacheTTL = 15 * time.Minute
	// DefaultUserAgent identifies the fetcher to remote servers.
	DefaultUserAgent = "Mozilla/5.0 (compatible; recruitmesh/1.0; +https://github.com/hupe1980/recruitmesh)"

	// ErrorPrefix starts every failure message returned by Fetch.
	ErrorPrefix = "Error scraping website: "

	maxBodyBytes = 4 << 20
)

// Options configures an Extractor.
type Options struct {
	Timeout   time.Duration
	MaxChars  int
	UserAgent string
	// CacheSize of zero disables caching.
	CacheSize int
	CacheTTL  time.Duration
	// HTTPClient overrides the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Extractor fetches pages and reduces them to plain text.
type Extractor struct {
	client *http.Client
	opts   Options
	cache  *expirable.LRU[string, string]
}

// New creates an Extractor.
func New(optFns ...func(o *Options)) *Extractor {
	opts := Options{
		Timeout:   DefaultTimeout,
		MaxChars:  DefaultMaxChars,
		UserAgent: DefaultUserAgent,
		CacheSize: DefaultCacheSize,
		CacheTTL:  DefaultCacheTTL,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	e := &Extractor{client: client, opts: opts}
	if opts.CacheSize > 0 {
		e.cache = expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL)
	}

	return e
}

// NormalizeURL prefixes https:// when the input has no http(s) scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// Fetch downloads rawURL and returns its visible text, or an error string.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) string {
	target := NormalizeURL(rawURL)

	if e.cache != nil {
		if cached, ok := e.cache.Get(target); ok {
			e.opts.Logger.Debug("webfetch.cache.hit", "url", target)
			return cached
		}
	}

	start := time.Now()

	text, err := e.fetch(ctx, target)
	if err != nil {
		e.opts.Logger.Warn("webfetch.fetch.error", "url", target, "error", err.Error())
		return ErrorPrefix + err.Error()
	}

	text = Truncate(text, e.opts.MaxChars)

	e.opts.Logger.Info("webfetch.fetch.done", "url", target, "chars", len([]rune(text)), "duration_ms", time.Since(start).Milliseconds())

	if e.cache != nil {
		e.cache.Add(target, text)
	}

	return text
}

func (e *Extractor) fetch(ctx context.Context, target string) (string, error) {
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", e.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %s for url %s", resp.Status, target)
	}

	return ExtractText(io.LimitReader(resp.Body, maxBodyBytes))
}

// ExtractText parses HTML, drops script and style elements and collapses the
// remaining text: lines are trimmed, split on double spaces and the non-empty
// pieces joined by single spaces.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style").Remove()

	return CollapseWhitespace(doc.Text()), nil
}

// CollapseWhitespace normalizes extracted page text into a single line.
func CollapseWhitespace(text string) string {
	var chunks []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, phrase := range strings.Split(line, "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}

	return strings.Join(chunks, " ")
}

// Truncate limits s to max characters. A non-positive max disables the limit.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}

	r := []rune(s)
	if len(r) <= max {
		return s
	}

	return string(r[:max])
}
