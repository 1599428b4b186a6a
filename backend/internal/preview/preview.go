package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	apperrors "wayfarer/backend/pkg/errors"
)

const maxBodyBytes = 2 << 20 // 2 MiB is plenty for a head section

// Metadata is the page summary shown next to an event's external website
type Metadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SiteName    string `json:"site_name"`
}

// Fetcher retrieves Open Graph style metadata from external event pages
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the given request timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads a page and extracts its preview metadata
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, apperrors.Validation("A valid http(s) URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	req.Header.Set("User-Agent", "wayfarer-preview/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to fetch page",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(http.MaxBytesReader(nil, resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to parse page", err)
	}

	return extract(parsed.String(), doc), nil
}

func extract(pageURL string, doc *goquery.Document) *Metadata {
	meta := &Metadata{URL: pageURL}

	meta.Title = firstOf(doc,
		metaContent("meta[property='og:title']"),
		metaContent("meta[name='twitter:title']"),
		func(d *goquery.Document) string { return strings.TrimSpace(d.Find("title").First().Text()) },
	)
	meta.Description = firstOf(doc,
		metaContent("meta[property='og:description']"),
		metaContent("meta[name='twitter:description']"),
		metaContent("meta[name='description']"),
	)
	meta.Image = firstOf(doc,
		metaContent("meta[property='og:image']"),
		metaContent("meta[name='twitter:image']"),
	)
	meta.SiteName = firstOf(doc, metaContent("meta[property='og:site_name']"))

	return meta
}

func metaContent(selector string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		content, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(content)
	}
}

func firstOf(doc *goquery.Document, extractors ...func(*goquery.Document) string) string {
	for _, fn := range extractors {
		if v := fn(doc); v != "" {
			return v
		}
	}
	return ""
}
