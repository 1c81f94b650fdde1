package domain

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FeedItem is a single normalized entry from an RSS/Atom feed.
type FeedItem struct {
	Title      string    `json:"title"`
	Link       string    `json:"link"`
	Source     string    `json:"source"`
	SourceSlug string    `json:"source_slug"`
	SourceHost string    `json:"source_host"`
	Slug       string    `json:"slug"`
	Published  time.Time `json:"published"`
	Summary    string    `json:"summary,omitempty"`
	Failed     bool      `json:"failed,omitempty"` // placeholder for a feed that could not be loaded
}

// FeedSection groups the items of one feed under its title.
type FeedSection struct {
	Title string     `json:"title"`
	URL   string     `json:"url"`
	Items []FeedItem `json:"items"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a lowercase dash-separated identifier.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = html.UnescapeString(s)
	s = slugPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// HostOf returns the host part of a URL, or the input when it does not parse.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// ErrorItem builds the placeholder shown in place of a feed that failed.
func ErrorItem(feedURL string, err error, now time.Time) FeedItem {
	host := HostOf(feedURL)
	return FeedItem{
		Title:      fmt.Sprintf("Error fetching %s", host),
		Link:       feedURL,
		Source:     host,
		SourceSlug: Slugify(host),
		SourceHost: host,
		Slug:       "error-fetching-feed",
		Published:  now.UTC(),
		Summary:    err.Error(),
		Failed:     true,
	}
}

// FilterSince drops items published before since. Failure placeholders are
// always kept so a broken feed stays visible.
func FilterSince(items []FeedItem, since time.Time) []FeedItem {
	if since.IsZero() {
		return items
	}

	out := make([]FeedItem, 0, len(items))
	for _, it := range items {
		if it.Failed || !it.Published.Before(since) {
			out = append(out, it)
		}
	}
	return out
}
