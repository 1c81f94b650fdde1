package feeds

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	xhtml "golang.org/x/net/html"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// maxSummary bounds the plain-text summary kept per item, in runes.
const maxSummary = 400

// Parser implements ports.FeedParser using gofeed (RSS, Atom and JSON Feed).
type Parser struct {
	now func() time.Time
}

// NewParser creates a feed parser
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Parse normalizes body into a section. Items keep feed order.
func (p *Parser) Parse(ctx context.Context, feedURL string, body []byte) (*domain.FeedSection, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	host := domain.HostOf(feedURL)
	title := strings.TrimSpace(html.UnescapeString(feed.Title))
	if title == "" {
		title = host
	}

	section := &domain.FeedSection{
		Title: title,
		URL:   feedURL,
		Items: make([]domain.FeedItem, 0, len(feed.Items)),
	}

	for _, it := range feed.Items {
		if it == nil {
			continue
		}

		itemTitle := strings.TrimSpace(html.UnescapeString(it.Title))
		if itemTitle == "" {
			itemTitle = "(untitled)"
		}

		link := it.Link
		if link == "" {
			link = it.GUID
		}
		if link == "" {
			link = feedURL
		}

		summary := it.Description
		if summary == "" {
			summary = it.Content
		}

		section.Items = append(section.Items, domain.FeedItem{
			Title:      itemTitle,
			Link:       link,
			Source:     title,
			SourceSlug: domain.Slugify(title),
			SourceHost: host,
			Slug:       domain.Slugify(itemTitle),
			Published:  p.published(it),
			Summary:    PlainText(summary, maxSummary),
		})
	}

	return section, nil
}

// published prefers the publish date, then the update date, then now.
func (p *Parser) published(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC()
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC()
	default:
		return p.now().UTC()
	}
}

// PlainText strips markup from an HTML fragment, collapses whitespace and
// truncates to limit runes (0 means no limit).
func PlainText(fragment string, limit int) string {
	if fragment == "" {
		return ""
	}

	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			return truncate(strings.Join(strings.Fields(b.String()), " "), limit)
		case xhtml.StartTagToken, xhtml.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if tt == xhtml.StartTagToken {
					skip++
				} else if skip > 0 {
					skip--
				}
			case "p", "br", "div", "li":
				b.WriteByte(' ')
			}
		case xhtml.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit])) + "…"
}

var _ ports.FeedParser = (*Parser)(nil)
