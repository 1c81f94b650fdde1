package feeds

import (
	"context"
	"testing"
	"time"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example &amp; Co</title>
  <link>https://example.com/</link>
  <item>
    <title>First &amp;amp; Best</title>
    <link>https://example.com/1</link>
    <pubDate>Wed, 15 Jan 2025 06:00:00 GMT</pubDate>
    <description><![CDATA[<p>Hello <b>world</b></p><script>alert(1)</script><p>again</p>]]></description>
  </item>
  <item>
    <title></title>
    <guid>https://example.com/2</guid>
  </item>
</channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>xkcd.com</title>
  <entry>
    <title>Comic</title>
    <link href="https://xkcd.com/3000/"/>
    <updated>2025-01-14T00:00:00Z</updated>
    <id>https://xkcd.com/3000/</id>
  </entry>
</feed>`

func TestParser_Parse_RSS(t *testing.T) {
	now := time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC)
	p := NewParser()
	p.now = func() time.Time { return now }

	section, err := p.Parse(context.Background(), "https://example.com/feed.xml", []byte(rssFixture))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if section.Title != "Example & Co" {
		t.Errorf("Title = %q, want %q", section.Title, "Example & Co")
	}
	if len(section.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(section.Items))
	}

	first := section.Items[0]
	if first.Link != "https://example.com/1" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.SourceHost != "example.com" || first.SourceSlug != "example-co" {
		t.Errorf("source = %q/%q", first.SourceHost, first.SourceSlug)
	}
	if !first.Published.Equal(time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)) {
		t.Errorf("Published = %v", first.Published)
	}
	if first.Summary != "Hello world again" {
		t.Errorf("Summary = %q, want %q", first.Summary, "Hello world again")
	}

	second := section.Items[1]
	if second.Title != "(untitled)" || second.Slug != "untitled" {
		t.Errorf("untitled item = %q/%q", second.Title, second.Slug)
	}
	if second.Link != "https://example.com/2" {
		t.Errorf("Link fallback = %q, want guid", second.Link)
	}
	if !second.Published.Equal(now) {
		t.Errorf("Published fallback = %v, want %v", second.Published, now)
	}
}

func TestParser_Parse_Atom(t *testing.T) {
	p := NewParser()
	section, err := p.Parse(context.Background(), "https://xkcd.com/atom.xml", []byte(atomFixture))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if section.Title != "xkcd.com" || len(section.Items) != 1 {
		t.Fatalf("section = %+v", section)
	}
	if !section.Items[0].Published.Equal(time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Published from updated = %v", section.Items[0].Published)
	}
}

func TestParser_Parse_Invalid(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse(context.Background(), "https://example.com/", []byte("<html><body>nope</body></html>")); err == nil {
		t.Error("Parse() expected error for non-feed input")
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"", 10, ""},
		{"plain", 0, "plain"},
		{"<p>a</p><p>b</p>", 0, "a b"},
		{"x &lt;y&gt;", 0, "x <y>"},
		{"<style>p{}</style>kept", 0, "kept"},
		{"abcdefghij", 4, "abcd…"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := PlainText(tt.in, tt.limit); got != tt.want {
				t.Errorf("PlainText(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}
