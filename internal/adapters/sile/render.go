// Package sile renders briefing sections as SILE markup and compiles the
// document with the sile binary.
package sile

import (
	"fmt"
	"strings"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/ports"
)

// Image bounds for comic panels, in inches.
const (
	ComicMaxWidth  = 7.0
	ComicMaxHeight = 8.0
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`{`, `\{`,
	`}`, `\}`,
	`%`, `\%`,
)

// Escape makes text safe to embed in SILE markup.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Define wraps body in a \define block for the <name>section command the
// main document calls.
func Define(name, body string) string {
	return fmt.Sprintf("\\define[command=%ssection]{\n%s\n}", name, body)
}

// Placeholder renders a section that could not be built.
func Placeholder(name, title string, err error) string {
	var b strings.Builder
	b.WriteString("\\sectionbox{\n")
	fmt.Fprintf(&b, "\\sectiontitle{%s}\n", Escape(title))
	fmt.Fprintf(&b, "\\Subtle{Unavailable: %s}\n", Escape(err.Error()))
	b.WriteString("}")
	return Define(name, b.String())
}

// RSS renders one box per feed section.
func RSS(sections []domain.FeedSection) string {
	boxes := make([]string, 0, len(sections))
	for _, s := range sections {
		lines := []string{"\\sectionbox{", fmt.Sprintf("\\sectiontitle{%s}", Escape(s.Title))}
		for _, it := range s.Items {
			lines = append(lines, fmt.Sprintf("\\rssItemTitle{%s}", Escape(it.Title)))
			if it.Summary != "" {
				lines = append(lines, fmt.Sprintf("\\rssSubtitle{%s}", Escape(it.Summary)))
			}
			lines = append(lines, "\\par")
		}
		lines = append(lines, "}")
		boxes = append(boxes, strings.Join(lines, "\n"))
	}
	return Define("rss", strings.Join(boxes, "\n"))
}

// Comics renders entries grouped by consecutive source. Entries without a
// usable extraction render as "<title> couldn't be parsed".
func Comics(entries []domain.ComicEntry) string {
	var groups []string
	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && entries[end].Item.Source == entries[start].Item.Source {
			end++
		}
		groups = append(groups, comicGroup(entries[start:end]))
		start = end
	}

	body := fmt.Sprintf("  \\sectionbox{\n    \\sectiontitle{Comics}\n%s\n  }",
		strings.Join(groups, "\n    \\rssGroupSeparator\n"))
	return Define("comics", body)
}

func comicGroup(entries []domain.ComicEntry) string {
	source := entries[0].Item.Source
	if source == "" {
		source = "Comic"
	}

	lines := []string{fmt.Sprintf("    \\rssGroupTitle{%s}", Escape(source))}
	for _, e := range entries {
		title := Escape(e.Item.Title)
		if !e.Parsed() {
			lines = append(lines, fmt.Sprintf("    \\rssItemTitle{%s couldn't be parsed}", title))
			lines = append(lines, "    \\rssItemSeparator")
			continue
		}

		lines = append(lines, fmt.Sprintf("    \\rssItemTitle{%s}", title))
		if e.Extraction.TitleText != "" {
			lines = append(lines, fmt.Sprintf("    \\rssSubtitle{%s}", Escape(e.Extraction.TitleText)))
		}
		for _, img := range e.Images {
			lines = append(lines, "    "+Img(img, ComicMaxWidth, ComicMaxHeight))
		}
		for _, txt := range e.Extraction.ExtraText {
			lines = append(lines, fmt.Sprintf("    \\rssSubtitle{%s}", Escape(txt)))
		}
		lines = append(lines, "    \\rssItemSeparator")
	}
	return strings.Join(lines, "\n")
}

// Img renders an \img command for a local image, sized to fit the bounds.
// Images without a known size are left to the typesetter.
func Img(img domain.LocalImage, maxW, maxH float64) string {
	src := strings.ReplaceAll(img.Path, `"`, "%22")
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Sprintf(`\img[src="%s"]`, src)
	}
	w, h := domain.FitInches(img.Width, img.Height, maxW, maxH)
	return fmt.Sprintf(`\img[src="%s", width=%.3fin, height=%.3fin]`, src, w, h)
}

// Weather renders the forecast summary and hourly table.
func Weather(f *domain.Forecast) string {
	s := f.Summary()

	lines := []string{"\\sectionbox{", "\\sectiontitle{Weather}"}
	if s.Hours == 0 {
		lines = append(lines, "\\Subtle{No forecast available}")
	} else {
		lines = append(lines, fmt.Sprintf("\\weatherSummary{Low %.1f°C, high %.1f°C, %.0f\\%% chance of rain at %s}",
			s.LowC, s.HighC, s.MaxPrecipPct, Escape(hourOf(s.MaxPrecipTime))))
		for _, h := range f.Hours {
			lines = append(lines, fmt.Sprintf("\\weatherHour{%s}{%.1f}{%.0f}{%.0f}",
				Escape(hourOf(h.Time)), h.TemperatureC, h.HumidityPct, h.PrecipPct))
		}
	}
	lines = append(lines, "}")
	return Define("weather", strings.Join(lines, "\n"))
}

// hourOf returns the HH:MM part of an ISO local time.
func hourOf(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[i+1:]
	}
	return ts
}

// Document joins rendered section blocks.
func Document(blocks ...string) string {
	var b strings.Builder
	for _, block := range blocks {
		if block == "" {
			continue
		}
		b.WriteString(block)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Markup implements ports.Renderer with the functions in this package.
type Markup struct{}

func (Markup) RSS(sections []domain.FeedSection) string         { return RSS(sections) }
func (Markup) Comics(entries []domain.ComicEntry) string        { return Comics(entries) }
func (Markup) Weather(f *domain.Forecast) string                { return Weather(f) }
func (Markup) Placeholder(name, title string, err error) string { return Placeholder(name, title, err) }
func (Markup) Document(blocks ...string) string                 { return Document(blocks...) }

var _ ports.Renderer = Markup{}
