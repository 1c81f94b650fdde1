package ports

import "github.com/devbush/daybrief/internal/domain"

// Renderer turns section data into document markup.
type Renderer interface {
	RSS(sections []domain.FeedSection) string
	Comics(entries []domain.ComicEntry) string
	Weather(f *domain.Forecast) string

	// Placeholder renders a section that failed to build.
	Placeholder(name, title string, err error) string

	// Document joins rendered sections into one file.
	Document(blocks ...string) string
}
