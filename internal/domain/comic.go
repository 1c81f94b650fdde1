package domain

import (
	"fmt"
	"strings"
)

// ComicExtraction is the structured result of reading a webcomic page.
type ComicExtraction struct {
	URL         string   `json:"url"`
	TitleText   string   `json:"title_text"`
	Images      []string `json:"images"`       // absolute image URLs in reading order
	ExtraText   []string `json:"extra_text"`   // mouseover and explanation text blocks
	HiddenImage string   `json:"hidden_image"` // bonus panel, empty if none
}

// Validate checks the invariants a renderer relies on.
func (c *ComicExtraction) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("%w: url is empty", ErrInvalidExtraction)
	}
	for i, img := range c.Images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("%w: image %d is empty", ErrInvalidExtraction, i)
		}
	}
	return nil
}

// AllImages returns the panels followed by the hidden image, if any.
func (c *ComicExtraction) AllImages() []string {
	imgs := make([]string, 0, len(c.Images)+1)
	imgs = append(imgs, c.Images...)
	if strings.TrimSpace(c.HiddenImage) != "" {
		imgs = append(imgs, c.HiddenImage)
	}
	return imgs
}

// LocalImage is a downloaded image converted to PNG on disk.
type LocalImage struct {
	URL    string `json:"url"`
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ComicEntry is one feed item together with its extraction. Error is set
// instead of Extraction when the page could not be structured.
type ComicEntry struct {
	Item       FeedItem         `json:"item"`
	Extraction *ComicExtraction `json:"extraction,omitempty"`
	Images     []LocalImage     `json:"images,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Parsed reports whether the entry has a usable extraction.
func (e *ComicEntry) Parsed() bool {
	return e.Error == "" && e.Extraction != nil
}
