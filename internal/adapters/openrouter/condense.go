package openrouter

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxPageChars bounds the page text sent to the model.
const MaxPageChars = 50000

var errEmptyPage = errors.New("page is empty after condensing")

// dropped elements never carry comic content.
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
}

// Condense strips non-content elements and comments from a page, collapses
// whitespace and truncates the result to MaxPageChars characters.
func Condense(page []byte) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return "", err
	}

	prune(doc)

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", err
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" || out == "<html><head></head><body></body></html>" {
		return "", errEmptyPage
	}
	return truncateChars(out, MaxPageChars), nil
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode || (c.Type == html.ElementNode && dropped[c.Data]) {
			n.RemoveChild(c)
		} else {
			prune(c)
		}
		c = next
	}
}

func truncateChars(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
