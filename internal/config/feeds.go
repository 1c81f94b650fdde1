package config

import (
	"bufio"
	"net/url"
	"os"
	"strings"
)

// ParseFeedFile reads a file containing feed URLs, one per line.
// Blank lines and lines starting with # are ignored, as are lines that are
// not absolute http(s) URLs.
func ParseFeedFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !isFeedURL(line) {
			continue
		}

		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// CollectFeeds combines configured feeds and file entries, deduplicating.
// Configured feeds come first, then file entries, in order of first appearance.
func CollectFeeds(configured []string, filePath string) ([]string, error) {
	seen := make(map[string]bool)
	var urls []string

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	for _, u := range configured {
		add(u)
	}

	if filePath != "" {
		fileURLs, err := ParseFeedFile(filePath)
		if err != nil {
			return nil, err
		}
		for _, u := range fileURLs {
			add(u)
		}
	}

	return urls, nil
}

func isFeedURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
