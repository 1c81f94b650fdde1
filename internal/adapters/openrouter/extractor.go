// Package openrouter structures webcomic pages with a language model served
// through an OpenAI-compatible endpoint.
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/devbush/daybrief/internal/domain"
	"github.com/devbush/daybrief/internal/logger"
	"github.com/devbush/daybrief/internal/ports"
)

// DefaultBaseURL is the OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const maxTokens = 800

const systemPrompt = `You are a precise webcomic extraction assistant. Parse the provided HTML for a webcomic page and return a STRICT JSON object with the following keys:
  - "title_text": string (comic title/header; empty if not found)
  - "images": array of strings (absolute image URLs in reading order, excluding hidden_image)
  - "extra_text": array of strings (short descriptive text blocks, in order)
  - "hidden_image": string or null (some comics include a second hidden panel)
Rules:
- Only include the main text content specific to this comic. Do not include text which is on every comic page.
- Do NOT include transcript. Do NOT include alt-text.
- ALWAYS include mouseover text. ALWAYS include explanation text.
- Include multiple images if the comic has panels split across <img> tags.
- If unsure about a hidden second comic, set hidden_image to null.
- Output ONLY a valid JSON object. No markdown fences, no prose.`

// Extractor implements ports.ComicExtractor
type Extractor struct {
	client *openai.Client
	model  string
	token  string
}

// NewExtractor creates an extractor for model at baseURL. An empty token is
// accepted here and reported by Extract.
func NewExtractor(token, baseURL, model string) *Extractor {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = &http.Client{
		Timeout:   90 * time.Second,
		Transport: headerTransport{base: http.DefaultTransport},
	}

	return &Extractor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		token:  token,
	}
}

// headerTransport adds OpenRouter attribution and retention headers.
type headerTransport struct {
	base http.RoundTripper
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", "daybrief comics")
	req.Header.Set("X-OpenRouter-Zero-Data-Retention", "true")
	return t.base.RoundTrip(req)
}

// Extract asks the model to structure page and validates its reply.
func (e *Extractor) Extract(ctx context.Context, pageURL string, page []byte) (*domain.ComicExtraction, error) {
	if strings.TrimSpace(e.token) == "" {
		return nil, domain.ErrMissingAPIToken
	}
	if strings.TrimSpace(pageURL) == "" {
		return nil, fmt.Errorf("%w: url is empty", domain.ErrInvalidExtraction)
	}

	condensed, err := Condense(page)
	if err != nil {
		return nil, fmt.Errorf("failed to condense %s: %w", pageURL, err)
	}

	logger.Debug("comic extraction request", "url", pageURL, "model", e.model, "chars", len(condensed))
	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("URL: %s\nHTML:\n%s", pageURL, condensed)},
		},
		Temperature: 0,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("comic extraction failed for %s: %w", pageURL, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("comic extraction failed for %s: no choices returned", pageURL)
	}

	logger.Debug("comic extraction response",
		"url", pageURL,
		"duration", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return ParseReply(pageURL, resp.Choices[0].Message.Content)
}

// reply mirrors the JSON the model is asked for. Decoding fails when a field
// has the wrong type.
type reply struct {
	TitleText   *string  `json:"title_text"`
	Images      []string `json:"images"`
	ExtraText   []string `json:"extra_text"`
	HiddenImage *string  `json:"hidden_image"`
}

// ParseReply decodes and validates a model reply for pageURL. Relative image
// URLs are resolved against the page.
func ParseReply(pageURL, content string) (*domain.ComicExtraction, error) {
	content = stripFences(content)

	var r reply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidExtraction, err)
	}

	ext := &domain.ComicExtraction{
		URL:       pageURL,
		Images:    make([]string, 0, len(r.Images)),
		ExtraText: make([]string, 0, len(r.ExtraText)),
	}
	if r.TitleText != nil {
		ext.TitleText = strings.TrimSpace(*r.TitleText)
	}
	for _, img := range r.Images {
		ext.Images = append(ext.Images, resolve(pageURL, img))
	}
	for _, txt := range r.ExtraText {
		if txt = strings.TrimSpace(txt); txt != "" {
			ext.ExtraText = append(ext.ExtraText, txt)
		}
	}
	if r.HiddenImage != nil && strings.TrimSpace(*r.HiddenImage) != "" {
		ext.HiddenImage = resolve(pageURL, *r.HiddenImage)
	}

	if err := ext.Validate(); err != nil {
		return nil, err
	}
	return ext, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

var _ ports.ComicExtractor = (*Extractor)(nil)
