package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// FirstCandidate is the index of the completion used from the provider response.
	FirstCandidate = 0

	// FallbackText is sent when no personalized content is available.
	FallbackText = "Thank you for your interest! Our team is reviewing your details and will be in touch shortly with ideas tailored to your business."

	maxGeneratorResponseBytes = 1 << 20
	defaultGeneratorTimeout   = 15 * time.Second
)

var (
	promptTemplate = template.Must(template.New("prompt").Parse(
		`A prospective customer from the {{.Industry}} industry just asked to hear from us. ` +
			`Write one short, warm paragraph (under 120 words) for their confirmation email that ` +
			`mentions a concrete way we help {{.Industry}} businesses. Plain text only, no greeting or signature.`))
)

const systemPrompt = "You write concise, friendly B2B follow-up copy."

// Content is the body copy for a confirmation email. It is always usable:
// when generation fails it holds FallbackText.
type Content struct {
	Text         string
	Personalized bool
}

// FallbackContent returns the generic, non-personalized content.
func FallbackContent() Content {
	return Content{Text: FallbackText}
}

// GeneratorConfig configures the chat-completions client.
type GeneratorConfig struct {
	APIURL     string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// ContentGenerator requests personalized copy from an OpenAI-compatible API.
type ContentGenerator struct {
	client *http.Client
	apiURL string
	apiKey string
	model  string
}

// NewContentGenerator builds a generator. A missing API key yields fallback content on every call.
func NewContentGenerator(cfg GeneratorConfig) *ContentGenerator {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultGeneratorTimeout}
	}
	return &ContentGenerator{
		client: client,
		apiURL: strings.TrimSpace(cfg.APIURL),
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  strings.TrimSpace(cfg.Model),
	}
}

// Generate makes a single attempt to produce copy for the industry. On any
// failure it returns FallbackContent together with an error wrapping ErrGeneration.
func (g *ContentGenerator) Generate(ctx context.Context, industry string) (Content, error) {
	if g.apiKey == "" || g.apiURL == "" {
		return FallbackContent(), fmt.Errorf("%w: generator not configured", ErrGeneration)
	}

	prompt, err := BuildPrompt(industry)
	if err != nil {
		return FallbackContent(), fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	body, err := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"max_tokens": 300,
	})
	if err != nil {
		return FallbackContent(), fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return FallbackContent(), fmt.Errorf("%w: build request: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return FallbackContent(), fmt.Errorf("%w: request failed: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxGeneratorResponseBytes))
	if err != nil {
		return FallbackContent(), fmt.Errorf("%w: read response: %v", ErrGeneration, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FallbackContent(), fmt.Errorf("%w: provider status %d", ErrGeneration, resp.StatusCode)
	}

	text, ok := ExtractContent(payload)
	if !ok {
		return FallbackContent(), fmt.Errorf("%w: response has no usable content", ErrGeneration)
	}
	return Content{Text: text, Personalized: true}, nil
}

// ExtractContent reads the first candidate's message content. Every step of
// the path is presence-checked; anything other than a non-blank string is absent.
func ExtractContent(payload []byte) (string, bool) {
	if len(payload) == 0 || !gjson.ValidBytes(payload) {
		return "", false
	}
	choices := gjson.GetBytes(payload, "choices")
	if !choices.IsArray() {
		return "", false
	}
	candidates := choices.Array()
	if len(candidates) <= FirstCandidate {
		return "", false
	}
	message := candidates[FirstCandidate].Get("message")
	if !message.IsObject() {
		return "", false
	}
	content := message.Get("content")
	if content.Type != gjson.String {
		return "", false
	}
	text := strings.TrimSpace(content.String())
	if text == "" {
		return "", false
	}
	return text, true
}

// BuildPrompt renders the generation prompt for an industry.
func BuildPrompt(industry string) (string, error) {
	label := strings.ReplaceAll(strings.TrimSpace(industry), "_", " ")
	if label == "" {
		label = "general"
	}
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, map[string]string{"Industry": label}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
