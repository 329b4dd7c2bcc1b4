package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Params are the attributes collected by the story creation flow.
type Params struct {
	Age       int
	Gender    string
	Interests []string
	Style     string
	Lesson    string
	Length    string
}

// Result is a generated story. Title and Story are always non-empty when the
// error is nil.
type Result struct {
	Title string
	Story string
}

// TextGenerator produces a story from the collected attributes.
type TextGenerator interface {
	Generate(ctx context.Context, params Params) (*Result, error)
}

// OllamaGenerator generates stories via an Ollama-compatible endpoint.
type OllamaGenerator struct {
	client *api.Client
	model  string
}

func NewOllamaGenerator(baseURL, model string) (*OllamaGenerator, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		// If env-based client fails, create one with the base URL
		parsedURL, parseErr := url.Parse(baseURL)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid base URL: %w", parseErr)
		}
		client = api.NewClient(parsedURL, nil)
	}

	return &OllamaGenerator{
		client: client,
		model:  model,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, params Params) (*Result, error) {
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: buildPrompt(params),
		Stream: new(bool), // false
		Options: map[string]interface{}{
			"temperature": 0.8,
		},
	}

	var fullResponse strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		fullResponse.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}

	result, err := parseResponse(fullResponse.String())
	if err != nil {
		return nil, err
	}

	slog.Info("story generated", "model", g.model, "title", result.Title)

	return result, nil
}

// buildPrompt asks for the title on the first line so the response can be
// split without structured output support.
func buildPrompt(params Params) string {
	var b strings.Builder

	b.WriteString("You are a children's bedtime story writer.\n\n")
	fmt.Fprintf(&b, "Write a %s bedtime story for a %d year old", styleWord(params.Style), params.Age)
	if params.Gender != "" {
		fmt.Fprintf(&b, " (%s)", strings.ToLower(params.Gender))
	}
	b.WriteString(".\n")

	if len(params.Interests) > 0 {
		fmt.Fprintf(&b, "The child loves: %s.\n", strings.Join(params.Interests, ", "))
	}
	if params.Lesson != "" {
		fmt.Fprintf(&b, "The story should gently teach a lesson about %s.\n", params.Lesson)
	}
	fmt.Fprintf(&b, "Make it %s.\n", lengthHint(params.Length))

	b.WriteString("\nRespond with the story title on the first line, followed by a blank line, then the story text. Do not use markdown headings.")

	return b.String()
}

func styleWord(style string) string {
	style = strings.TrimSpace(strings.ToLower(style))
	if style == "" {
		return "gentle"
	}
	return style
}

func lengthHint(length string) string {
	switch strings.ToLower(length) {
	case "short":
		return "about 3 paragraphs long"
	case "long":
		return "about 10 paragraphs long"
	default:
		return "about 6 paragraphs long"
	}
}

// parseResponse splits the first line off as the title. Quotes and heading
// markers around the title are stripped.
func parseResponse(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty generation response")
	}

	title, body, found := strings.Cut(text, "\n")
	if !found {
		return nil, fmt.Errorf("generation response has no story body")
	}

	title = strings.TrimSpace(title)
	title = strings.TrimLeft(title, "# ")
	title = strings.Trim(title, `"“”`)
	title = strings.TrimPrefix(title, "Title:")
	title = strings.TrimSpace(title)

	body = strings.TrimSpace(body)

	if title == "" || body == "" {
		return nil, fmt.Errorf("generation response missing title or body")
	}

	return &Result{Title: title, Story: body}, nil
}
