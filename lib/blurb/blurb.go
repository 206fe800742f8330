package blurb

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces a one-line note for a movie via OpenAI. With no API
// key the generator is disabled and adds stay note-less.
type Generator struct {
	client *openai.Client
	logger *slog.Logger
}

func New(apiKey string, logger *slog.Logger) *Generator {
	g := &Generator{logger: logger}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
	}
	return g
}

func (g *Generator) Enabled() bool {
	return g.client != nil
}

// Generate asks for a single-sentence, spoiler-free note about the movie.
func (g *Generator) Generate(ctx context.Context, title string, year int) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("blurb generation is disabled: no API key configured")
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("Write one short, spoiler-free sentence about the movie %q (%d) for a personal watchlist. Output only the sentence.", title, year),
		},
	}

	req := openai.ChatCompletionRequest{
		Model:    openai.GPT4oMini20240718,
		Messages: messages,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate note: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion for %q", title)
	}

	note := strings.TrimSpace(resp.Choices[0].Message.Content)
	note = strings.Trim(note, `"`)

	g.logger.Debug("Generated note", slog.String("title", title), slog.String("note", note))
	return note, nil
}
