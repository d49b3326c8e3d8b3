package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
)

const systemPrompt = "You are an expert financial analyst. You are given a stock's " +
	"recent price momentum, its news headlines with sentiment scores, and the " +
	"market pulse already determined from those signals. Write a concise, " +
	"data-driven explanation of why the data supports that pulse. Respond with " +
	"plain text only, no markdown."

// Generator produces the natural-language rationale for a classified
// pulse using the OpenAI chat completions API.
type Generator struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

// NewGenerator creates an explanation generator. model defaults to
// gpt-4o-mini when empty.
func NewGenerator(apiKey, model string, timeout time.Duration) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &Generator{
		client:  client,
		model:   openai.ChatModel(model),
		timeout: timeout,
	}, nil
}

// Generate renders the payload into an analyst prompt and returns the
// model's free-text rationale verbatim. The explanation is mandatory for
// a complete response, so failures propagate.
func (g *Generator) Generate(ctx context.Context, payload *models.PulsePayload) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildUserPrompt(payload)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("llm: %w", repository.ErrUpstreamTimeout)
		}
		return "", fmt.Errorf("llm: %v: %w", err, repository.ErrUpstream)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion: %w", repository.ErrUpstream)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("llm: blank explanation: %w", repository.ErrUpstream)
	}
	return text, nil
}

// BuildUserPrompt lays out every numeric signal that contributed to the
// classification, one section per source.
func BuildUserPrompt(p *models.PulsePayload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following data for the stock ticker %s:\n", p.Ticker)
	fmt.Fprintf(&b, "- Price Momentum:\n")
	fmt.Fprintf(&b, "  - The last 5 daily returns are %v (in %%).\n", p.Returns)
	fmt.Fprintf(&b, "  - The simple momentum score (sum of returns) is %.2f.\n", p.SimpleScore)
	if p.AdvancedScore != nil {
		fmt.Fprintf(&b, "  - The advanced momentum score (%% difference from 20-day SMA) is %.2f%%.\n", *p.AdvancedScore)
	}
	fmt.Fprintf(&b, "- Recent News with Sentiment Scores:\n")
	if len(p.News) == 0 {
		b.WriteString("  No news headlines available.\n")
	}
	for i, art := range p.News {
		fmt.Fprintf(&b, "  %d. Title: %s (Sentiment: %.2f)\n     Description: %s\n", i+1, art.Title, art.Sentiment, art.Description)
	}
	fmt.Fprintf(&b, "- Mean news sentiment: %.4f\n", p.MeanSentiment)
	fmt.Fprintf(&b, "- Combined momentum+sentiment signal: %.2f\n", p.CombinedSignal)
	fmt.Fprintf(&b, "- Determined market pulse: %s\n", p.Pulse)
	b.WriteString("\nExplain why the data supports this pulse.")

	return b.String()
}
