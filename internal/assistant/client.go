// Package assistant calls the AI service for itinerary suggestions and
// receipt extraction. Calls are one-shot: no retry, no partial results; a
// failure surfaces as a single error and leaves state unchanged.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/models"
)

// Client wraps the OpenAI API for the assistant features.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewClient creates a new assistant client
func NewClient(apiKey, model string, temperature float32, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

// requestContext bounds a single external call.
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// suggestionEnvelope wraps the suggestion list because JSON mode requires a
// top-level object.
type suggestionEnvelope struct {
	Suggestions []models.SuggestionItem `json:"suggestions"`
}

// SuggestItinerary asks for a day-by-day activity list for the given
// destinations, day count and budget. Day count is floored at 1.
func (c *Client) SuggestItinerary(ctx context.Context, destinations string, days int, budget float64) ([]models.SuggestionItem, error) {
	if strings.TrimSpace(destinations) == "" {
		return nil, fmt.Errorf("no destinations to suggest for")
	}
	if days < 1 {
		days = 1
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	c.logger.Info("Requesting itinerary suggestions",
		zap.String("destinations", destinations),
		zap.Int("days", days),
		zap.Float64("budget", budget))

	prompt := fmt.Sprintf(`Create a suggested itinerary for a %d-day trip to %s with a total budget of %.2f.
Focus on popular tourist attractions and local food.

Return a JSON object with this exact structure:
{
  "suggestions": [
    {"day": number, "activity": "string", "location": "string", "estimatedCost": number}
  ]
}

- day is the trip day number (1, 2, 3...)
- activity is the name of the activity or place to visit
- location is the city or specific area
- estimatedCost is the estimated cost per person in local currency`, days, destinations, budget)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful travel assistant. Provide concise, exciting activity suggestions. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Error("Suggestion API call failed", zap.Error(err))
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from suggestion service")
	}

	content := resp.Choices[0].Message.Content

	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		c.logger.Error("Failed to parse suggestion response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	c.logger.Info("Itinerary suggestions received", zap.Int("count", len(envelope.Suggestions)))
	return envelope.Suggestions, nil
}
