package assistant

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return NewClient("test-key", "gpt-4o-mini", 0.7, 30*time.Second, zap.NewNop())
}

func TestSuggestItinerary_RequiresDestinations(t *testing.T) {
	c := newTestClient()
	_, err := c.SuggestItinerary(context.Background(), "   ", 3, 1000)
	require.Error(t, err)
}

func TestReceiptPages_ImagePassthrough(t *testing.T) {
	c := newTestClient()
	data := []byte("fake image bytes")

	pages, err := c.receiptPages(data, "image/png")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, data, pages[0].data)
	assert.Equal(t, "image/png", pages[0].mimeType)
}

func TestReceiptPages_RejectsInvalidPDF(t *testing.T) {
	c := newTestClient()
	_, err := c.receiptPages([]byte("not a pdf"), "application/pdf")
	assert.Error(t, err)
}

func TestBuildReceiptPrompt_ListsCategories(t *testing.T) {
	c := newTestClient()
	prompt := c.buildReceiptPrompt()
	assert.Contains(t, prompt, "Alimentação")
	assert.Contains(t, prompt, "Outros")
	assert.Contains(t, prompt, `"category"`)
}

func TestRequestContext_AppliesTimeout(t *testing.T) {
	c := newTestClient()
	ctx, cancel := c.requestContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, time.Second)
}

// TestSuggestItineraryLive exercises the real API. It requires
// OPENAI_API_KEY and is skipped otherwise.
// Run with: go test -v -run TestSuggestItineraryLive ./internal/assistant/...
func TestSuggestItineraryLive(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping live suggestion test")
	}

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	defer logger.Sync()

	c := NewClient(apiKey, "gpt-4o-mini", 0.7, 30*time.Second, logger)

	suggestions, err := c.SuggestItinerary(context.Background(), "Lisboa", 2, 2000)
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
	for _, s := range suggestions {
		assert.GreaterOrEqual(t, s.Day, 1)
		assert.NotEmpty(t, s.Activity)
	}
}
