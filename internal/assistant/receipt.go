package assistant

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"strings"

	"github.com/gen2brain/go-fitz"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/models"
)

// PDF receipts are rendered page by page; only the first pages go to the
// vision model to keep request size bounded.
const maxReceiptPages = 2

// AnalyzeReceipt extracts an expense record from a receipt image or PDF.
// The result carries a canonical category label; anything the model invents
// falls back to "Outros".
func (c *Client) AnalyzeReceipt(ctx context.Context, data []byte, mimeType string) (*models.ExtractedExpense, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	c.logger.Info("Analyzing receipt", zap.String("mime_type", mimeType), zap.Int("size_bytes", len(data)))

	pages, err := c.receiptPages(data, mimeType)
	if err != nil {
		return nil, err
	}

	contentParts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: c.buildReceiptPrompt(),
		},
	}
	for _, page := range pages {
		contentParts = append(contentParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", page.mimeType, base64.StdEncoding.EncodeToString(page.data)),
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   1024,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert in reading receipts and invoices. Extract the total amount and merchant with perfect accuracy. Always respond with valid JSON.",
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: contentParts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Error("Receipt analysis call failed", zap.Error(err))
		return nil, fmt.Errorf("receipt analysis failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from receipt analysis")
	}

	content := resp.Choices[0].Message.Content

	var extracted models.ExtractedExpense
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		c.logger.Error("Failed to parse receipt analysis response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse receipt analysis: %w", err)
	}

	extracted.Category = models.CanonicalCategory(extracted.Category)
	if !models.ValidCategory(extracted.Category) {
		extracted.Category = models.CategoryOther
	}

	c.logger.Info("Receipt analyzed",
		zap.String("description", extracted.Description),
		zap.Float64("amount", extracted.Amount),
		zap.String("category", extracted.Category))

	return &extracted, nil
}

type receiptPage struct {
	data     []byte
	mimeType string
}

// receiptPages normalizes the upload into vision-ready images. Images pass
// through untouched; PDFs are rendered to JPEG pages with mupdf.
func (c *Client) receiptPages(data []byte, mimeType string) ([]receiptPage, error) {
	if !strings.EqualFold(mimeType, "application/pdf") {
		return []receiptPage{{data: data, mimeType: mimeType}}, nil
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF receipt: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount > maxReceiptPages {
		pageCount = maxReceiptPages
	}

	var pages []receiptPage
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			c.logger.Warn("Failed to render PDF page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			c.logger.Warn("Failed to encode PDF page to JPEG",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		pages = append(pages, receiptPage{data: buf.Bytes(), mimeType: "image/jpeg"})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages rendered from PDF receipt")
	}
	return pages, nil
}

// buildReceiptPrompt builds the extraction prompt for the vision request.
func (c *Client) buildReceiptPrompt() string {
	return fmt.Sprintf(`Analyze this receipt or invoice and extract:
- description: a brief description (the merchant name)
- amount: the total amount paid, as a number without currency symbols
- category: exactly one of: %s

Return a JSON object with this exact structure:
{"description": "string", "amount": number, "category": "string"}

Extract exactly what you see. If the total is unclear, use 0.`, strings.Join(models.Categories, ", "))
}
