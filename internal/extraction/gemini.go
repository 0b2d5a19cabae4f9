// Package extraction wraps the Gemini vision call that turns a receipt image
// into raw model text.
package extraction

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// extractionPromptV1 is the fixed instruction sent with every image. The
// downstream parser and normalizer assume the model was asked for exactly
// these field names, so the prompt must stay stable; a changed shape is a
// new prompt version, not an edit.
const extractionPromptV1 = "Extract the total amount, date, and platform from this transaction image. " +
	"If available, also extract items purchased and the vendor name.\n" +
	"Return the output in the following format:\n" +
	"```json\n" +
	"{\n" +
	"    \"Amount\": \"Total amount\",\n" +
	"    \"Date\": \"Date of transaction\",\n" +
	"    \"Platform\": \"Platform used\",\n" +
	"    \"Items\": \"Items purchased\",\n" +
	"    \"Vendor\": \"Vendor name\"\n" +
	"}\n" +
	"```"

// Client is a long-lived handle to the Gemini API, initialized once at
// process startup and shared read-only across requests.
type Client struct {
	genai *genai.Client
	model string
	log   zerolog.Logger
}

// NewClient creates a Gemini extraction client.
func NewClient(ctx context.Context, apiKey, model string, log zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("extraction: missing API key")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: create genai client: %w", err)
	}

	return &Client{
		genai: client,
		model: model,
		log:   log,
	}, nil
}

// Extract sends the image and the fixed instruction to the model in a single
// synchronous call and returns the text response unmodified. There is no
// size or format validation here and no retry; both are the caller's
// responsibility.
func (c *Client) Extract(ctx context.Context, image []byte, mimeType string) (string, error) {
	if c == nil || c.genai == nil {
		return "", &pipeline.Failure{
			Kind:   pipeline.KindServiceUnavailable,
			Detail: "extraction client not initialized",
		}
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
				{Text: extractionPromptV1},
			},
		},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", &pipeline.Failure{
			Kind:   pipeline.KindRequestFailed,
			Detail: fmt.Sprintf("generate content: %v", err),
		}
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", &pipeline.Failure{
			Kind:   pipeline.KindRequestFailed,
			Detail: "empty response from model",
		}
	}

	c.log.Debug().Int("image_bytes", len(image)).Str("mime_type", mimeType).Msg("Extraction call completed")

	return rawText, nil
}
