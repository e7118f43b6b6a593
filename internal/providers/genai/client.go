package genai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	googlegenai "google.golang.org/genai"

	"studio/internal/infra"
)

// DefaultModel is the Gemini model used for image-to-image editing.
const DefaultModel = "gemini-2.5-flash-image"

// ErrNoImage is returned when the model answered without any inline image.
var ErrNoImage = errors.New("genai: response contained no inline image")

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client wraps the Gemini SDK for multimodal image editing calls.
type Client struct {
	sdk    *googlegenai.Client
	model  string
	logger *infra.Logger
}

// Part is one element of a multimodal request. A part carries either text or
// inline bytes.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart builds an inline data part.
func InlinePart(mime string, data []byte) Part {
	return Part{MIMEType: mime, Data: data}
}

// ImageRequest is a single user turn. Parts are sent in order.
type ImageRequest struct {
	Parts     []Part
	RequestID string
}

// ImageAsset is the first inline image found in a response.
type ImageAsset struct {
	Format string
	Width  int
	Height int
	Data   []byte
}

// NewClient constructs a Gemini client. An API key is required; callers that
// want offline output should use a synthetic generator instead.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	cfg := &googlegenai.ClientConfig{
		APIKey:     apiKey,
		Backend:    googlegenai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = googlegenai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}

	sdk, err := googlegenai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}

	return &Client{sdk: sdk, model: model, logger: logger}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateImage sends the request parts as one user turn and returns the first
// inline image of the first candidate. Remote errors are returned unchanged.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Parts) == 0 {
		return nil, errors.New("genai: request has no parts")
	}

	parts := make([]*googlegenai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, googlegenai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, googlegenai.NewPartFromText(p.Text))
	}
	contents := []*googlegenai.Content{googlegenai.NewContentFromParts(parts, googlegenai.RoleUser)}

	started := time.Now()
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("request_id", req.RequestID).
			Str("model", c.model).
			Msg("genai: generate content failed")
		return nil, err
	}

	blob := firstInlineImage(resp)
	if blob == nil {
		c.logger.Warn().
			Str("request_id", req.RequestID).
			Str("model", c.model).
			Msg("genai: response had no inline image")
		return nil, ErrNoImage
	}

	asset := &ImageAsset{Format: blob.MIMEType, Data: blob.Data}
	if asset.Format == "" {
		asset.Format = "image/png"
	}
	asset.Width, asset.Height = decodeImageDimensions(blob.Data)

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Int("bytes", len(blob.Data)).
		Dur("elapsed", time.Since(started)).
		Msg("genai: received inline image")

	return asset, nil
}

func firstInlineImage(resp *googlegenai.GenerateContentResponse) *googlegenai.Blob {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	for _, part := range cand.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

func decodeImageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
