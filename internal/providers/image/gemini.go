package image

import (
	"context"
	"errors"

	"studio/internal/domain"
	"studio/internal/providers/genai"
)

// ImageClient is the subset of the Gemini client the generator relies on.
type ImageClient interface {
	GenerateImage(ctx context.Context, req genai.ImageRequest) (*genai.ImageAsset, error)
	Model() string
}

// GeminiGenerator turns editorial requests into multimodal Gemini calls.
type GeminiGenerator struct {
	client ImageClient
}

func NewGeminiGenerator(client ImageClient) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

// Generate sends the source photo, the prompt and, when present, the logo in
// that order.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (Asset, error) {
	if g == nil || g.client == nil {
		return Asset{}, errors.New("gemini generator is not configured")
	}
	if len(req.Source.Data) == 0 {
		return Asset{}, errors.New("source image is empty")
	}

	withLogo := req.Logo != nil && len(req.Logo.Data) > 0
	parts := []genai.Part{
		genai.InlinePart(req.Source.MIMEType, req.Source.Data),
		genai.TextPart(BuildEditorialPrompt(req.ProductName, req.Preset, req.Color, withLogo)),
	}
	if withLogo {
		parts = append(parts, genai.InlinePart(req.Logo.MIMEType, req.Logo.Data))
	}

	asset, err := g.client.GenerateImage(ctx, genai.ImageRequest{Parts: parts, RequestID: req.RequestID})
	if err != nil {
		if errors.Is(err, genai.ErrNoImage) {
			return Asset{}, domain.ErrNoImageGenerated
		}
		return Asset{}, err
	}
	if asset == nil || len(asset.Data) == 0 {
		return Asset{}, domain.ErrNoImageGenerated
	}
	return Asset{
		Format: asset.Format,
		Width:  asset.Width,
		Height: asset.Height,
		Data:   asset.Data,
	}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
