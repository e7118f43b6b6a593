package image

import (
	"context"

	"studio/internal/domain"
	"studio/internal/media"
)

// GenerateRequest describes one editorial restyle of a product photo.
type GenerateRequest struct {
	Source      media.Payload
	Logo        *media.Payload
	ProductName string
	Preset      domain.PresetID
	Color       string
	RequestID   string
}

// Asset represents a generated image.
type Asset struct {
	Format string
	Width  int
	Height int
	Data   []byte
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Asset, error)
}
