package media

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"studio/internal/domain"
)

// Detect sniffs data and accepts only image content.
func Detect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrUnsupportedMedia)
	}
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "image/") {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, m.String())
	}
	return m.String(), nil
}

// Upload describes validated upload bytes.
type Upload struct {
	MIMEType  string
	Extension string
	Width     int
	Height    int
}

// Inspect validates that data is an image the encoder can decode later.
func Inspect(data []byte) (Upload, error) {
	mime, err := Detect(data)
	if err != nil {
		return Upload{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %s cannot be decoded", domain.ErrUnsupportedMedia, mime)
	}
	return Upload{
		MIMEType:  mime,
		Extension: mimetype.Detect(data).Extension(),
		Width:     cfg.Width,
		Height:    cfg.Height,
	}, nil
}

// ToPNG re-encodes image bytes as PNG. PNG input is returned untouched.
func ToPNG(data []byte) ([]byte, error) {
	mime, err := Detect(data)
	if err != nil {
		return nil, err
	}
	if mime == "image/png" {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtensionFor maps an image MIME type to a file extension.
func ExtensionFor(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
