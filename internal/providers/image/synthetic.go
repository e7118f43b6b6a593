package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// Synthetic renders deterministic placeholder art shaped like the source
// photo. It keeps the pipeline usable without a Gemini key.
type Synthetic struct{}

func NewSynthetic() *Synthetic {
	return &Synthetic{}
}

// Generate paints a striped backdrop seeded by the request and places a
// shrunken copy of the product photo in the middle.
func (s *Synthetic) Generate(ctx context.Context, req GenerateRequest) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	src, err := imaging.Decode(bytes.NewReader(req.Source.Data))
	if err != nil {
		return Asset{}, fmt.Errorf("decode source: %w", err)
	}

	seed := deterministicSeed(req.ProductName, req.Preset, EnvironmentFor(req.Preset, req.Color), req.Logo != nil)
	b := src.Bounds()
	canvas := renderBackdrop(b.Dx(), b.Dy(), seed)
	product := imaging.Fit(src, b.Dx()*2/3, b.Dy()*2/3, imaging.Lanczos)
	out := imaging.PasteCenter(canvas, product)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return Asset{}, fmt.Errorf("encode synthetic: %w", err)
	}
	return Asset{Format: "image/png", Width: b.Dx(), Height: b.Dy(), Data: buf.Bytes()}, nil
}

func renderBackdrop(width, height int, seed string) *image.NRGBA {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := max(8, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}
	return img
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{R: parseHexByte(segment[0:2]), G: parseHexByte(segment[2:4]), B: parseHexByte(segment[4:6]), A: 255}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

var _ Generator = (*Synthetic)(nil)
