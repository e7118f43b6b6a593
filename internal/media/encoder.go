package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/webp"

	"studio/internal/domain"
)

const (
	defaultMaxEdge       = 2048
	defaultMaxFetchBytes = 20 << 20
	defaultLogoCacheTTL  = 10 * time.Minute
	logoCacheCleanup     = 15 * time.Minute
	jpegQuality          = 90
)

// BlobReader is the part of the blob store the encoder needs.
type BlobReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// Payload is an encoded image ready to be attached to a generation request.
type Payload struct {
	MIMEType string
	Data     []byte
}

// Options configures an Encoder.
type Options struct {
	MaxEdge       int
	MaxFetchBytes int64
	LogoCacheTTL  time.Duration
	HTTPClient    *http.Client
}

// Encoder resolves byte handles and normalizes them for the model: product
// photos become JPEG, logos become PNG so transparency survives.
type Encoder struct {
	blobs      BlobReader
	httpClient *http.Client
	maxEdge    int
	maxFetch   int64
	logos      *cache.Cache
}

// NewEncoder builds an Encoder reading local handles from blobs.
func NewEncoder(blobs BlobReader, opts Options) *Encoder {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	maxEdge := opts.MaxEdge
	if maxEdge <= 0 {
		maxEdge = defaultMaxEdge
	}
	maxFetch := opts.MaxFetchBytes
	if maxFetch <= 0 {
		maxFetch = defaultMaxFetchBytes
	}
	ttl := opts.LogoCacheTTL
	if ttl <= 0 {
		ttl = defaultLogoCacheTTL
	}
	return &Encoder{
		blobs:      blobs,
		httpClient: client,
		maxEdge:    maxEdge,
		maxFetch:   maxFetch,
		logos:      cache.New(ttl, logoCacheCleanup),
	}
}

// Source fetches and encodes a product photo.
func (e *Encoder) Source(ctx context.Context, handle string) (Payload, error) {
	data, err := e.Fetch(ctx, handle)
	if err != nil {
		return Payload{}, err
	}
	return e.encode(data, imaging.JPEG)
}

// Logo fetches and encodes a brand logo. Encoded logos are cached by id and
// source since the same logo is reused by every job.
func (e *Encoder) Logo(ctx context.Context, logo domain.BrandLogo) (Payload, error) {
	key := logo.ID + "|" + logo.Source
	if v, ok := e.logos.Get(key); ok {
		return v.(Payload), nil
	}
	data, err := e.Fetch(ctx, logo.Source)
	if err != nil {
		return Payload{}, err
	}
	payload, err := e.encode(data, imaging.PNG)
	if err != nil {
		return Payload{}, err
	}
	e.logos.Set(key, payload, cache.DefaultExpiration)
	return payload, nil
}

// Fetch resolves a handle: absolute http(s) URLs are downloaded, anything else
// is read from the blob store.
func (e *Encoder) Fetch(ctx context.Context, handle string) ([]byte, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, errors.New("empty handle")
	}
	lower := strings.ToLower(handle)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return e.download(ctx, handle)
	}
	if e.blobs == nil {
		return nil, errors.New("no blob store configured")
	}
	return e.blobs.Read(ctx, handle)
}

func (e *Encoder) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxFetch+1))
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}
	if int64(len(data)) > e.maxFetch {
		return nil, fmt.Errorf("download exceeds %d bytes", e.maxFetch)
	}
	return data, nil
}

func (e *Encoder) encode(data []byte, format imaging.Format) (Payload, error) {
	if _, err := Detect(data); err != nil {
		return Payload{}, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Payload{}, fmt.Errorf("decode image: %w", err)
	}
	img = e.fit(img)

	var buf bytes.Buffer
	mime := "image/png"
	if format == imaging.JPEG {
		mime = "image/jpeg"
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	} else {
		err = imaging.Encode(&buf, img, format)
	}
	if err != nil {
		return Payload{}, fmt.Errorf("encode image: %w", err)
	}
	return Payload{MIMEType: mime, Data: buf.Bytes()}, nil
}

func (e *Encoder) fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= e.maxEdge && b.Dy() <= e.maxEdge {
		return img
	}
	return imaging.Fit(img, e.maxEdge, e.maxEdge, imaging.Lanczos)
}
