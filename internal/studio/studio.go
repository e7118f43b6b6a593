package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"studio/internal/branding"
	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/ledger"
	"studio/internal/media"
	"studio/internal/providers/image"
	"studio/internal/registry"
	"studio/internal/storage"
	ziputil "studio/pkg/zip"
)

const downloadPrefix = "LaParis_Studio_"

// BlobStore keeps uploaded and generated bytes.
type BlobStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Options wires the studio collaborators.
type Options struct {
	Blobs       BlobStore
	Encoder     PayloadEncoder
	Generator   image.Generator
	Ledger      ledger.Recorder
	DefaultLogo domain.BrandLogo
	Logger      *infra.Logger
}

// Studio is the command surface of the service: uploads, renders, branding
// and downloads all go through it.
type Studio struct {
	images   *registry.Store
	branding *branding.Store
	blobs    BlobStore
	runner   *Runner
	logger   *infra.Logger
}

// Upload is one incoming file.
type Upload struct {
	Filename string
	Data     []byte
}

// Download is a result ready to be saved by the client.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// New assembles a Studio.
func New(opts Options) (*Studio, error) {
	if opts.Blobs == nil {
		return nil, errors.New("studio: blob store is required")
	}
	if opts.Encoder == nil {
		return nil, errors.New("studio: encoder is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("studio: generator is required")
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	rec := opts.Ledger
	if rec == nil {
		rec = ledger.Nop{}
	}

	images := registry.NewStore()
	brand := branding.NewStore(opts.DefaultLogo)
	return &Studio{
		images:   images,
		branding: brand,
		blobs:    opts.Blobs,
		logger:   logger,
		runner: &Runner{
			images:    images,
			branding:  brand,
			blobs:     opts.Blobs,
			encoder:   opts.Encoder,
			generator: opts.Generator,
			ledger:    rec,
			logger:    logger,
		},
	}, nil
}

// Images returns the records in upload order.
func (s *Studio) Images() []domain.ProductImage {
	return s.images.List()
}

// Image returns one record.
func (s *Studio) Image(id string) (domain.ProductImage, error) {
	return s.images.Get(id)
}

// Branding exposes the branding store for the configuration commands.
func (s *Studio) Branding() *branding.Store {
	return s.branding
}

// Upload stores a batch and registers one pending record per file. The batch
// is validated up front so a bad file leaves nothing behind.
func (s *Studio) Upload(ctx context.Context, files []Upload) ([]domain.ProductImage, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", domain.ErrUnsupportedMedia)
	}
	inspected := make([]media.Upload, len(files))
	for i, f := range files {
		info, err := media.Inspect(f.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Filename, err)
		}
		inspected[i] = info
	}

	batch := make([]registry.NewImage, 0, len(files))
	for i, f := range files {
		id := uuid.NewString()
		key, err := s.blobs.Write(ctx, "originals/"+id+inspected[i].Extension, f.Data)
		if err != nil {
			for _, written := range batch {
				if derr := s.blobs.Delete(ctx, written.OriginalKey); derr != nil {
					s.logger.Warn().Err(derr).Str("key", written.OriginalKey).Msg("studio: release partial upload failed")
				}
			}
			return nil, fmt.Errorf("store %s: %w", f.Filename, err)
		}
		batch = append(batch, registry.NewImage{
			ID:          id,
			Name:        DisplayName(f.Filename),
			OriginalKey: key,
			MIMEType:    inspected[i].MIMEType,
		})
	}

	added := s.images.Add(batch)
	s.logger.Info().Int("count", len(added)).Msg("studio: images uploaded")
	return added, nil
}

// Remove drops a record in any state and releases its bytes. A job still in
// flight for it discards its result when it finishes.
func (s *Studio) Remove(ctx context.Context, id string) (domain.ProductImage, error) {
	removed, err := s.images.Remove(id)
	if err != nil {
		return domain.ProductImage{}, err
	}
	s.runner.release(ctx, removed.OriginalKey)
	s.runner.release(ctx, removed.ProcessedKey)
	s.logger.Info().Str("image_id", id).Str("status", string(removed.Status)).Msg("studio: image removed")
	return removed, nil
}

// Process starts or restarts rendering of one record.
func (s *Studio) Process(id string) (*Job, error) {
	return s.runner.Process(id)
}

// ProcessAll starts every pending or failed record.
func (s *Studio) ProcessAll() []*Job {
	return s.runner.ProcessAll()
}

// Wait blocks until in-flight jobs finish.
func (s *Studio) Wait() {
	s.runner.Wait()
}

// Download returns the result of a completed record as PNG.
func (s *Studio) Download(ctx context.Context, id string) (Download, error) {
	img, err := s.images.Get(id)
	if err != nil {
		return Download{}, err
	}
	if img.Status != domain.ImageStatusCompleted {
		return Download{}, fmt.Errorf("%w: %s is %s", domain.ErrNotCompleted, id, img.Status)
	}
	data, err := s.blobs.Read(ctx, img.ProcessedKey)
	if err != nil {
		return Download{}, fmt.Errorf("read result: %w", err)
	}
	out, err := media.ToPNG(data)
	if err != nil {
		return Download{}, fmt.Errorf("convert result: %w", err)
	}
	return Download{
		Filename:    DownloadName(img.Name),
		ContentType: "image/png",
		Data:        out,
	}, nil
}

// Archive zips the PNG downloads of every completed record. It returns the
// number of entries alongside the archive.
func (s *Studio) Archive(ctx context.Context) ([]byte, int, error) {
	var assets []ziputil.Asset
	for _, img := range s.images.List() {
		if img.Status != domain.ImageStatusCompleted {
			continue
		}
		dl, err := s.Download(ctx, img.ID)
		if err != nil {
			// settled, removed or superseded since the listing
			if errors.Is(err, domain.ErrNotCompleted) || errors.Is(err, domain.ErrImageNotFound) || errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, 0, err
		}
		assets = append(assets, ziputil.Asset{
			Filename: dl.Filename,
			MIME:     dl.ContentType,
			Data:     dl.Data,
			Modified: img.UpdatedAt,
		})
	}
	data, err := ziputil.ArchiveAssets(assets)
	if err != nil {
		return nil, 0, err
	}
	return data, len(assets), nil
}

// AddLogo stores an uploaded logo, prepends it to the catalog, selects it and
// turns the overlay on.
func (s *Studio) AddLogo(ctx context.Context, file Upload) (domain.BrandLogo, domain.BrandingConfig, error) {
	info, err := media.Inspect(file.Data)
	if err != nil {
		return domain.BrandLogo{}, domain.BrandingConfig{}, fmt.Errorf("%s: %w", file.Filename, err)
	}
	id := uuid.NewString()
	key, err := s.blobs.Write(ctx, "logos/"+id+info.Extension, file.Data)
	if err != nil {
		return domain.BrandLogo{}, domain.BrandingConfig{}, fmt.Errorf("store logo: %w", err)
	}
	logo, cfg := s.branding.AddLogo(id, DisplayName(file.Filename), key)
	s.logger.Info().Str("logo_id", logo.ID).Str("name", logo.Name).Msg("studio: logo added")
	return logo, cfg, nil
}

// Blob returns stored bytes with their sniffed content type.
func (s *Studio) Blob(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.blobs.Read(ctx, key)
	if err != nil {
		return nil, "", err
	}
	mime, err := media.Detect(data)
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// Close waits for running jobs until ctx expires.
func (s *Studio) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.runner.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("studio: waiting for jobs: %w", ctx.Err())
	}
}

// DisplayName derives a record name from an uploaded filename: the base name
// up to its first dot, NFC normalized.
func DisplayName(filename string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(norm.NFC.String(base))
	if base == "" {
		return "image"
	}
	return base
}

// DownloadName is the saved filename of a result.
func DownloadName(name string) string {
	return downloadPrefix + name + ".png"
}

func isRemote(handle string) bool {
	lower := strings.ToLower(handle)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
