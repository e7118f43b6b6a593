package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studio/internal/branding"
	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/ledger"
	"studio/internal/media"
	"studio/internal/providers/image"
	"studio/internal/registry"
)

const ledgerTimeout = 5 * time.Second

// Job is the handle of one background render. Result is valid once Done is
// closed.
type Job struct {
	ID     string
	done   chan struct{}
	result domain.ProductImage
}

// Done is closed when the record reached completed or failed.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result returns the record as the job left it.
func (j *Job) Result() domain.ProductImage {
	<-j.done
	return j.result
}

// PayloadEncoder turns stored handles into model-ready payloads.
type PayloadEncoder interface {
	Source(ctx context.Context, handle string) (media.Payload, error)
	Logo(ctx context.Context, logo domain.BrandLogo) (media.Payload, error)
}

// submission freezes the branding a job was started with.
type submission struct {
	preset domain.PresetID
	color  string
	logo   *domain.BrandLogo
}

// Runner starts one goroutine per render. There is no queue and no
// concurrency cap; every job makes exactly one generator call.
type Runner struct {
	images    *registry.Store
	branding  *branding.Store
	blobs     BlobStore
	encoder   PayloadEncoder
	generator image.Generator
	ledger    ledger.Recorder
	logger    *infra.Logger

	wg sync.WaitGroup
}

// Process marks the record processing and starts its job. Records with a job
// in flight are rejected with domain.ErrAlreadyProcessing.
func (r *Runner) Process(id string) (*Job, error) {
	return r.start(id, nil)
}

func (r *Runner) start(id string, allow func(domain.ProductImage) bool) (*Job, error) {
	prev, current, err := r.images.BeginIf(id, allow)
	if err != nil {
		return nil, err
	}
	sub := r.snapshot()

	job := &Job{ID: id, done: make(chan struct{})}
	r.wg.Add(1)
	go r.run(job, current, sub, prev.ProcessedKey)

	r.logger.Info().
		Str("image_id", id).
		Str("preset", string(sub.preset)).
		Bool("logo", sub.logo != nil).
		Msg("studio: render started")
	return job, nil
}

// ProcessAll starts a job for every pending or failed record.
func (r *Runner) ProcessAll() []*Job {
	var jobs []*Job
	for _, img := range r.images.List() {
		if !img.Eligible() {
			continue
		}
		job, err := r.start(img.ID, domain.ProductImage.Eligible)
		if err != nil {
			// removed, started or settled since the snapshot
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Wait blocks until every started job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) snapshot() submission {
	cfg := r.branding.Config()
	sub := submission{preset: cfg.ActivePreset, color: cfg.EffectiveColor()}
	if cfg.LogoVisible {
		if logo, err := r.branding.Logo(cfg.SelectedLogoID); err == nil {
			sub.logo = &logo
		}
	}
	return sub
}

func (r *Runner) run(job *Job, rec domain.ProductImage, sub submission, staleKey string) {
	defer r.wg.Done()
	defer close(job.done)

	ctx := context.Background()
	started := time.Now()
	if staleKey != "" {
		r.release(ctx, staleKey)
	}

	key, err := r.render(ctx, rec, sub)
	elapsed := time.Since(started)
	job.result = r.settle(ctx, rec, key, err, elapsed)
	r.record(ctx, job.result, sub, elapsed)
}

func (r *Runner) render(ctx context.Context, rec domain.ProductImage, sub submission) (key string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("internal error: %v", p)
		}
	}()

	var (
		source media.Payload
		logo   *media.Payload
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := r.encoder.Source(gctx, rec.OriginalKey)
		if err != nil {
			return fmt.Errorf("encode source image: %w", err)
		}
		source = p
		return nil
	})
	if sub.logo != nil {
		g.Go(func() error {
			p, err := r.encoder.Logo(gctx, *sub.logo)
			if err != nil {
				return fmt.Errorf("encode logo: %w", err)
			}
			logo = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	asset, err := r.generator.Generate(ctx, image.GenerateRequest{
		Source:      source,
		Logo:        logo,
		ProductName: rec.Name,
		Preset:      sub.preset,
		Color:       sub.color,
		RequestID:   rec.ID,
	})
	if err != nil {
		return "", err
	}
	if len(asset.Data) == 0 {
		return "", domain.ErrNoImageGenerated
	}

	key = fmt.Sprintf("results/%s/%s%s", rec.ID, uuid.NewString(), media.ExtensionFor(asset.Format))
	return r.blobs.Write(ctx, key, asset.Data)
}

func (r *Runner) settle(ctx context.Context, rec domain.ProductImage, key string, renderErr error, elapsed time.Duration) domain.ProductImage {
	if renderErr != nil {
		msg := renderErr.Error()
		updated, err := r.images.Update(rec.ID, func(p domain.ProductImage, now time.Time) domain.ProductImage {
			return p.Fail(msg, now)
		})
		if err != nil {
			r.logger.Debug().Str("image_id", rec.ID).Msg("studio: record removed before failure was stored")
			return rec.Fail(msg, time.Now())
		}
		r.logger.Warn().
			Err(renderErr).
			Str("image_id", rec.ID).
			Dur("duration", elapsed).
			Msg("studio: render failed")
		return updated
	}

	updated, err := r.images.Update(rec.ID, func(p domain.ProductImage, now time.Time) domain.ProductImage {
		return p.Complete(key, now)
	})
	if err != nil {
		r.logger.Debug().Str("image_id", rec.ID).Msg("studio: record removed while rendering; dropping result")
		r.release(ctx, key)
		return rec.Complete(key, time.Now())
	}
	r.logger.Info().
		Str("image_id", rec.ID).
		Str("result_key", key).
		Dur("duration", elapsed).
		Msg("studio: render completed")
	return updated
}

func (r *Runner) record(ctx context.Context, rec domain.ProductImage, sub submission, elapsed time.Duration) {
	if r.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	defer cancel()

	entry := ledger.Render{
		ImageID:  rec.ID,
		Name:     rec.Name,
		Preset:   sub.preset,
		Color:    sub.color,
		Status:   rec.Status,
		Error:    rec.Error,
		Duration: elapsed,
	}
	if sub.logo != nil {
		entry.LogoID = sub.logo.ID
	}
	if err := r.ledger.Record(ctx, entry); err != nil {
		r.logger.Warn().Err(err).Str("image_id", rec.ID).Msg("studio: ledger write failed")
	}
}

func (r *Runner) release(ctx context.Context, key string) {
	if key == "" || isRemote(key) {
		return
	}
	if err := r.blobs.Delete(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Warn().Err(err).Str("key", key).Msg("studio: release blob failed")
	}
}
