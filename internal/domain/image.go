package domain

import (
	"errors"
	"fmt"
	"time"
)

// ImageStatus enumerates the lifecycle states of a product image.
type ImageStatus string

const (
	ImageStatusPending    ImageStatus = "pending"
	ImageStatusProcessing ImageStatus = "processing"
	ImageStatusCompleted  ImageStatus = "completed"
	ImageStatusFailed     ImageStatus = "failed"
)

const (
	// ProgressStarted is the placeholder shown while the remote call runs. The
	// service cannot observe real progress.
	ProgressStarted  = 10
	ProgressFinished = 100
)

// ProductImage is one uploaded photo and its processing state. Values are
// never mutated in place; every transition returns a new copy.
type ProductImage struct {
	ID           string
	Name         string
	OriginalKey  string
	MIMEType     string
	ProcessedKey string
	Status       ImageStatus
	Error        string
	Progress     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProductImage creates a pending record for freshly uploaded bytes.
func NewProductImage(id, name, originalKey, mime string, now time.Time) ProductImage {
	return ProductImage{
		ID:          id,
		Name:        name,
		OriginalKey: originalKey,
		MIMEType:    mime,
		Status:      ImageStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Eligible reports whether a bulk "process all" should pick the record up.
func (p ProductImage) Eligible() bool {
	return p.Status == ImageStatusPending || p.Status == ImageStatusFailed
}

// StartProcessing moves the record into processing. Any previous result or
// error is dropped.
func (p ProductImage) StartProcessing(now time.Time) ProductImage {
	p.Status = ImageStatusProcessing
	p.Progress = ProgressStarted
	p.ProcessedKey = ""
	p.Error = ""
	p.UpdatedAt = now
	return p
}

// Complete attaches the result handle.
func (p ProductImage) Complete(processedKey string, now time.Time) ProductImage {
	p.Status = ImageStatusCompleted
	p.Progress = ProgressFinished
	p.ProcessedKey = processedKey
	p.Error = ""
	p.UpdatedAt = now
	return p
}

// Fail records the failure message. Progress stays where it was.
func (p ProductImage) Fail(message string, now time.Time) ProductImage {
	if message == "" {
		message = "processing failed"
	}
	p.Status = ImageStatusFailed
	p.ProcessedKey = ""
	p.Error = message
	p.UpdatedAt = now
	return p
}

// Validate checks that the result and error fields agree with the status.
func (p ProductImage) Validate() error {
	switch p.Status {
	case ImageStatusPending, ImageStatusProcessing, ImageStatusCompleted, ImageStatusFailed:
	default:
		return fmt.Errorf("image %s: unknown status %q", p.ID, p.Status)
	}
	if (p.ProcessedKey != "") != (p.Status == ImageStatusCompleted) {
		return fmt.Errorf("image %s: processed key present=%t with status %s", p.ID, p.ProcessedKey != "", p.Status)
	}
	if (p.Error != "") != (p.Status == ImageStatusFailed) {
		return fmt.Errorf("image %s: error present=%t with status %s", p.ID, p.Error != "", p.Status)
	}
	if p.Progress < 0 || p.Progress > ProgressFinished {
		return errors.New("progress out of range")
	}
	return nil
}
