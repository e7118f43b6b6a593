package domain

import "errors"

var (
	ErrImageNotFound     = errors.New("image not found")
	ErrAlreadyProcessing = errors.New("image is already processing")
	ErrNotCompleted      = errors.New("image has no processed result")
	ErrNotEligible       = errors.New("image is not pending or failed")
	ErrUnknownPreset     = errors.New("unknown preset")
	ErrUnknownColor      = errors.New("unknown surface color")
	ErrLogoNotFound      = errors.New("logo not found")
	ErrInvalidOpacity    = errors.New("logo opacity must be between 0 and 1")
	ErrInvalidPosition   = errors.New("unknown logo position")
	ErrUnsupportedMedia  = errors.New("unsupported media type")

	// ErrNoImageGenerated is surfaced to the user as-is when the model answered
	// without any inline image part.
	ErrNoImageGenerated = errors.New("No image was generated. Please try a different preset.")
)
