package domain

import (
	"strings"
	"time"
)

// LogoPosition is where the overlay would be anchored. It is carried through
// the configuration but not consumed by generation yet.
type LogoPosition string

const (
	LogoBottomRight LogoPosition = "bottom-right"
	LogoBottomLeft  LogoPosition = "bottom-left"
	LogoTopRight    LogoPosition = "top-right"
	LogoCenter      LogoPosition = "center"
)

// ParseLogoPosition accepts the known positions only.
func ParseLogoPosition(v string) (LogoPosition, error) {
	switch p := LogoPosition(strings.ToLower(strings.TrimSpace(v))); p {
	case LogoBottomRight, LogoBottomLeft, LogoTopRight, LogoCenter:
		return p, nil
	default:
		return "", ErrInvalidPosition
	}
}

// DefaultLogoID identifies the logo that exists at startup.
const DefaultLogoID = "default"

// BrandingConfig is the process-wide configuration applied to the next job.
type BrandingConfig struct {
	LogoVisible    bool
	LogoPosition   LogoPosition
	LogoOpacity    float64
	Upscale        bool
	ActivePreset   PresetID
	SelectedLogoID string
	SelectedColor  string
}

// DefaultBranding mirrors the studio's initial settings.
func DefaultBranding() BrandingConfig {
	return BrandingConfig{
		LogoVisible:    false,
		LogoPosition:   LogoBottomRight,
		LogoOpacity:    0.85,
		Upscale:        true,
		ActivePreset:   PresetAvenueMontaigne,
		SelectedLogoID: DefaultLogoID,
		SelectedColor:  "Ivory Cream",
	}
}

// EffectiveColor returns the surface color only when the active preset
// interprets it.
func (c BrandingConfig) EffectiveColor() string {
	if c.ActivePreset != PresetSolidChic {
		return ""
	}
	return c.SelectedColor
}

// BrandLogo is an entry of the logo catalog. Source is either a blob key or an
// absolute http(s) URL.
type BrandLogo struct {
	ID        string
	Name      string
	Source    string
	CreatedAt time.Time
}
