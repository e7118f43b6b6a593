package handlers

import (
	"strings"
	"time"

	"studio/internal/domain"
	"studio/internal/studio"
)

const blobPrefix = "/v1/blobs/"

type imageView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	Error        string    `json:"error,omitempty"`
	OriginalURL  string    `json:"original_url"`
	ProcessedURL string    `json:"processed_url,omitempty"`
	DownloadName string    `json:"download_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toImageView(p domain.ProductImage) imageView {
	v := imageView{
		ID:          p.ID,
		Name:        p.Name,
		Status:      string(p.Status),
		Progress:    p.Progress,
		Error:       p.Error,
		OriginalURL: handleURL(p.OriginalKey),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ProcessedKey != "" {
		v.ProcessedURL = handleURL(p.ProcessedKey)
		v.DownloadName = studio.DownloadName(p.Name)
	}
	return v
}

func toImageViews(list []domain.ProductImage) []imageView {
	out := make([]imageView, 0, len(list))
	for _, p := range list {
		out = append(out, toImageView(p))
	}
	return out
}

type brandingConfigView struct {
	LogoVisible    bool    `json:"logo_visible"`
	LogoPosition   string  `json:"logo_position"`
	LogoOpacity    float64 `json:"logo_opacity"`
	Upscale        bool    `json:"upscale"`
	ActivePreset   string  `json:"active_preset"`
	SelectedLogoID string  `json:"selected_logo_id"`
	SelectedColor  string  `json:"selected_color"`
}

type logoView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type brandingView struct {
	Config brandingConfigView `json:"config"`
	Logos  []logoView         `json:"logos,omitempty"`
}

func toConfigView(c domain.BrandingConfig) brandingConfigView {
	return brandingConfigView{
		LogoVisible:    c.LogoVisible,
		LogoPosition:   string(c.LogoPosition),
		LogoOpacity:    c.LogoOpacity,
		Upscale:        c.Upscale,
		ActivePreset:   string(c.ActivePreset),
		SelectedLogoID: c.SelectedLogoID,
		SelectedColor:  c.SelectedColor,
	}
}

func toLogoView(l domain.BrandLogo) logoView {
	return logoView{ID: l.ID, Name: l.Name, URL: handleURL(l.Source), CreatedAt: l.CreatedAt}
}

// handleURL turns a blob key into its preview path. Remote handles pass
// through.
func handleURL(handle string) string {
	lower := strings.ToLower(handle)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return handle
	}
	return blobPrefix + handle
}
