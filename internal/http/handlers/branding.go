package handlers

import (
	"net/http"

	"studio/internal/domain"
)

func (a *App) Presets(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": domain.Presets()})
}

func (a *App) Colors(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": domain.SurfaceColors()})
}

func (a *App) GetBranding(w http.ResponseWriter, r *http.Request) {
	cfg, logos := a.Studio.Branding().Snapshot()
	a.writeBranding(w, http.StatusOK, cfg, logos)
}

type presetRequest struct {
	Preset string `json:"preset"`
}

func (a *App) SetPreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if !a.decode(w, r, &req) {
		return
	}
	cfg, err := a.Studio.Branding().SetPreset(req.Preset)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, brandingView{Config: toConfigView(cfg)})
}

type colorRequest struct {
	Color string `json:"color"`
}

func (a *App) SetColor(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if !a.decode(w, r, &req) {
		return
	}
	cfg, err := a.Studio.Branding().SetColor(req.Color)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, brandingView{Config: toConfigView(cfg)})
}

func (a *App) ToggleLogo(w http.ResponseWriter, r *http.Request) {
	cfg := a.Studio.Branding().ToggleLogo()
	a.json(w, http.StatusOK, brandingView{Config: toConfigView(cfg)})
}

type logoRequest struct {
	LogoID  *string `json:"logo_id"`
	Visible *bool   `json:"visible"`
}

// UpdateLogo selects a logo and/or sets overlay visibility.
func (a *App) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	var req logoRequest
	if !a.decode(w, r, &req) {
		return
	}
	store := a.Studio.Branding()
	if req.LogoID != nil {
		if _, err := store.SelectLogo(*req.LogoID); err != nil {
			a.fail(w, r, err)
			return
		}
	}
	if req.Visible != nil {
		store.SetLogoVisible(*req.Visible)
	}
	a.json(w, http.StatusOK, brandingView{Config: toConfigView(store.Config())})
}

type overlayRequest struct {
	Opacity  *float64 `json:"opacity"`
	Position *string  `json:"position"`
	Upscale  *bool    `json:"upscale"`
}

// UpdateOverlay stores opacity, position and upscale. Omitted fields keep
// their current value.
func (a *App) UpdateOverlay(w http.ResponseWriter, r *http.Request) {
	var req overlayRequest
	if !a.decode(w, r, &req) {
		return
	}
	store := a.Studio.Branding()
	cur := store.Config()
	opacity, position, upscale := cur.LogoOpacity, string(cur.LogoPosition), cur.Upscale
	if req.Opacity != nil {
		opacity = *req.Opacity
	}
	if req.Position != nil {
		position = *req.Position
	}
	if req.Upscale != nil {
		upscale = *req.Upscale
	}
	cfg, err := store.SetOverlay(opacity, position, upscale)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, brandingView{Config: toConfigView(cfg)})
}

// AddLogo accepts a multipart "file" field.
func (a *App) AddLogo(w http.ResponseWriter, r *http.Request) {
	files, ok := a.readFiles(w, r, "file")
	if !ok {
		return
	}
	if len(files) != 1 {
		a.error(w, http.StatusBadRequest, "bad_request", "exactly one logo file is required")
		return
	}
	logo, cfg, err := a.Studio.AddLogo(r.Context(), files[0])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"logo":   toLogoView(logo),
		"config": toConfigView(cfg),
	})
}

func (a *App) writeBranding(w http.ResponseWriter, status int, cfg domain.BrandingConfig, logos []domain.BrandLogo) {
	view := brandingView{Config: toConfigView(cfg), Logos: make([]logoView, 0, len(logos))}
	for _, l := range logos {
		view.Logos = append(view.Logos, toLogoView(l))
	}
	a.json(w, status, view)
}
