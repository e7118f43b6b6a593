package branding

import (
	"fmt"
	"sync"
	"time"

	"studio/internal/domain"
)

// Store owns the active branding configuration and the logo catalog. Both are
// replaced as whole values on every change.
type Store struct {
	mu     sync.Mutex
	config domain.BrandingConfig
	logos  []domain.BrandLogo
	now    func() time.Time
}

// NewStore starts from the default configuration with the default logo in the
// catalog.
func NewStore(defaultLogo domain.BrandLogo) *Store {
	if defaultLogo.ID == "" {
		defaultLogo.ID = domain.DefaultLogoID
	}
	if defaultLogo.CreatedAt.IsZero() {
		defaultLogo.CreatedAt = time.Now()
	}
	return &Store{
		config: domain.DefaultBranding(),
		logos:  []domain.BrandLogo{defaultLogo},
		now:    time.Now,
	}
}

// Snapshot returns the configuration and logo catalog as one consistent view.
func (s *Store) Snapshot() (domain.BrandingConfig, []domain.BrandLogo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config, s.logos
}

// Config returns the current configuration value.
func (s *Store) Config() domain.BrandingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Logo returns a catalog entry.
func (s *Store) Logo(id string) (domain.BrandLogo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.logos {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.BrandLogo{}, fmt.Errorf("%w: %s", domain.ErrLogoNotFound, id)
}

// SetPreset activates one of the catalog presets.
func (s *Store) SetPreset(raw string) (domain.BrandingConfig, error) {
	id, err := domain.ParsePreset(raw)
	if err != nil {
		return s.Config(), fmt.Errorf("%w: %q", err, raw)
	}
	return s.apply(func(c domain.BrandingConfig) domain.BrandingConfig {
		c.ActivePreset = id
		return c
	}), nil
}

// SetColor selects a surface swatch. It is stored regardless of the active
// preset and only read while solid-chic is active.
func (s *Store) SetColor(name string) (domain.BrandingConfig, error) {
	color, err := domain.LookupColor(name)
	if err != nil {
		return s.Config(), fmt.Errorf("%w: %q", err, name)
	}
	return s.apply(func(c domain.BrandingConfig) domain.BrandingConfig {
		c.SelectedColor = color.Name
		return c
	}), nil
}

// ToggleLogo flips overlay visibility.
func (s *Store) ToggleLogo() domain.BrandingConfig {
	return s.apply(func(c domain.BrandingConfig) domain.BrandingConfig {
		c.LogoVisible = !c.LogoVisible
		return c
	})
}

// SetLogoVisible sets overlay visibility explicitly.
func (s *Store) SetLogoVisible(visible bool) domain.BrandingConfig {
	return s.apply(func(c domain.BrandingConfig) domain.BrandingConfig {
		c.LogoVisible = visible
		return c
	})
}

// SelectLogo makes a catalog logo the active one.
func (s *Store) SelectLogo(id string) (domain.BrandingConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, l := range s.logos {
		if l.ID == id {
			found = true
			break
		}
	}
	if !found {
		return s.config, fmt.Errorf("%w: %s", domain.ErrLogoNotFound, id)
	}
	next := s.config
	next.SelectedLogoID = id
	s.config = next
	return next, nil
}

// SetOverlay stores the overlay settings. They are validated and kept but not
// consumed by generation.
func (s *Store) SetOverlay(opacity float64, position string, upscale bool) (domain.BrandingConfig, error) {
	if opacity < 0 || opacity > 1 {
		return s.Config(), domain.ErrInvalidOpacity
	}
	pos, err := domain.ParseLogoPosition(position)
	if err != nil {
		return s.Config(), fmt.Errorf("%w: %q", err, position)
	}
	return s.apply(func(c domain.BrandingConfig) domain.BrandingConfig {
		c.LogoOpacity = opacity
		c.LogoPosition = pos
		c.Upscale = upscale
		return c
	}), nil
}

// AddLogo prepends a logo, selects it and turns the overlay on in one step.
func (s *Store) AddLogo(id, name, source string) (domain.BrandLogo, domain.BrandingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logo := domain.BrandLogo{ID: id, Name: name, Source: source, CreatedAt: s.now()}

	logos := make([]domain.BrandLogo, 0, len(s.logos)+1)
	logos = append(logos, logo)
	logos = append(logos, s.logos...)

	next := s.config
	next.SelectedLogoID = logo.ID
	next.LogoVisible = true

	s.logos = logos
	s.config = next
	return logo, next
}

func (s *Store) apply(fn func(domain.BrandingConfig) domain.BrandingConfig) domain.BrandingConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = fn(s.config)
	return s.config
}
