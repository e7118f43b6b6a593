package domain

import "strings"

// PresetID identifies one of the fixed editorial presets.
type PresetID string

const (
	PresetAIMagic          PresetID = "ai-magic"
	PresetAvenueMontaigne  PresetID = "avenue-montaigne"
	PresetJardinPalais     PresetID = "jardin-palais"
	PresetArtisanalAtelier PresetID = "artisanal-atelier"
	PresetChampagneSoiree  PresetID = "champagne-soiree"
	PresetSaintGermain     PresetID = "saint-germain"
	PresetSolidChic        PresetID = "solid-chic"
)

// Preset is a descriptive catalog entry.
type Preset struct {
	ID          PresetID `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

// SurfaceColor is a named swatch. Only the name reaches the prompt.
type SurfaceColor struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var presets = []Preset{
	{ID: PresetAvenueMontaigne, Label: "Avenue Montaigne", Description: "Classic Marble & Gold", Icon: "Layout"},
	{ID: PresetJardinPalais, Label: "Jardin du Palais", Description: "Dreamy Garden Floral", Icon: "Flower2"},
	{ID: PresetSolidChic, Label: "Solid Chic", Description: "Premium Texture Catalog", Icon: "Square"},
	{ID: PresetArtisanalAtelier, Label: "Artisanal Atelier", Description: "Warm Limestone Craft", Icon: "Coffee"},
	{ID: PresetChampagneSoiree, Label: "Champagne Soirée", Description: "Festive Silk & Bokeh", Icon: "Palette"},
	{ID: PresetSaintGermain, Label: "Saint-Germain Chic", Description: "Modern Minimal Pastel", Icon: "Sun"},
	{ID: PresetAIMagic, Label: "AI Magic", Description: "Creative Exploration", Icon: "Wand2"},
}

var surfaceColors = []SurfaceColor{
	{Name: "Ivory Cream", Value: "#FAF9F6"},
	{Name: "Rose Quartz", Value: "#FDF0F0"},
	{Name: "Sage Leaf", Value: "#E9F0E9"},
	{Name: "Noir Slate", Value: "#2A2A2A"},
	{Name: "French Navy", Value: "#1A2A3A"},
	{Name: "Sandstone", Value: "#E5D3B3"},
}

// Presets returns the catalog in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// SurfaceColors returns the swatch catalog in display order.
func SurfaceColors() []SurfaceColor {
	out := make([]SurfaceColor, len(surfaceColors))
	copy(out, surfaceColors)
	return out
}

// ParsePreset resolves a preset id from user input.
func ParsePreset(v string) (PresetID, error) {
	id := PresetID(strings.ToLower(strings.TrimSpace(v)))
	for _, p := range presets {
		if p.ID == id {
			return id, nil
		}
	}
	return "", ErrUnknownPreset
}

// LookupColor matches a swatch name case-insensitively and returns its
// canonical spelling.
func LookupColor(name string) (SurfaceColor, error) {
	name = strings.Join(strings.Fields(name), " ")
	for _, c := range surfaceColors {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return SurfaceColor{}, ErrUnknownColor
}
