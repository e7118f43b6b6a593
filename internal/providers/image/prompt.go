package image

import (
	"fmt"
	"strings"

	"studio/internal/domain"
)

// DefaultSurfaceColor is substituted when a solid-chic request carries no color.
const DefaultSurfaceColor = "Ivory White"

const colorToken = "[COLOR]"

var presetEnvironments = map[domain.PresetID]string{
	domain.PresetAIMagic:          "Professional editorial product photography. High-end Pâtisserie Masterpiece. Creative and artistic luxury bakery setting with dramatic soft lighting and golden accents.",
	domain.PresetAvenueMontaigne:  "High-end Parisian boutique interior. The item is on a polished white Carrara marble counter with fine gold trim. Sophisticated minimalist decor, soft warm interior lighting, ultra-luxury aesthetic.",
	domain.PresetJardinPalais:     "Dreamy outdoor Parisian garden setting. Soft-focus background of cream hydrangeas and white roses. Natural soft morning sunlight, elegant wrought iron cafe table textures.",
	domain.PresetArtisanalAtelier: "Texture-rich artisanal baking atelier. Warm limestone surface. Soft natural daylight from a large side window. Sophisticated, warm, and authentic craft atmosphere.",
	domain.PresetChampagneSoiree:  "Luxury festive evening celebration. Cream silk fabric textures, delicate gold leaf accents, warm candlelight bokeh in the background. High-end celebratory mood.",
	domain.PresetSaintGermain:     "Modern Parisian chic cafe vibe. Matte pastel ivory background with sharp, intentional fashion-style shadows. Very clean, minimalist, and sophisticated editorial shot.",
	domain.PresetSolidChic:        "High-end luxury catalog photography. The item is placed on a smooth, premium [COLOR] textured surface. Background is a matching solid [COLOR] studio backdrop. Professional studio lighting with soft, intentional shadows. Zero distractions, extreme elegance.",
}

var logoInstruction = []string{
	"LOGO INSTRUCTION: I have provided a second image which is a brand logo.",
	"Action: Precisely place this brand logo onto the base or the stand of the bakery item.",
	"Ensure the logo follows the 3D perspective and curvature of the object it is placed on.",
	"It should look like it is physically printed or embossed on the item.",
	"Maintain logo proportions.",
}

// EnvironmentFor returns the scene description of a preset. Unknown presets
// fall back to ai-magic. The color only replaces the placeholder of solid-chic.
func EnvironmentFor(preset domain.PresetID, color string) string {
	env, ok := presetEnvironments[preset]
	if !ok {
		env = presetEnvironments[domain.PresetAIMagic]
	}
	if preset == domain.PresetSolidChic {
		color = strings.TrimSpace(color)
		if color == "" {
			color = DefaultSurfaceColor
		}
		env = strings.ReplaceAll(env, colorToken, color)
	}
	return env
}

// BuildEditorialPrompt assembles the instruction text sent alongside the
// product photo.
func BuildEditorialPrompt(productName string, preset domain.PresetID, color string, withLogo bool) string {
	product := strings.TrimSpace(productName)
	if product == "" {
		product = "Bakery item"
	}

	lines := []string{
		"TASK: Transform this bakery photo into high-end editorial marketing content matching the 'La Paris Bakers' brand guide.",
		fmt.Sprintf("PRODUCT: %s.", product),
		"STYLE: Professional Parisian Pâtisserie Editorial.",
		"ENVIRONMENT: " + EnvironmentFor(preset, color),
		"INSTRUCTION: Maintain 100% fidelity to the original bakery item's shape, color, and texture. Only replace the background and supporting surface.",
	}
	if withLogo {
		lines = append(lines, logoInstruction...)
	}
	return strings.Join(lines, "\n") + "\n\nOutput: 8k resolution, flawless professional quality."
}
