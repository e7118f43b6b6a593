package image

import (
	"strings"
	"testing"

	"studio/internal/domain"
)

func TestBuildEditorialPromptSolidChicColor(t *testing.T) {
	prompt := BuildEditorialPrompt("Croissant", domain.PresetSolidChic, "Sage Leaf", false)
	if strings.Count(prompt, "Sage Leaf") != 2 {
		t.Fatalf("prompt should name the color twice:\n%s", prompt)
	}
	if strings.Contains(prompt, colorToken) {
		t.Fatalf("placeholder left in prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "PRODUCT: Croissant.") {
		t.Fatalf("product line missing:\n%s", prompt)
	}
}

func TestBuildEditorialPromptDefaultColor(t *testing.T) {
	prompt := BuildEditorialPrompt("Tart", domain.PresetSolidChic, "  ", false)
	if !strings.Contains(prompt, "premium Ivory White textured surface") {
		t.Fatalf("default color not applied:\n%s", prompt)
	}
}

func TestBuildEditorialPromptIgnoresColorForOtherPresets(t *testing.T) {
	for _, p := range domain.Presets() {
		if p.ID == domain.PresetSolidChic {
			continue
		}
		prompt := BuildEditorialPrompt("Eclair", p.ID, "Noir Slate", false)
		if strings.Contains(prompt, "Noir Slate") {
			t.Fatalf("%s: color leaked into prompt", p.ID)
		}
		if !strings.Contains(prompt, "ENVIRONMENT: "+presetEnvironments[p.ID]) {
			t.Fatalf("%s: environment missing", p.ID)
		}
	}
}

func TestBuildEditorialPromptLogoAndFallbacks(t *testing.T) {
	with := BuildEditorialPrompt("", domain.PresetJardinPalais, "", true)
	if !strings.Contains(with, "PRODUCT: Bakery item.") {
		t.Fatalf("product fallback missing:\n%s", with)
	}
	if !strings.Contains(with, "LOGO INSTRUCTION:") || !strings.Contains(with, "Maintain logo proportions.") {
		t.Fatalf("logo block missing:\n%s", with)
	}
	if !strings.HasSuffix(with, "Output: 8k resolution, flawless professional quality.") {
		t.Fatalf("closing line missing:\n%s", with)
	}

	without := BuildEditorialPrompt("Brioche", domain.PresetJardinPalais, "", false)
	if strings.Contains(without, "LOGO INSTRUCTION") {
		t.Fatalf("logo block present without logo")
	}

	unknown := BuildEditorialPrompt("Brioche", domain.PresetID("nope"), "", false)
	if !strings.Contains(unknown, presetEnvironments[domain.PresetAIMagic]) {
		t.Fatalf("unknown preset should fall back to ai-magic")
	}
}
