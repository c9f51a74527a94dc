// Package evolution orchestrates character evolution: eligibility, image
// generation, validation, and transactional persistence.
package evolution

// Modification describes one named image transformation the service offers.
// The registry is static configuration; it is never mutated at runtime.
type Modification struct {
	OutputLabel    string
	BasePrompt     string
	NegativePrompt string
}

// Registry maps modification keys to their prompt templates.
type Registry map[string]Modification

// Lookup returns the modification for key.
func (r Registry) Lookup(key string) (Modification, bool) {
	mod, ok := r[key]
	return mod, ok
}

const defaultNegativePrompt = "blurry, realistic, photo, 3d render, lowres, bad anatomy, cropped, " +
	"text, watermark, signature, background, shadow, extra limbs, deformed, noise, bad pixel"

// DefaultRegistry returns the built-in modification set.
func DefaultRegistry() Registry {
	return Registry{
		"default_growth": {
			OutputLabel: "evolved",
			BasePrompt: "evolved form of the same character, grown stronger and more imposing, " +
				"full body, facing forward, 2d pixel art, 16-bit style, game sprite, " +
				"professional pixel character design, clean edges, detailed shading, " +
				"vibrant colors, smooth pixels, high quality, masterpiece",
			NegativePrompt: defaultNegativePrompt,
		},
		"battle_hardened": {
			OutputLabel: "battle_hardened",
			BasePrompt: "battle-hardened veteran form of the same character, scarred armor, " +
				"fierce expression, full body, facing forward, 2d pixel art, 16-bit style, " +
				"game sprite, clean edges, detailed shading, vibrant colors, high quality",
			NegativePrompt: defaultNegativePrompt,
		},
		"mystic_awakening": {
			OutputLabel: "mystic",
			BasePrompt: "mystically awakened form of the same character, glowing runes and " +
				"arcane aura, full body, facing forward, 2d pixel art, 16-bit style, " +
				"game sprite, clean edges, detailed shading, vibrant colors, high quality",
			NegativePrompt: defaultNegativePrompt,
		},
	}
}
