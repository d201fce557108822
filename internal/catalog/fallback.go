package catalog

import "stone-catalog-service/internal/slug"

// Fallback is static page content for a collection the store cannot
// supply. Generic is set when no entry exists for the slug.
type Fallback struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HeroImage   string `json:"heroImage"`
	Generic     bool   `json:"generic"`
}

const emptyStateDescription = "No products yet. Please check back soon or contact us for availability."

var fallbacks = map[string]Fallback{
	"marble": {
		Title:       "Marble",
		Description: "Timeless natural marble in classic whites, warm beiges and bold veining, quarried from Italy, Greece, Turkey and beyond.",
		HeroImage:   "/images/collections/marble.jpg",
	},
	"granite": {
		Title:       "Granite",
		Description: "Hard-wearing granite for kitchens, facades and high-traffic floors, in solid and speckled tones.",
		HeroImage:   "/images/collections/granite.jpg",
	},
	"onyx": {
		Title:       "Onyx",
		Description: "Translucent onyx slabs for backlit walls, bars and feature pieces.",
		HeroImage:   "/images/collections/onyx.jpg",
	},
	"quartzite": {
		Title:       "Quartzite",
		Description: "The look of marble with the durability of granite.",
		HeroImage:   "/images/collections/quartzite.jpg",
	},
	"travertine": {
		Title:       "Travertine",
		Description: "Earthy travertine in filled, unfilled and tumbled finishes.",
		HeroImage:   "/images/collections/travertine.jpg",
	},
	"limestone": {
		Title:       "Limestone",
		Description: "Soft, even-toned limestone for interiors and cladding.",
		HeroImage:   "/images/collections/limestone.jpg",
	},
	"exotic-color": {
		Title:       "Exotic Color",
		Description: "Rare semi-precious and exotic stones in striking colours.",
		HeroImage:   "/images/collections/exotic-color.jpg",
	},
}

// FallbackFor returns the static content for ref. ref may be a slug or a
// display name. Unknown refs get a generic empty state.
func FallbackFor(ref string) *Fallback {
	key := slug.Make(ref)
	if f, ok := fallbacks[key]; ok {
		f.Slug = key
		return &f
	}
	return &Fallback{
		Slug:        key,
		Title:       ref,
		Description: emptyStateDescription,
		Generic:     true,
	}
}
