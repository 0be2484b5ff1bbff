package brief

import "sort"

// Brand carries campaign branding: display name, accent colors as
// #RRGGBB strings, and an optional logo image path.
type Brand struct {
	Name     string   `yaml:"name" json:"name"`
	Colors   []string `yaml:"colors" json:"colors"`
	LogoPath string   `yaml:"logo_path" json:"logo_path"`
}

// Product is one item the campaign advertises. HeroAsset, when set and
// valid, is reused instead of generating a fresh hero image.
type Product struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	HeroAsset string `yaml:"hero_asset" json:"hero_asset"`
}

// Target describes the audience the campaign addresses.
type Target struct {
	Region   string `yaml:"region" json:"region"`
	Audience string `yaml:"audience" json:"audience"`
}

// Variants controls how many creatives are produced and at which aspect
// ratios.
type Variants struct {
	AspectRatios    []string `yaml:"aspect_ratios" json:"aspect_ratios"`
	CountPerProduct int      `yaml:"count_per_product" json:"count_per_product"`
}

// Legal carries campaign-specific prohibited terms that extend the
// centrally configured rule set.
type Legal struct {
	ProhibitedTerms []string `yaml:"prohibited_terms" json:"prohibited_terms"`
}

// Message maps a language code to a localized headline.
type Message map[string]string

// ForLanguage returns the headline for lang, falling back to English and
// then to the first entry in key order so the choice is deterministic.
func (m Message) ForLanguage(lang string) string {
	if text, ok := m[lang]; ok && text != "" {
		return text
	}
	if text, ok := m["en"]; ok && text != "" {
		return text
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m[k] != "" {
			return m[k]
		}
	}
	return ""
}

// Brief is the structured campaign input driving one pipeline run.
type Brief struct {
	CampaignID string    `yaml:"campaign_id" json:"campaign_id"`
	Brand      Brand     `yaml:"brand" json:"brand"`
	Products   []Product `yaml:"products" json:"products"`
	Target     Target    `yaml:"target" json:"target"`
	Message    Message   `yaml:"message" json:"message"`
	Variants   Variants  `yaml:"variants" json:"variants"`
	Legal      *Legal    `yaml:"legal,omitempty" json:"legal,omitempty"`
}

// Headline picks the localized message for the brief's target region.
func (b *Brief) Headline() string {
	return b.Message.ForLanguage(normalizeLang(b.Target.Region))
}
