package brief

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultAspectRatios = []string{"1:1", "9:16", "16:9"}

const defaultCountPerProduct = 2

// Load reads a brief from a YAML or JSON file, applies defaults, and
// validates it.
func Load(path string) (*Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief: %w", err)
	}

	var b Brief
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &b)
	case ".json":
		err = json.Unmarshal(data, &b)
	default:
		return nil, fmt.Errorf("unsupported brief format %q (want .yaml, .yml, or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse brief %s: %w", path, err)
	}

	b.applyDefaults()
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid brief %s: %w", path, err)
	}
	return &b, nil
}

func (b *Brief) applyDefaults() {
	if len(b.Variants.AspectRatios) == 0 {
		b.Variants.AspectRatios = append([]string(nil), defaultAspectRatios...)
	}
	if b.Variants.CountPerProduct <= 0 {
		b.Variants.CountPerProduct = defaultCountPerProduct
	}
}

// Validate checks the brief for the fields a run cannot proceed without.
func (b *Brief) Validate() error {
	if strings.TrimSpace(b.CampaignID) == "" {
		return fmt.Errorf("campaign_id is required")
	}
	if len(b.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}
	for i, p := range b.Products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("product %d: id is required", i)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("product %q: name is required", p.ID)
		}
	}
	if len(b.Message) == 0 {
		return fmt.Errorf("message must contain at least one language")
	}
	for _, ratio := range b.Variants.AspectRatios {
		if _, _, err := splitRatio(ratio); err != nil {
			return err
		}
	}
	return nil
}

func splitRatio(ratio string) (int, int, error) {
	var a, bb int
	if _, err := fmt.Sscanf(ratio, "%d:%d", &a, &bb); err != nil || a <= 0 || bb <= 0 {
		return 0, 0, fmt.Errorf("invalid aspect ratio %q (want W:H)", ratio)
	}
	return a, bb, nil
}

// normalizeLang maps a target region to a message language key.
func normalizeLang(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}
