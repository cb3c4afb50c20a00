package catalog

import (
	"fmt"
	"os"

	"artisan-market/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the sample listings every session starts with. Their crypto prices
// are literal values, not derived from SecondaryPriceFactor.
func DefaultSeed() []domain.Listing {
	return []domain.Listing{
		{
			ID:             1,
			Name:           "Handwoven Silk Saree",
			PrimaryPrice:   250,
			SecondaryPrice: 0.075,
			Description:    "Exquisite hand-woven silk saree with traditional kanthi work, crafted by women artisans from rural Karnataka.",
			Category:       "Traditional Wear",
			Image:          "/saree.jpg",
		},
		{
			ID:             2,
			Name:           "Handloom Cotton Dress",
			PrimaryPrice:   120,
			SecondaryPrice: 0.036,
			Description:    "Comfortable handloom cotton dress with block print design, supporting local weaving communities.",
			Category:       "Clothing",
			Image:          "/cotton.jpg",
		},
		{
			ID:             3,
			Name:           "Organic Cotton Towel Set",
			PrimaryPrice:   75,
			SecondaryPrice: 0.022,
			Description:    "Set of 3 hand-woven organic cotton towels, naturally dyed using eco-friendly techniques.",
			Category:       "Home Textiles",
			Image:          "/towel.jpg",
		},
		{
			ID:             4,
			Name:           "Kantha Embroidered Shawl",
			PrimaryPrice:   180,
			SecondaryPrice: 0.054,
			Description:    "Intricate Kantha embroidered shawl, handcrafted by women artisans from West Bengal.",
			Category:       "Accessories",
			Image:          "/shawl.jpg",
		},
		{
			ID:             5,
			Name:           "Handwoven Ikat Dupatta",
			PrimaryPrice:   95,
			SecondaryPrice: 0.028,
			Description:    "Vibrant Ikat weave dupatta showcasing traditional weaving techniques from Odisha.",
			Category:       "Accessories",
			Image:          "/dup.jpg",
		},
	}
}

type seedFile struct {
	Listings []domain.Listing `yaml:"listings"`
}

// LoadSeedFile reads seed listings from a YAML file with a top-level "listings" list.
func LoadSeedFile(path string) ([]domain.Listing, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := ValidateSeed(f.Listings); err != nil {
		return nil, err
	}
	return f.Listings, nil
}

// ValidateSeed checks that ids are positive and unique and the required fields are set.
func ValidateSeed(listings []domain.Listing) error {
	seen := make(map[int64]bool, len(listings))
	for i, l := range listings {
		if l.ID <= 0 {
			return fmt.Errorf("seed listing %d: id must be positive", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("seed listing %d: duplicate id %d", i, l.ID)
		}
		seen[l.ID] = true
		if l.Name == "" || l.Description == "" || l.Image == "" {
			return fmt.Errorf("seed listing %d: name, description and image are required", i)
		}
		if l.PrimaryPrice <= 0 || l.SecondaryPrice <= 0 {
			return fmt.Errorf("seed listing %d: prices must be positive", i)
		}
	}
	return nil
}

// MarshalSeed renders listings in the seed file format.
func MarshalSeed(listings []domain.Listing) ([]byte, error) {
	return yaml.Marshal(seedFile{Listings: listings})
}
