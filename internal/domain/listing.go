package domain

import (
	"fmt"
	"strings"
)

const (
	// SecondaryPriceFactor converts a submitted USD price into the displayed ETH price.
	SecondaryPriceFactor = 0.0003
	// MaxImageBytes is the largest accepted upload (5 MiB).
	MaxImageBytes int64 = 5 * 1024 * 1024
)

// Listing is a finalized catalog entry. Values are copied out of the store, never shared.
type Listing struct {
	ID             int64   `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	PrimaryPrice   float64 `json:"price" yaml:"price"`
	SecondaryPrice float64 `json:"cryptoPrice" yaml:"cryptoPrice"`
	Description    string  `json:"description" yaml:"description"`
	Category       string  `json:"category" yaml:"category"`
	Image          string  `json:"image" yaml:"image"`
}

// DisplayPrice renders the primary price the way the listing card shows it.
func (l Listing) DisplayPrice() string {
	return fmt.Sprintf("$%.2f", l.PrimaryPrice)
}

// DisplayCryptoPrice renders the secondary price with four decimals.
func (l Listing) DisplayCryptoPrice() string {
	return fmt.Sprintf("%.4f ETH", l.SecondaryPrice)
}

// EncodedImage is an uploaded picture held as a self-contained data URI.
type EncodedImage struct {
	DataURI   string `json:"data_uri"`
	MediaType string `json:"media_type"`
	FileName  string `json:"file_name"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Draft is the listing being composed. Field order matches the submission check order:
// name, price, description, then image. Category is optional.
type Draft struct {
	Name        string        `json:"name" validate:"required"`
	Price       string        `json:"price" validate:"required,positive_decimal"`
	Description string        `json:"description" validate:"required"`
	Category    string        `json:"category"`
	Image       *EncodedImage `json:"image" validate:"required"`
}

// IsEmpty reports whether the draft is in its initial shape.
func (d Draft) IsEmpty() bool {
	return d.Name == "" && d.Price == "" && d.Description == "" && d.Category == "" && d.Image == nil
}

// DraftPatch carries partial text-field updates; nil fields are left untouched.
type DraftPatch struct {
	Name        *string `json:"name"`
	Price       *string `json:"price"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// ViewMode is the catalog layout. It is presentation state and survives catalog changes.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewRow  ViewMode = "row"
)

// ParseViewMode accepts "grid" or "row" (case-insensitive).
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewGrid:
		return ViewGrid, nil
	case ViewRow:
		return ViewRow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}
