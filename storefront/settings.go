package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ConfigSource returns the flat site configuration.
type ConfigSource interface {
	GetAll(ctx context.Context) (map[string]json.RawMessage, error)
}

type SiteSettings struct {
	Name     string `json:"name"`
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
	Logo     string `json:"logo"`
}

type PaginationSettings struct {
	ItemsPerPage int `json:"itemsPerPage"`
}

type LayoutSettings struct {
	ColumnsPerRow int `json:"columnsPerRow"`
}

type DisplaySettings struct {
	ShowOldPrices           bool   `json:"showOldPrices"`
	ShowStockBadge          bool   `json:"showStockBadge"`
	ProductImagePlaceholder string `json:"productImagePlaceholder"`
}

type SearchSettings struct {
	MinCharacters int `json:"minCharacters"`
	DebounceTime  int `json:"debounceTime"`
}

type SocialsSettings struct {
	ShowInFooter bool `json:"showInFooter"`
}

// Settings is the presentation config the storefront reads, with defaults applied.
type Settings struct {
	Site       SiteSettings       `json:"site"`
	Pagination PaginationSettings `json:"pagination"`
	Layout     LayoutSettings     `json:"layout"`
	Display    DisplaySettings    `json:"display"`
	Search     SearchSettings     `json:"search"`
	Socials    SocialsSettings    `json:"socials"`
}

func DefaultSettings() Settings {
	return Settings{
		Site:       SiteSettings{Name: "Central Celulares", Locale: "es-PY", Currency: "PYG"},
		Pagination: PaginationSettings{ItemsPerPage: 8},
		Layout:     LayoutSettings{ColumnsPerRow: 4},
		Display:    DisplaySettings{ShowOldPrices: true, ShowStockBadge: false, ProductImagePlaceholder: "📱"},
		Search:     SearchSettings{MinCharacters: 2, DebounceTime: 300},
		Socials:    SocialsSettings{ShowInFooter: true},
	}
}

// LoadSettings overlays each config section on the defaults. A section that fails
// to decode keeps its defaults and is reported in the returned error.
func LoadSettings(cfg map[string]json.RawMessage) (Settings, error) {
	s := DefaultSettings()

	var errs []error
	sections := []struct {
		key string
		out interface{}
	}{
		{"site", &s.Site},
		{"pagination", &s.Pagination},
		{"layout", &s.Layout},
		{"display", &s.Display},
		{"search", &s.Search},
		{"socials", &s.Socials},
	}
	for _, sec := range sections {
		if err := decodeSection(cfg, sec.key, sec.out); err != nil {
			errs = append(errs, err)
		}
	}

	d := DefaultSettings()
	if s.Pagination.ItemsPerPage <= 0 {
		s.Pagination.ItemsPerPage = d.Pagination.ItemsPerPage
	}
	if s.Layout.ColumnsPerRow <= 0 {
		s.Layout.ColumnsPerRow = d.Layout.ColumnsPerRow
	}
	if s.Search.MinCharacters <= 0 {
		s.Search.MinCharacters = d.Search.MinCharacters
	}
	if s.Site.Locale == "" {
		s.Site.Locale = d.Site.Locale
	}
	if s.Site.Currency == "" {
		s.Site.Currency = d.Site.Currency
	}
	if s.Site.Name == "" {
		s.Site.Name = d.Site.Name
	}
	if s.Display.ProductImagePlaceholder == "" {
		s.Display.ProductImagePlaceholder = d.Display.ProductImagePlaceholder
	}

	return s, errors.Join(errs...)
}

// ColumnWidth is the card width percentage for the configured columns, as the grid style expects.
func (s Settings) ColumnWidth() string {
	return fmt.Sprintf("%.3f", 100/float64(s.Layout.ColumnsPerRow))
}

// decodeSection decodes cfg[key] into out, leaving out untouched when the key is absent.
func decodeSection(cfg map[string]json.RawMessage, key string, out interface{}) error {
	raw, ok := cfg[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("config %q: %w", key, err)
	}
	if err := decodeValue(generic, out); err != nil {
		return fmt.Errorf("config %q: %w", key, err)
	}
	return nil
}

func decodeValue(in, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
