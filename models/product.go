package models

import (
	"strings"
	"time"
)

// Product is a catalog item. Prices are whole guaraníes.
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Price          int64     `gorm:"not null" json:"price"`
	OldPrice       *int64    `json:"old_price"`
	Category       string    `gorm:"index;not null" json:"category"`
	InStock        bool      `gorm:"not null" json:"in_stock"`
	Image          *string   `json:"image"`
	Badges         []string  `gorm:"serializer:json;type:text" json:"badges"`
	Specifications []string  `gorm:"serializer:json;type:text" json:"specifications"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ImageURL returns the stored image URL or "".
func (p *Product) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

// ProductInput carries the fields supplied by a create or update request.
// Nil means "not supplied"; on update the stored value is kept.
type ProductInput struct {
	Name     *string
	Price    *int64
	Category *string
	InStock  *bool
	Image    *string

	// OldPriceSet distinguishes "clear old price" (set, nil) from "not supplied".
	OldPriceSet bool
	OldPrice    *int64

	Badges         *[]string
	Specifications *[]string
}

// Normalize trims whitespace from text fields.
func (in *ProductInput) Normalize() {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	in.Name = trim(in.Name)
	in.Category = trim(in.Category)
	in.Image = trim(in.Image)
	if in.Image != nil && *in.Image == "" {
		in.Image = nil
	}
}

// MissingRequired reports whether a create request lacks name, price or category.
func (in *ProductInput) MissingRequired() bool {
	return in.Name == nil || *in.Name == "" ||
		in.Price == nil ||
		in.Category == nil || *in.Category == ""
}

// ApplyTo merges the supplied fields over p.
func (in *ProductInput) ApplyTo(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OldPriceSet {
		p.OldPrice = in.OldPrice
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Image != nil {
		img := *in.Image
		p.Image = &img
	}
	if in.Badges != nil {
		p.Badges = append([]string{}, (*in.Badges)...)
	}
	if in.Specifications != nil {
		p.Specifications = append([]string{}, (*in.Specifications)...)
	}
}
