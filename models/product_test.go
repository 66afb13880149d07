package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestProductInput_NormalizeAndRequired(t *testing.T) {
	in := ProductInput{Name: ptr("  Galaxy A15 "), Category: ptr(" "), Price: ptr(int64(450000)), Image: ptr("  ")}
	in.Normalize()

	assert.Equal(t, "Galaxy A15", *in.Name)
	assert.Nil(t, in.Image)
	assert.True(t, in.MissingRequired())

	in.Category = ptr("Samsung")
	assert.False(t, in.MissingRequired())
}

func TestProductInput_ApplyTo(t *testing.T) {
	old := int64(500000)
	p := Product{Name: "Galaxy A15", Price: 450000, OldPrice: &old, Category: "Samsung", InStock: true, Badges: []string{"Nuevo"}}

	// absent fields keep their values
	(&ProductInput{Price: ptr(int64(430000))}).ApplyTo(&p)
	assert.Equal(t, int64(430000), p.Price)
	assert.Equal(t, "Galaxy A15", p.Name)
	assert.Equal(t, &old, p.OldPrice)

	badges := []string{}
	(&ProductInput{OldPriceSet: true, InStock: ptr(false), Badges: &badges, Image: ptr("http://x/a.jpg")}).ApplyTo(&p)
	assert.Nil(t, p.OldPrice)
	assert.False(t, p.InStock)
	assert.Empty(t, p.Badges)
	assert.Equal(t, "http://x/a.jpg", p.ImageURL())
}
