package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMedia(t *testing.T) {
	m, err := NewMedia("product-1", OwnerProduct, "image/png")

	require.NoError(t, err)
	assert.Equal(t, "product/product-1/"+m.ID, m.Path)
	assert.Equal(t, "https://cdn.example.com/"+m.Path, m.URL("https://cdn.example.com"))
}

func TestNewMedia_Invalid(t *testing.T) {
	_, err := NewMedia("", OwnerUser, "image/png")
	assert.ErrorIs(t, err, ErrEmptyOwner)

	_, err = NewMedia("u1", OwnerType("SHOP"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidOwnerType)
}

func TestParseOwnerType(t *testing.T) {
	got, err := ParseOwnerType("user")
	require.NoError(t, err)
	assert.Equal(t, OwnerUser, got)

	_, err = ParseOwnerType("")
	assert.ErrorIs(t, err, ErrValidation)
}
