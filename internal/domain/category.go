package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Category groups products. Categories have no owner.
type Category struct {
	ID          string
	Slug        string
	Name        string
	Icon        string
	Description string
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of other characters into a dash.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// NewCategory builds a category, deriving the slug from the name when empty.
func NewCategory(slug, name, icon, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		slug = name
	}
	return &Category{
		ID:          uuid.NewString(),
		Slug:        Slugify(slug),
		Name:        name,
		Icon:        icon,
		Description: description,
	}, nil
}
