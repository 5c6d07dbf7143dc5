package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item listed by a seller.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	OwnerID     string
	CategoryID  string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds a product owned by ownerID with a fresh id.
func NewProduct(ownerID, name, description string, price decimal.Decimal, quantity int, categoryID string, images []string) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Quantity:    quantity,
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the product's own invariants. Per-seller name uniqueness
// needs the repository and is enforced by the service.
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.OwnerID == "" {
		return ErrEmptyOwner
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// SameName reports whether name matches the product's name ignoring case.
func (p *Product) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}
