package api

import (
	"time"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the payload for POST /products.
type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,max=255"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CategoryID  string          `json:"categoryId"  validate:"max=64"`
	Images      []string        `json:"images"`
}

// UpdateProductRequest defines the payload for PUT /products/{id}.
// Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	CategoryID  *string          `json:"categoryId"  validate:"omitempty,max=64"`
	Images      []string         `json:"images"`
}

// ProductResponse is the JSON form of a product. The owner is exposed as userId.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	UserID      string          `json:"userId"`
	CategoryID  string          `json:"categoryId"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func productToResponse(p *domain.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		UserID:      p.OwnerID,
		CategoryID:  p.CategoryID,
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func productsToResponse(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productToResponse(p))
	}
	return out
}

// CategoryRequest defines the payload for creating or updating a category.
type CategoryRequest struct {
	Slug        string `json:"slug"        validate:"max=100"`
	Name        string `json:"name"        validate:"max=255"`
	Icon        string `json:"icon"        validate:"max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// CategoryResponse is the JSON form of a category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func categoryToResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name,
		Icon:        c.Icon,
		Description: c.Description,
	}
}

// RegisterRequest defines the payload for POST /auth/register.
// Blank email and password are reported by the user service.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"max=255"`
	Email    string `json:"email"    validate:"max=255"`
	Password string `json:"password" validate:"max=72"`
	Role     string `json:"role"     validate:"max=16"`
}

// LoginRequest defines the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the data of a successful register or login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UpdateUserRequest defines the payload for PUT /api/users/{id}.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=255"`
	Email    *string `json:"email"    validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,max=72"`
	Role     *string `json:"role"     validate:"omitempty,max=16"`
	Avatar   *string `json:"avatar"   validate:"omitempty,max=1024"`
}

// UpdateProfileRequest defines the payload for PUT /api/users/me.
// Email and role are ignored.
type UpdateProfileRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,max=72"`
	Avatar   *string `json:"avatar"   validate:"omitempty,max=1024"`
}

// UserResponse is the JSON form of a user. The password hash is never included.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}

// MediaResponse is the JSON form of a media record.
type MediaResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	OwnerType   string    `json:"ownerType"`
	Path        string    `json:"path"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MediaListResponse lists a product's images with the remaining quota.
type MediaListResponse struct {
	Images []MediaResponse `json:"images"`
	Count  int             `json:"count"`
	Max    int             `json:"max"`
}

// MediaDeletedResponse confirms a deletion.
type MediaDeletedResponse struct {
	MediaID string `json:"mediaId"`
	Message string `json:"message"`
}
