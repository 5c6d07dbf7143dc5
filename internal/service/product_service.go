package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/events"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/store"
	"github.com/shopspring/decimal"
)

// ProductConfig holds the product rules that vary by deployment.
type ProductConfig struct {
	// MaxImages caps the image references a product may list.
	MaxImages int
}

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	CategoryID  string
	Images      []string
}

// UpdateProductInput is a patch. Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
	CategoryID  *string
	Images      []string
}

// ProductService is the product rule engine.
type ProductService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)

	// List returns every product and fails with ErrNotFound when there are none.
	List(ctx context.Context) ([]*domain.Product, error)

	// ListBySeller returns the seller's products; an empty result is not an error.
	ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error)

	Update(ctx context.Context, caller domain.Caller, id string, in UpdateProductInput) (*domain.Product, error)

	// Delete removes the product and announces it on the event publisher.
	// Publishing failures are logged and never returned.
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

type productServiceImpl struct {
	products  store.ProductStore
	publisher events.Publisher
	cfg       ProductConfig
	logger    *slog.Logger
}

// NewProductService creates a ProductService.
func NewProductService(
	products store.ProductStore,
	publisher events.Publisher,
	cfg ProductConfig,
	logger *slog.Logger,
) ProductService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &productServiceImpl{
		products:  products,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With("component", "product_service"),
	}
}

func checkStock(price decimal.Decimal, quantity int) error {
	if price.IsNegative() {
		return badRequest("Price must be non-negative.")
	}
	if quantity < 0 {
		return badRequest("Quantity must be zero or greater.")
	}
	return nil
}

func (s *productServiceImpl) checkImages(images []string) error {
	if s.cfg.MaxImages > 0 && len(images) > s.cfg.MaxImages {
		return badRequest("A product can have at most %d images.", s.cfg.MaxImages)
	}
	return nil
}

func (s *productServiceImpl) checkName(ctx context.Context, ownerID, name, excludeID string) error {
	taken, err := s.products.NameTaken(ctx, ownerID, name, excludeID)
	if err != nil {
		return NewServiceError("product", "check name", err)
	}
	if taken {
		return conflict("Product with name already exists for seller.")
	}
	return nil
}

func (s *productServiceImpl) Create(ctx context.Context, caller domain.Caller, in CreateProductInput) (*domain.Product, error) {
	if d := domain.Decide(domain.EntityProduct, domain.ActionCreate, caller, caller.ID, ""); !d.Allowed {
		return nil, forbidden("%s", d.Reason)
	}
	if err := checkStock(in.Price, in.Quantity); err != nil {
		return nil, err
	}
	if err := s.checkImages(in.Images); err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(caller.ID, in.Name, in.Description, in.Price, in.Quantity, in.CategoryID, in.Images)
	if err != nil {
		return nil, badRequest("Invalid product: %v", err)
	}

	if err := s.checkName(ctx, product.OwnerID, product.Name, ""); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, store.ErrProductNameExists) {
			return nil, conflict("Product with name already exists for seller.")
		}
		s.logger.Error("failed to save product",
			"error", redact.Error(err),
			"seller_id", caller.ID)
		return nil, NewServiceError("product", "create", err)
	}

	s.logger.Info("product created",
		"product_id", product.ID,
		"seller_id", product.OwnerID)
	return product, nil
}

func (s *productServiceImpl) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("Product not found with ID: %s", id)
		}
		return nil, NewServiceError("product", "get", err)
	}
	return product, nil
}

func (s *productServiceImpl) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, NewServiceError("product", "list", err)
	}
	if len(products) == 0 {
		return nil, notFound("No products found.")
	}
	return products, nil
}

func (s *productServiceImpl) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	products, err := s.products.ListByOwner(ctx, sellerID)
	if err != nil {
		return nil, NewServiceError("product", "list by seller", err)
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return products, nil
}

func (s *productServiceImpl) Update(ctx context.Context, caller domain.Caller, id string, in UpdateProductInput) (*domain.Product, error) {
	if d := domain.DecideRole(domain.EntityProduct, domain.ActionUpdate, caller, ""); !d.Allowed {
		return nil, forbidden("%s", d.Reason)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("Cannot update — Product not found with ID: %s", id)
		}
		return nil, NewServiceError("product", "update", err)
	}

	if d := domain.Decide(domain.EntityProduct, domain.ActionUpdate, caller, product.OwnerID, ""); !d.Allowed {
		s.logger.Warn("product update denied",
			"product_id", id,
			"caller_id", caller.ID,
			"reason", d.Reason)
		return nil, forbidden("%s", d.Reason)
	}

	price, quantity := product.Price, product.Quantity
	if in.Price != nil {
		price = *in.Price
	}
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if err := checkStock(price, quantity); err != nil {
		return nil, err
	}
	if in.Images != nil {
		if err := s.checkImages(in.Images); err != nil {
			return nil, err
		}
	}

	if in.Name != nil && !product.SameName(*in.Name) {
		if err := s.checkName(ctx, product.OwnerID, *in.Name, product.ID); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Images != nil {
		product.Images = in.Images
	}
	product.Price = price
	product.Quantity = quantity

	if err := product.Validate(); err != nil {
		return nil, badRequest("Invalid product: %v", err)
	}

	if err := s.products.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNameExists):
			return nil, conflict("Product with name already exists for seller.")
		case store.IsNotFoundError(err):
			return nil, notFound("Cannot update — Product not found with ID: %s", id)
		}
		s.logger.Error("failed to update product",
			"error", redact.Error(err),
			"product_id", id)
		return nil, NewServiceError("product", "update", err)
	}

	s.logger.Info("product updated", "product_id", id)
	return product, nil
}

func (s *productServiceImpl) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if d := domain.DecideRole(domain.EntityProduct, domain.ActionDelete, caller, ""); !d.Allowed {
		return forbidden("%s", d.Reason)
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return notFound("Cannot delete — Product not found with ID: %s", id)
		}
		return NewServiceError("product", "delete", err)
	}

	if d := domain.Decide(domain.EntityProduct, domain.ActionDelete, caller, product.OwnerID, ""); !d.Allowed {
		s.logger.Warn("product delete denied",
			"product_id", id,
			"caller_id", caller.ID,
			"reason", d.Reason)
		return forbidden("%s", d.Reason)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return notFound("Cannot delete — Product not found with ID: %s", id)
		}
		s.logger.Error("failed to delete product",
			"error", redact.Error(err),
			"product_id", id)
		return NewServiceError("product", "delete", err)
	}

	event := events.NewProductDeletedEvent(product.ID, product.OwnerID)
	if err := s.publisher.PublishProductDeleted(ctx, event); err != nil {
		s.logger.Error("failed to publish product deleted event",
			"error", err,
			"product_id", product.ID,
			"seller_id", product.OwnerID)
	}

	s.logger.Info("product deleted",
		"product_id", id,
		"seller_id", product.OwnerID)
	return nil
}
