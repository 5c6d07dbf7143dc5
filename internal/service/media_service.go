package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/store"
)

// MediaConfig holds the upload limits and the public address of stored files.
type MediaConfig struct {
	// PublicBaseURL prefixes a media path to form its URL.
	PublicBaseURL string
	// MaxFileSize is the largest accepted upload in bytes.
	MaxFileSize int64
	// MaxProductImages is the per-product media quota.
	MaxProductImages int
}

// File is an uploaded binary.
type File struct {
	Data        []byte
	ContentType string
}

// ProductLookup resolves the seller behind a product owner id. In the media
// service it is backed by the product table, so media and product share one
// database.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// MediaService is the media rule engine.
type MediaService interface {
	// Upload stores a new image for the owner. A USER owner keeps a single
	// image, so an upload replaces the previous one.
	Upload(ctx context.Context, caller domain.Caller, ownerID string, ownerType domain.OwnerType, file File) (*domain.Media, error)

	Get(ctx context.Context, id string) (*domain.Media, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Media, error)

	// Update swaps the binary behind an existing record, keeping its id and path.
	Update(ctx context.Context, caller domain.Caller, id string, file File) (*domain.Media, error)

	Delete(ctx context.Context, caller domain.Caller, id string) error

	// DeleteByOwner removes every image of an owner without permission checks.
	// It backs system cleanup such as reacting to a deleted product.
	DeleteByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (int, error)

	// Open returns a stored binary and its content type by path.
	Open(ctx context.Context, path string) ([]byte, string, error)

	// URL is the public address of the media's binary.
	URL(media *domain.Media) string

	// MaxProductImages is the configured per-product quota.
	MaxProductImages() int
}

type mediaServiceImpl struct {
	media    store.MediaStore
	objects  store.ObjectStorage
	products ProductLookup
	db       *sql.DB
	cfg      MediaConfig
	logger   *slog.Logger
}

// NewMediaService creates a MediaService. products may be nil, in which case
// a product image is owned by its product id alone.
func NewMediaService(
	media store.MediaStore,
	objects store.ObjectStorage,
	products ProductLookup,
	db *sql.DB,
	cfg MediaConfig,
	logger *slog.Logger,
) MediaService {
	return &mediaServiceImpl{
		media:    media,
		objects:  objects,
		products: products,
		db:       db,
		cfg:      cfg,
		logger:   logger.With("component", "media_service"),
	}
}

func (s *mediaServiceImpl) URL(m *domain.Media) string {
	return m.URL(strings.TrimSuffix(s.cfg.PublicBaseURL, "/"))
}

func (s *mediaServiceImpl) MaxProductImages() int {
	return s.cfg.MaxProductImages
}

func (s *mediaServiceImpl) validateFile(file File) error {
	if len(file.Data) == 0 {
		return invalidFile("File is empty")
	}
	if int64(len(file.Data)) > s.cfg.MaxFileSize {
		return invalidFile("File exceeds %dMB", s.cfg.MaxFileSize>>20)
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return invalidFile("Only image files are allowed")
	}
	return nil
}

// owner is the user a media record answers to: the record's owner for
// avatars, the product's seller for product images.
func (s *mediaServiceImpl) owner(ctx context.Context, m *domain.Media) (string, error) {
	if m.OwnerType != domain.OwnerProduct || s.products == nil {
		return m.OwnerID, nil
	}
	product, err := s.products.GetByID(ctx, m.OwnerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return m.OwnerID, nil
		}
		return "", NewServiceError("media", "resolve owner", err)
	}
	return product.OwnerID, nil
}

func (s *mediaServiceImpl) removeObject(ctx context.Context, path string) error {
	if err := s.objects.Delete(ctx, path); err != nil && !errors.Is(err, store.ErrObjectNotFound) {
		s.logger.Error("failed to delete stored object",
			"error", redact.Error(err),
			"path", path)
		return NewServiceError("media", "delete object", err)
	}
	return nil
}

func (s *mediaServiceImpl) Upload(ctx context.Context, caller domain.Caller, ownerID string, ownerType domain.OwnerType, file File) (*domain.Media, error) {
	if domain.IsBlank(ownerID) {
		return nil, badRequest("ownerId is required")
	}
	if err := s.validateFile(file); err != nil {
		return nil, err
	}
	if d := domain.Decide(domain.EntityMedia, domain.ActionUpload, caller, ownerID, ownerType); !d.Allowed {
		return nil, forbidden("%s", d.Reason)
	}

	m, err := domain.NewMedia(ownerID, ownerType, file.ContentType)
	if err != nil {
		return nil, badRequest("Invalid media: %v", err)
	}

	switch ownerType {
	case domain.OwnerUser:
		err = s.replaceAvatar(ctx, m)
	default:
		err = s.appendProductImage(ctx, m)
	}
	if err != nil {
		return nil, err
	}

	if err := s.objects.Put(ctx, m.Path, file.Data, file.ContentType); err != nil {
		s.logger.Error("failed to store uploaded object, removing record",
			"error", redact.Error(err),
			"media_id", m.ID)
		if delErr := s.media.Delete(ctx, m.ID); delErr != nil {
			s.logger.Error("failed to remove record after storage failure",
				"error", redact.Error(delErr),
				"media_id", m.ID)
		}
		return nil, NewServiceError("media", "upload", err)
	}

	s.logger.Info("media uploaded",
		"media_id", m.ID,
		"owner_id", ownerID,
		"owner_type", ownerType,
		"size", len(file.Data))
	return m, nil
}

// replaceAvatar drops the owner's previous avatar and saves m in its place.
// The records are swapped in one transaction; old objects are removed only
// after it commits, so a rollback leaves the previous avatar intact.
func (s *mediaServiceImpl) replaceAvatar(ctx context.Context, m *domain.Media) error {
	existing, err := s.media.ListByOwner(ctx, m.OwnerID, domain.OwnerUser)
	if err != nil {
		return NewServiceError("media", "upload", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.media.WithTx(tx)
		for _, old := range existing {
			if err := txStore.Delete(ctx, old.ID); err != nil && !store.IsNotFoundError(err) {
				return err
			}
		}
		return txStore.Create(ctx, m)
	})
	if err != nil {
		s.logger.Error("failed to replace avatar",
			"error", redact.Error(err),
			"owner_id", m.OwnerID)
		return NewServiceError("media", "upload", err)
	}

	// The new record is already committed; a leftover object is only logged.
	for _, old := range existing {
		_ = s.removeObject(ctx, old.Path)
	}

	if len(existing) > 0 {
		s.logger.Debug("replaced previous avatar",
			"owner_id", m.OwnerID,
			"replaced", len(existing))
	}
	return nil
}

func (s *mediaServiceImpl) appendProductImage(ctx context.Context, m *domain.Media) error {
	count, err := s.media.CountByOwner(ctx, m.OwnerID, domain.OwnerProduct)
	if err != nil {
		return NewServiceError("media", "upload", err)
	}
	if count >= s.cfg.MaxProductImages {
		return conflict("Product already has the maximum number of images (%d)", s.cfg.MaxProductImages)
	}

	if err := s.media.Create(ctx, m); err != nil {
		return NewServiceError("media", "upload", err)
	}
	return nil
}

func (s *mediaServiceImpl) Get(ctx context.Context, id string) (*domain.Media, error) {
	m, err := s.media.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("Media not found with ID: %s", id)
		}
		return nil, NewServiceError("media", "get", err)
	}
	return m, nil
}

func (s *mediaServiceImpl) ListByProduct(ctx context.Context, productID string) ([]*domain.Media, error) {
	list, err := s.media.ListByOwner(ctx, productID, domain.OwnerProduct)
	if err != nil {
		return nil, NewServiceError("media", "list", err)
	}
	if list == nil {
		list = []*domain.Media{}
	}
	return list, nil
}

func (s *mediaServiceImpl) Update(ctx context.Context, caller domain.Caller, id string, file File) (*domain.Media, error) {
	if d := domain.DecideRole(domain.EntityMedia, domain.ActionUpdate, caller, ""); !d.Allowed {
		return nil, forbidden("%s", d.Reason)
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.owner(ctx, m)
	if err != nil {
		return nil, err
	}
	if d := domain.Decide(domain.EntityMedia, domain.ActionUpdate, caller, ownerID, m.OwnerType); !d.Allowed {
		return nil, forbidden("%s", d.Reason)
	}

	if err := s.validateFile(file); err != nil {
		return nil, err
	}

	if err := s.removeObject(ctx, m.Path); err != nil {
		return nil, err
	}
	if err := s.objects.Put(ctx, m.Path, file.Data, file.ContentType); err != nil {
		s.logger.Error("failed to store replacement object",
			"error", redact.Error(err),
			"media_id", m.ID)
		return nil, NewServiceError("media", "update", err)
	}

	m.ContentType = file.ContentType
	if err := s.media.Update(ctx, m); err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFound("Media not found with ID: %s", id)
		}
		return nil, NewServiceError("media", "update", err)
	}

	s.logger.Info("media updated", "media_id", m.ID)
	return m, nil
}

func (s *mediaServiceImpl) Delete(ctx context.Context, caller domain.Caller, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	ownerID, err := s.owner(ctx, m)
	if err != nil {
		return err
	}
	if d := domain.Decide(domain.EntityMedia, domain.ActionDelete, caller, ownerID, m.OwnerType); !d.Allowed {
		return forbidden("%s", d.Reason)
	}

	if err := s.removeObject(ctx, m.Path); err != nil {
		return err
	}
	if err := s.media.Delete(ctx, m.ID); err != nil {
		if store.IsNotFoundError(err) {
			return notFound("Media not found with ID: %s", id)
		}
		return NewServiceError("media", "delete", err)
	}

	s.logger.Info("media deleted",
		"media_id", m.ID,
		"owner_type", m.OwnerType)
	return nil
}

func (s *mediaServiceImpl) DeleteByOwner(ctx context.Context, ownerID string, ownerType domain.OwnerType) (int, error) {
	list, err := s.media.ListByOwner(ctx, ownerID, ownerType)
	if err != nil {
		return 0, NewServiceError("media", "delete by owner", err)
	}

	deleted := 0
	for _, m := range list {
		if err := s.removeObject(ctx, m.Path); err != nil {
			return deleted, err
		}
		if err := s.media.Delete(ctx, m.ID); err != nil && !store.IsNotFoundError(err) {
			return deleted, NewServiceError("media", "delete by owner", err)
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("removed media of owner",
			"owner_id", ownerID,
			"owner_type", ownerType,
			"count", deleted)
	}
	return deleted, nil
}

func (s *mediaServiceImpl) Open(ctx context.Context, path string) ([]byte, string, error) {
	data, contentType, err := s.objects.Get(ctx, path)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, "", notFound("File not found: %s", path)
		}
		return nil, "", NewServiceError("media", "open", err)
	}
	return data, contentType, nil
}
