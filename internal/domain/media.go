package domain

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OwnerType says what a media record is attached to.
type OwnerType string

const (
	OwnerUser    OwnerType = "USER"
	OwnerProduct OwnerType = "PRODUCT"
)

// ParseOwnerType accepts an owner type in any case.
func ParseOwnerType(s string) (OwnerType, error) {
	switch t := OwnerType(strings.ToUpper(strings.TrimSpace(s))); t {
	case OwnerUser, OwnerProduct:
		return t, nil
	default:
		return "", ErrInvalidOwnerType
	}
}

// Media is an uploaded image. Path is the object key relative to the public base URL.
type Media struct {
	ID          string
	OwnerID     string
	OwnerType   OwnerType
	Path        string
	ContentType string
	CreatedAt   time.Time
}

// NewMedia creates a media record whose Path is derived from its own id.
func NewMedia(ownerID string, ownerType OwnerType, contentType string) (*Media, error) {
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}
	if _, err := ParseOwnerType(string(ownerType)); err != nil {
		return nil, err
	}
	m := &Media{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		OwnerType:   ownerType,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	m.Path = m.StorageKey()
	return m, nil
}

// StorageKey is the object store key for the record: {ownerType}/{ownerId}/{id}.
func (m *Media) StorageKey() string {
	return path.Join(strings.ToLower(string(m.OwnerType)), m.OwnerID, m.ID)
}

// URL joins the public base URL and the stored path.
func (m *Media) URL(publicBaseURL string) string {
	return publicBaseURL + "/" + m.Path
}
