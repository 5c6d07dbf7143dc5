package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/mocks"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8080/media/files"

var testMediaConfig = MediaConfig{
	PublicBaseURL:    testBaseURL,
	MaxFileSize:      2 << 20,
	MaxProductImages: 5,
}

func png(n int) File {
	return File{Data: make([]byte, n), ContentType: "image/png"}
}

type mediaFixture struct {
	svc     MediaService
	media   *mocks.MockMediaStore
	objects *mocks.MemoryObjectStorage
	sqlMock sqlmock.Sqlmock
}

func newMediaFixture(t *testing.T, products ProductLookup, records ...*domain.Media) mediaFixture {
	t.Helper()
	_, log, cleanup := logger.SetupTestLogger(t)
	t.Cleanup(cleanup)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := mediaFixture{
		media:   mocks.NewMockMediaStore(records...),
		objects: mocks.NewMemoryObjectStorage(),
		sqlMock: sqlMock,
	}
	f.svc = NewMediaService(f.media, f.objects, products, db, testMediaConfig, log)
	return f
}

func TestMediaService_UploadValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		file File
		msg  string
	}{
		{"empty", File{ContentType: "image/png"}, "File is empty"},
		{"too large", png(2<<20 + 1), "File exceeds 2MB"},
		{"not an image", File{Data: []byte("%PDF"), ContentType: "application/pdf"}, "Only image files are allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMediaFixture(t, nil)
			_, err := f.svc.Upload(ctx, seller1, "p1", domain.OwnerProduct, tt.file)
			assert.ErrorIs(t, err, ErrInvalidFile)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestMediaService_UploadValidatesFileBeforePermissions(t *testing.T) {
	ctx := context.Background()
	pdf := File{Data: []byte("%PDF"), ContentType: "application/pdf"}

	tests := []struct {
		name      string
		caller    domain.Caller
		ownerID   string
		ownerType domain.OwnerType
		file      File
		msg       string
	}{
		{"empty avatar for someone else", domain.Caller{ID: "user-2", Role: domain.RoleClient}, "user-1", domain.OwnerUser, File{ContentType: "image/png"}, "File is empty"},
		{"pdf avatar by admin", admin1, "admin-1", domain.OwnerUser, pdf, "Only image files are allowed"},
		{"pdf product image by client", client1, "p1", domain.OwnerProduct, pdf, "Only image files are allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMediaFixture(t, nil)
			_, err := f.svc.Upload(ctx, tt.caller, tt.ownerID, tt.ownerType, tt.file)
			assert.ErrorIs(t, err, ErrInvalidFile)
			assert.EqualError(t, err, tt.msg)
			assert.Empty(t, f.media.Media)
		})
	}
}

func TestMediaService_UploadPermissions(t *testing.T) {
	ctx := context.Background()

	f := newMediaFixture(t, nil)
	_, err := f.svc.Upload(ctx, client1, "seller-1", domain.OwnerUser, png(10))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.EqualError(t, err, "You can only upload an avatar for yourself")

	_, err = f.svc.Upload(ctx, client1, "p1", domain.OwnerProduct, png(10))
	assert.EqualError(t, err, "Only Seller can upload product images")
}

func TestMediaService_SecondAvatarReplacesFirst(t *testing.T) {
	ctx := context.Background()
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	objects := &mocks.TestifyMockObjectStorage{}
	objects.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
	objects.On("Delete", mock.Anything, mock.Anything).Return(nil)

	mediaStore := mocks.NewMockMediaStore()
	svc := NewMediaService(mediaStore, objects, nil, db, testMediaConfig, log)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	first, err := svc.Upload(ctx, client1, "client-1", domain.OwnerUser, png(10))
	require.NoError(t, err)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	second, err := svc.Upload(ctx, client1, "client-1", domain.OwnerUser, png(20))
	require.NoError(t, err)

	require.Len(t, mediaStore.Media, 1)
	assert.Equal(t, second.ID, mediaStore.Media[0].ID)
	objects.AssertNumberOfCalls(t, "Delete", 1)
	objects.AssertCalled(t, "Delete", mock.Anything, first.Path)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestMediaService_AvatarTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	old := &domain.Media{ID: "m0", OwnerID: "client-1", OwnerType: domain.OwnerUser, Path: "user/client-1/m0"}
	f := newMediaFixture(t, nil, old)
	f.objects.Objects[old.Path] = []byte("old-avatar")
	f.media.CreateFn = func(context.Context, *domain.Media) error { return errors.New("insert failed") }

	f.sqlMock.ExpectBegin()
	f.sqlMock.ExpectRollback()

	_, err := f.svc.Upload(ctx, client1, "client-1", domain.OwnerUser, png(10))
	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	// The rolled-back record must still find its binary.
	assert.Equal(t, map[string][]byte{old.Path: []byte("old-avatar")}, f.objects.Objects)
	assert.NoError(t, f.sqlMock.ExpectationsWereMet())
}

func TestMediaService_AvatarReplacedDespiteStaleObjectFailure(t *testing.T) {
	ctx := context.Background()
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	old := &domain.Media{ID: "m0", OwnerID: "client-1", OwnerType: domain.OwnerUser, Path: "user/client-1/m0"}
	objects := &mocks.TestifyMockObjectStorage{}
	objects.On("Put", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
	objects.On("Delete", mock.Anything, old.Path).Return(errors.New("bucket offline"))

	mediaStore := mocks.NewMockMediaStore(old)
	svc := NewMediaService(mediaStore, objects, nil, db, testMediaConfig, log)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	m, err := svc.Upload(ctx, client1, "client-1", domain.OwnerUser, png(10))

	require.NoError(t, err)
	require.Len(t, mediaStore.Media, 1)
	assert.Equal(t, m.ID, mediaStore.Media[0].ID)
	objects.AssertCalled(t, "Delete", mock.Anything, old.Path)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestMediaService_ProductQuota(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t, nil)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Upload(ctx, seller1, "p1", domain.OwnerProduct, png(10))
		require.NoError(t, err)
	}

	_, err := f.svc.Upload(ctx, seller1, "p1", domain.OwnerProduct, png(10))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "maximum number of images (5)")
	assert.Len(t, f.objects.Objects, 5)

	list, err := f.svc.ListByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, list, 5)
	assert.Equal(t, 5, f.svc.MaxProductImages())
}

func TestMediaService_UploadStoresUnderKeyAndResolvesURL(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t, nil)

	m, err := f.svc.Upload(ctx, seller1, "p1", domain.OwnerProduct, png(10))
	require.NoError(t, err)
	assert.Equal(t, "product/p1/"+m.ID, m.Path)
	assert.Contains(t, f.objects.Objects, m.Path)

	got, err := f.svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/"+m.Path, f.svc.URL(got))

	data, contentType, err := f.svc.Open(ctx, m.Path)
	require.NoError(t, err)
	assert.Len(t, data, 10)
	assert.Equal(t, "image/png", contentType)
}

func TestMediaService_UploadCompensatesWhenStorageFails(t *testing.T) {
	ctx := context.Background()
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	objects := &mocks.TestifyMockObjectStorage{}
	objects.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket offline"))
	mediaStore := mocks.NewMockMediaStore()
	svc := NewMediaService(mediaStore, objects, nil, nil, testMediaConfig, log)

	_, err := svc.Upload(ctx, seller1, "p1", domain.OwnerProduct, png(10))
	assert.Error(t, err)
	assert.Empty(t, mediaStore.Media)
}

func TestMediaService_GetMissing(t *testing.T) {
	f := newMediaFixture(t, nil)
	_, err := f.svc.Get(context.Background(), "m9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Media not found with ID: m9")

	_, _, err = f.svc.Open(context.Background(), "product/p1/m9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMediaService_Update(t *testing.T) {
	ctx := context.Background()
	products := mocks.NewMockProductStore(newTestProduct("p1", "seller-1", "Lamp"))
	record := &domain.Media{ID: "m1", OwnerID: "p1", OwnerType: domain.OwnerProduct, Path: "product/p1/m1", ContentType: "image/png"}

	t.Run("product seller replaces binary in place", func(t *testing.T) {
		f := newMediaFixture(t, products, record)
		require.NoError(t, f.objects.Put(ctx, record.Path, []byte("old"), "image/png"))

		m, err := f.svc.Update(ctx, seller1, "m1", File{Data: []byte("new"), ContentType: "image/jpeg"})
		require.NoError(t, err)
		assert.Equal(t, "m1", m.ID)
		assert.Equal(t, "image/jpeg", m.ContentType)
		assert.Equal(t, []byte("new"), f.objects.Objects[record.Path])
	})

	t.Run("client is forbidden before lookup", func(t *testing.T) {
		f := newMediaFixture(t, products)
		_, err := f.svc.Update(ctx, client1, "m9", png(1))
		assert.EqualError(t, err, "Only sellers can update images")
	})

	t.Run("missing media", func(t *testing.T) {
		f := newMediaFixture(t, products)
		_, err := f.svc.Update(ctx, seller1, "m9", png(1))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other seller is forbidden", func(t *testing.T) {
		f := newMediaFixture(t, products, record)
		_, err := f.svc.Update(ctx, seller2, "m1", png(1))
		assert.EqualError(t, err, "You can only update your own media")
	})
}

func TestMediaService_Delete(t *testing.T) {
	ctx := context.Background()
	products := mocks.NewMockProductStore(newTestProduct("p1", "seller-1", "Lamp"))

	t.Run("seller deletes own product image", func(t *testing.T) {
		record := &domain.Media{ID: "m1", OwnerID: "p1", OwnerType: domain.OwnerProduct, Path: "product/p1/m1"}
		f := newMediaFixture(t, products, record)
		require.NoError(t, f.objects.Put(ctx, record.Path, []byte("x"), "image/png"))

		require.NoError(t, f.svc.Delete(ctx, seller1, "m1"))
		assert.Empty(t, f.media.Media)
		assert.Empty(t, f.objects.Objects)
	})

	t.Run("foreign avatar", func(t *testing.T) {
		record := &domain.Media{ID: "m2", OwnerID: "seller-1", OwnerType: domain.OwnerUser, Path: "user/seller-1/m2"}
		f := newMediaFixture(t, products, record)
		err := f.svc.Delete(ctx, client1, "m2")
		assert.EqualError(t, err, "You can only delete your own avatar")
		assert.Len(t, f.media.Media, 1)
	})

	t.Run("missing object still removes record", func(t *testing.T) {
		record := &domain.Media{ID: "m3", OwnerID: "client-1", OwnerType: domain.OwnerUser, Path: "user/client-1/m3"}
		f := newMediaFixture(t, products, record)
		require.NoError(t, f.svc.Delete(ctx, client1, "m3"))
		assert.Empty(t, f.media.Media)
	})
}

func TestMediaService_DeleteByOwner(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture(t, nil,
		&domain.Media{ID: "m1", OwnerID: "p1", OwnerType: domain.OwnerProduct, Path: "product/p1/m1"},
		&domain.Media{ID: "m2", OwnerID: "p1", OwnerType: domain.OwnerProduct, Path: "product/p1/m2"},
		&domain.Media{ID: "m3", OwnerID: "p2", OwnerType: domain.OwnerProduct, Path: "product/p2/m3"})

	n, err := f.svc.DeleteByOwner(ctx, "p1", domain.OwnerProduct)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, f.media.Media, 1)
	assert.Equal(t, "m3", f.media.Media[0].ID)
}

func TestMediaService_OpenPropagatesStorageErrors(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	objects := &mocks.TestifyMockObjectStorage{}
	objects.On("Get", mock.Anything, "k").Return(nil, "", store.ErrObjectNotFound).Once()
	objects.On("Get", mock.Anything, "k").Return(nil, "", errors.New("timeout")).Once()
	svc := NewMediaService(mocks.NewMockMediaStore(), objects, nil, nil, testMediaConfig, log)

	_, _, err := svc.Open(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.Open(context.Background(), "k")
	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
}
