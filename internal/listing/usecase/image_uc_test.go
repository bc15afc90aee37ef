package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

func newImageFixture() (*ImageUsecase, *fakeStorage) {
	storage := &fakeStorage{}
	return NewImageUsecase(storage, logger.NewNop()), storage
}

func TestStoreBatch(t *testing.T) {
	uc, storage := newImageFixture()

	refs, err := uc.Store(context.Background(), []ImageFile{
		{Name: "front.jpg", Data: []byte("a")},
		{Name: "living room.PNG", Data: []byte("b")},
		{Name: "garden.gif", Data: []byte("c")},
	})
	require.NoError(t, err)
	require.Len(t, refs, 3)
	require.Len(t, storage.uploads, 3)

	// References come back in input order.
	assert.Contains(t, refs[0], "front.jpg")
	assert.Contains(t, refs[1], "living_room.PNG")
	assert.Contains(t, refs[2], "garden.gif")
}

func TestStoreUniquePrefixes(t *testing.T) {
	uc, _ := newImageFixture()

	refs, err := uc.Store(context.Background(), []ImageFile{
		{Name: "kitchen.jpg", Data: []byte("a")},
		{Name: "kitchen.jpg", Data: []byte("b")},
	})
	require.NoError(t, err)
	assert.NotEqual(t, refs[0], refs[1], "identical file names must still store under distinct keys")
}

func TestStoreEmptyBatch(t *testing.T) {
	uc, storage := newImageFixture()

	_, err := uc.Store(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoImages)
	assert.Empty(t, storage.uploads)
}

func TestStoreBatchCap(t *testing.T) {
	uc, storage := newImageFixture()

	files := make([]ImageFile, MaxImagesPerRequest+1)
	for i := range files {
		files[i] = ImageFile{Name: fmt.Sprintf("img-%d.jpg", i), Data: []byte("x")}
	}
	_, err := uc.Store(context.Background(), files)
	assert.ErrorIs(t, err, domain.ErrTooManyImages)
	assert.Empty(t, storage.uploads)

	_, err = uc.Store(context.Background(), files[:MaxImagesPerRequest])
	assert.NoError(t, err)
}

func TestStoreRejectsBadExtensionBeforeAnyUpload(t *testing.T) {
	uc, storage := newImageFixture()

	_, err := uc.Store(context.Background(), []ImageFile{
		{Name: "front.jpg", Data: []byte("a")},
		{Name: "floorplan.pdf", Data: []byte("b")},
	})
	require.ErrorIs(t, err, domain.ErrInvalidImageType)
	assert.Contains(t, err.Error(), "floorplan.pdf")
	assert.Empty(t, storage.uploads, "a batch with any bad file must store nothing")
}

func TestStoreExtensionCaseInsensitive(t *testing.T) {
	uc, _ := newImageFixture()

	_, err := uc.Store(context.Background(), []ImageFile{{Name: "FRONT.JPEG", Data: []byte("a")}})
	assert.NoError(t, err)
}

func TestStoreKeysUnderUploadsPrefix(t *testing.T) {
	uc, storage := newImageFixture()

	_, err := uc.Store(context.Background(), []ImageFile{{Name: "front.jpg", Data: []byte("a")}})
	require.NoError(t, err)
	require.Len(t, storage.uploads, 1)
	assert.True(t, strings.HasPrefix(storage.uploads[0], "uploads/"), "got key %q", storage.uploads[0])
}
