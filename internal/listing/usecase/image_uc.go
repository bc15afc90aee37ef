package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

// MaxImagesPerRequest caps how many files one listing-affecting request
// may carry.
const MaxImagesPerRequest = 10

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// ImageFile is one uploaded file as received at the boundary.
type ImageFile struct {
	Name string
	Data []byte
}

// ImageUsecase persists uploaded images and hands back ordered references.
// The first reference becomes the listing's cover.
type ImageUsecase struct {
	storage domain.Storage
	logger  *logger.Logger
}

func NewImageUsecase(storage domain.Storage, log *logger.Logger) *ImageUsecase {
	return &ImageUsecase{storage: storage, logger: log}
}

// Store validates the whole batch before writing anything, then uploads the
// files in input order. Stored names carry a random prefix so two uploads of
// "kitchen.jpg" never collide.
func (uc *ImageUsecase) Store(ctx context.Context, files []ImageFile) ([]string, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoImages
	}
	if len(files) > MaxImagesPerRequest {
		return nil, domain.ErrTooManyImages
	}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if _, ok := allowedImageExts[ext]; !ok {
			uc.logger.Warn("ImageUsecase.Store: rejected file with disallowed extension", "file", f.Name)
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidImageType, f.Name)
		}
	}

	refs := make([]string, 0, len(files))
	for _, f := range files {
		objectKey := fmt.Sprintf("uploads/%s-%s", uuid.New().String(), sanitizeFileName(f.Name))
		ref, err := uc.storage.Upload(ctx, objectKey, f.Data)
		if err != nil {
			uc.logger.Error("ImageUsecase.Store: upload failed", "file", f.Name, "key", objectKey, "error", err.Error())
			return nil, fmt.Errorf("store image %q: %w", f.Name, err)
		}
		refs = append(refs, ref)
	}
	uc.logger.Info("ImageUsecase.Store: stored image batch", "count", len(refs))
	return refs, nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	return strings.ReplaceAll(base, " ", "_")
}
