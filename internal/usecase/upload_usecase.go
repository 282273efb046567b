package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/fadilmartias/resume-screener/internal/errors"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/service"
	"github.com/fadilmartias/resume-screener/internal/util"
	"go.uber.org/zap"
)

var (
	ErrFileTooLarge = errors.New("file too large")
	ErrBadFileName  = errors.New("invalid file name")
)

type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// UploadUsecase manages resumes before analysis: the in-process staging area
// and the blob container.
type UploadUsecase struct {
	uploads    *repository.UploadRepository
	blobs      service.BlobStorage
	embeddings CacheClearer
	maxBytes   int64
	log        *zap.Logger
}

func NewUploadUsecase(uploads *repository.UploadRepository, blobs service.BlobStorage, embeddings CacheClearer, maxBytes int64, log *zap.Logger) *UploadUsecase {
	return &UploadUsecase{
		uploads:    uploads,
		blobs:      blobs,
		embeddings: embeddings,
		maxBytes:   maxBytes,
		log:        logger.OrNop(log),
	}
}

// Validate checks a file name and size against the upload rules and returns
// the cleaned base name.
func (u *UploadUsecase) Validate(filename string, size int64) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", apperrors.InvalidInput("file name is required", ErrBadFileName)
	}
	if !util.IsSupported(name) {
		return "", apperrors.InvalidInput(
			fmt.Sprintf("unsupported file type, allowed: %s", strings.Join(util.SupportedExtensions, ", ")),
			util.ErrUnsupportedFormat)
	}
	if u.maxBytes > 0 && size > u.maxBytes {
		return "", apperrors.InvalidInput(
			fmt.Sprintf("file size is too large (max %dMB)", u.maxBytes/(1024*1024)),
			ErrFileTooLarge)
	}
	return name, nil
}

func (u *UploadUsecase) Stage(filename string, data []byte) (string, error) {
	name, err := u.Validate(filename, int64(len(data)))
	if err != nil {
		return "", err
	}
	u.uploads.Put(name, data)
	u.log.Info("resume staged", zap.String("file", name), zap.Int("bytes", len(data)))
	return name, nil
}

func (u *UploadUsecase) StagedFiles() []string {
	return u.uploads.Names()
}

func (u *UploadUsecase) DeleteStaged(filename string) error {
	if err := u.uploads.Delete(filename); err != nil {
		return apperrors.NotFound("file not found in temporary storage", err)
	}
	return nil
}

// ClearStaged empties the staging area, and the embedding cache too when
// withEmbeddings is set.
func (u *UploadUsecase) ClearStaged(ctx context.Context, withEmbeddings bool) (int, error) {
	n := u.uploads.Clear()
	if withEmbeddings && u.embeddings != nil {
		if err := u.embeddings.ClearCache(ctx); err != nil {
			return n, apperrors.Unavailable("failed to clear embedding cache", err)
		}
	}
	u.log.Info("upload cache cleared", zap.Int("files", n), zap.Bool("embeddings", withEmbeddings))
	return n, nil
}

func (u *UploadUsecase) UploadToBlob(ctx context.Context, filename string, data []byte) (string, error) {
	if u.blobs == nil {
		return "", apperrors.Unavailable("blob storage is not configured", service.ErrBlobStorageMissing)
	}
	name, err := u.Validate(filename, int64(len(data)))
	if err != nil {
		return "", err
	}
	if err := u.blobs.Upload(ctx, name, data); err != nil {
		return "", apperrors.Unavailable("failed to upload to blob storage", err)
	}
	return name, nil
}

func (u *UploadUsecase) ListBlobs(ctx context.Context) ([]string, error) {
	if u.blobs == nil {
		return nil, apperrors.Unavailable("blob storage is not configured", service.ErrBlobStorageMissing)
	}
	names, err := u.blobs.List(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("failed to list blob storage", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (u *UploadUsecase) DeleteBlob(ctx context.Context, filename string) error {
	if u.blobs == nil {
		return apperrors.Unavailable("blob storage is not configured", service.ErrBlobStorageMissing)
	}
	if err := u.blobs.Delete(ctx, filename); err != nil {
		if errors.Is(err, service.ErrBlobNotFound) {
			return apperrors.NotFound("file not found in blob storage", err)
		}
		return apperrors.Unavailable("failed to delete blob", err)
	}
	return nil
}
