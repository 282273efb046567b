package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"go.uber.org/zap"
)

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrBlobStorageMissing = errors.New("blob storage is not configured")
)

// BlobStorage holds resume files outside the process.
type BlobStorage interface {
	List(ctx context.Context) ([]string, error)
	Download(ctx context.Context, name string) ([]byte, error)
	Upload(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	log       *zap.Logger
}

var _ BlobStorage = (*AzureBlobStorage)(nil)

func NewAzureBlobStorage(cfg *config.StorageConfig, log *zap.Logger) (*AzureBlobStorage, error) {
	if !cfg.Enabled() {
		return nil, ErrBlobStorageMissing
	}
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return &AzureBlobStorage{
		client:    client,
		container: cfg.ResumesContainer,
		log:       logger.OrNop(log).With(zap.String("container", cfg.ResumesContainer)),
	}, nil
}

func (s *AzureBlobStorage) List(ctx context.Context) ([]string, error) {
	var names []string
	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (s *AzureBlobStorage) Download(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, s.wrap("download", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, nil
}

func (s *AzureBlobStorage) Upload(ctx context.Context, name string, data []byte) error {
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return s.wrap("upload", name, err)
	}
	s.log.Info("blob uploaded", zap.String("file", name), zap.Int("bytes", len(data)))
	return nil
}

func (s *AzureBlobStorage) Delete(ctx context.Context, name string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return s.wrap("delete", name, err)
	}
	s.log.Info("blob deleted", zap.String("file", name))
	return nil
}

func (s *AzureBlobStorage) wrap(op, name string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("%w: %s", ErrBlobNotFound, name)
	}
	return fmt.Errorf("%s blob %s: %w", op, name, err)
}
