package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// AzureBlobStorage keeps exports as block blobs in a single container
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	maxSize   int64
	logger    *zap.Logger
}

// NewAzureBlobStorage connects and creates the container when it is missing
func NewAzureBlobStorage(ctx context.Context, connectionString, container string, maxSize int64, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", container, err)
	}
	logger.Info("export container ready", zap.String("container", container))

	return &AzureBlobStorage{
		client:    client,
		container: container,
		maxSize:   maxSize,
		logger:    logger,
	}, nil
}

// Put uploads the export with a content type and an attachment disposition
// so a direct blob URL downloads under the export's file name.
func (s *AzureBlobStorage) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}
	if err := checkSize(data, s.maxSize); err != nil {
		return Object{}, err
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(clean)})
	_, err = s.client.UploadBuffer(ctx, s.container, clean, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType:        &contentType,
			BlobContentDisposition: &disposition,
		},
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Debug("export uploaded",
		zap.String("blob", clean),
		zap.Int("size", len(data)),
	)
	return Object{Key: clean, ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *AzureBlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.DownloadStream(ctx, s.container, clean, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return resp.Body, nil
}

func (s *AzureBlobStorage) Remove(ctx context.Context, key string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteBlob(ctx, s.container, clean, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
