// Package blob stores uploaded document content. The portal keeps only
// metadata in the key-value store; bytes live behind the Storage interface,
// backed by Azure Blob Storage in deployments and an in-memory map otherwise.
package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// Storage holds document content addressed by blob name.
type Storage interface {
	Upload(ctx context.Context, blobName, contentType string, data []byte) error
	Download(ctx context.Context, blobName string) ([]byte, error)
	Delete(ctx context.Context, blobName string) error
}

// AzureStorage wraps the Azure Blob Storage SDK for document content.
type AzureStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

var _ Storage = (*AzureStorage)(nil)

// NewAzureStorage creates an Azure-backed Storage.
func NewAzureStorage(accountName, accountKey, containerName string, logger *zap.Logger) (*AzureStorage, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &AzureStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload writes document content under blobName.
func (s *AzureStorage) Upload(ctx context.Context, blobName, contentType string, data []byte) error {
	s.logger.Info("uploading document to blob storage",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := s.client.ServiceClient().NewContainerClient(s.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr(contentType),
		},
	})
	if err != nil {
		s.logger.Error("failed to upload document",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload document: %w", err)
	}

	return nil
}

// Download reads document content stored under blobName.
func (s *AzureStorage) Download(ctx context.Context, blobName string) ([]byte, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(s.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		s.logger.Error("failed to download document",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document data: %w", err)
	}

	return data, nil
}

// Delete removes the blob. Deleting an already-deleted blob is an error the
// caller may choose to ignore.
func (s *AzureStorage) Delete(ctx context.Context, blobName string) error {
	blobClient := s.client.ServiceClient().NewContainerClient(s.containerName).NewBlockBlobClient(blobName)

	if _, err := blobClient.Delete(ctx, nil); err != nil {
		s.logger.Error("failed to delete document",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

func toPtr(s string) *string {
	return &s
}
