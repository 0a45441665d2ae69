package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// ReportUploader publishes an exported results table to durable remote
// storage. Upload happens after the local export succeeded; a failed
// upload never invalidates the local file.
type ReportUploader interface {
	UploadReport(ctx context.Context, blobName string, data []byte) error
}

type azureUploader struct {
	client    *azblob.Client
	container string
}

func NewAzureUploader(accountName string, accountKey string, container string) (ReportUploader, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureUploader{client: client, container: container}, nil
}

func (u *azureUploader) UploadReport(ctx context.Context, blobName string, data []byte) error {
	_, err := u.client.UploadBuffer(ctx, u.container, blobName, data, nil)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}
