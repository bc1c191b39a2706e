package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadRequest describes one asset to store.
type UploadRequest struct {
	Folder   string
	Filename string
	Tags     []string
}

// StoredAsset is what the media backend reports after an upload.
type StoredAsset struct {
	PublicID string
	URL      string
	Bytes    int64
	Format   string
}

// AssetStore uploads and removes media assets.
type AssetStore interface {
	Upload(ctx context.Context, file io.Reader, req UploadRequest) (*StoredAsset, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStore keeps media on Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Upload stores the file in folder and returns its permanent identifier and secure URL.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, req UploadRequest) (*StoredAsset, error) {
	params := uploader.UploadParams{
		Folder:       req.Folder,
		ResourceType: "auto",
		Tags:         req.Tags,
	}
	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: failed to upload %s: %w", req.Filename, err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("cloudinary: no public ID returned")
	}
	return &StoredAsset{
		PublicID: result.PublicID,
		URL:      result.SecureURL,
		Bytes:    int64(result.Bytes),
		Format:   result.Format,
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary: failed to delete %s: %w", publicID, err)
	}
	return nil
}
