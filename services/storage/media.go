package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	mediaRepo "lashstudio/database/repository/media"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadBytes bounds a single media upload.
const MaxUploadBytes = 10 << 20

// FileInput is an uploaded file with its library metadata.
type FileInput struct {
	Body         io.Reader
	Filename     string
	Size         int64
	MimeType     string
	AltText      string
	Caption      string
	Tags         []string
	UsageContext string
}

type MediaService interface {
	Upload(ctx context.Context, p access.Principal, in FileInput) (*models.MediaItem, error)
	List(ctx context.Context, p access.Principal, usageContext string) ([]models.MediaItem, error)
}

type DefaultMediaService struct {
	Store  AssetStore
	Repo   mediaRepo.MediaRepository
	Folder string
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultMediaService) Upload(ctx context.Context, p access.Principal, in FileInput) (*models.MediaItem, error) {
	if err := access.Authorize(p, access.MediaUpload, ""); err != nil {
		return nil, err
	}
	if in.Body == nil || in.Size <= 0 {
		return nil, utils.NewValidationError("", "file is required")
	}
	if in.Size > MaxUploadBytes {
		return nil, utils.NewValidationError("file_too_large", fmt.Sprintf("file exceeds %d MB", MaxUploadBytes>>20))
	}
	if !allowedMime(in.MimeType) {
		return nil, utils.NewValidationError("unsupported_media_type", fmt.Sprintf("unsupported file type %q", in.MimeType))
	}

	folder := s.Folder
	if ctxName := strings.TrimSpace(in.UsageContext); ctxName != "" {
		folder = path.Join(folder, ctxName)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	asset, err := s.Store.Upload(ctx, in.Body, UploadRequest{Folder: folder, Filename: in.Filename, Tags: tags})
	if err != nil {
		return nil, utils.NewUpstreamError("media upload failed", err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	size := asset.Bytes
	if size == 0 {
		size = in.Size
	}
	item := &models.MediaItem{
		ID:               uuid.New().String(),
		Filename:         path.Base(asset.PublicID),
		OriginalFilename: in.Filename,
		PublicID:         asset.PublicID,
		URL:              asset.URL,
		FileSize:         size,
		MimeType:         in.MimeType,
		AltText:          in.AltText,
		Caption:          in.Caption,
		Tags:             tags,
		UsageContext:     in.UsageContext,
		UploadedBy:       p.UserID,
		CreatedAt:        now,
	}
	if err := s.Repo.Create(ctx, item); err != nil {
		if derr := s.Store.Delete(ctx, asset.PublicID); derr != nil {
			s.Logger.Warn("orphaned media asset", zap.String("publicId", asset.PublicID), zap.Error(derr))
		}
		return nil, utils.NewInternalError("failed to record media item", err)
	}
	s.Logger.Info("media uploaded", zap.String("mediaId", item.ID), zap.String("publicId", item.PublicID), zap.Int64("bytes", size))
	return item, nil
}

func (s *DefaultMediaService) List(ctx context.Context, p access.Principal, usageContext string) ([]models.MediaItem, error) {
	if err := access.Authorize(p, access.MediaUpload, ""); err != nil {
		return nil, err
	}
	items, err := s.Repo.List(ctx, usageContext)
	if err != nil {
		return nil, utils.NewInternalError("failed to list media", err)
	}
	return items, nil
}

func allowedMime(m string) bool {
	return strings.HasPrefix(m, "image/") || strings.HasPrefix(m, "video/")
}
