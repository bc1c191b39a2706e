package content

import (
	"context"
	"regexp"
	"strings"
	"time"

	contentRepo "lashstudio/database/repository/content"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SourceWebsite marks testimonials submitted through the site.
const SourceWebsite = "website"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BlockInput creates a content block on a page.
type BlockInput struct {
	BlockType    string                 `json:"blockType" binding:"required"`
	BlockName    string                 `json:"blockName" binding:"required"`
	Content      map[string]interface{} `json:"content" binding:"required"`
	Responsive   map[string]interface{} `json:"responsive"`
	DisplayOrder int                    `json:"displayOrder"`
	IsActive     *bool                  `json:"isActive"`
}

// TestimonialInput is a submitted review.
type TestimonialInput struct {
	ClientName      string `json:"clientName" binding:"required"`
	Rating          int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText      string `json:"reviewText" binding:"required"`
	ServiceReceived string `json:"serviceReceived"`
	AppointmentID   string `json:"appointmentId"`
	IsFeatured      bool   `json:"isFeatured"`
}

type ContentService interface {
	Page(ctx context.Context, pageSlug string) ([]models.ContentBlock, error)
	CreateBlock(ctx context.Context, p access.Principal, pageSlug string, in BlockInput) (*models.ContentBlock, error)
	Testimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error)
	// SubmitTestimonial stores a review. Admin submissions are approved at once;
	// others wait for moderation.
	SubmitTestimonial(ctx context.Context, p access.Principal, in TestimonialInput) (*models.Testimonial, error)
}

type DefaultContentService struct {
	Repo   contentRepo.ContentRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultContentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultContentService) Page(ctx context.Context, pageSlug string) ([]models.ContentBlock, error) {
	slug := strings.ToLower(strings.TrimSpace(pageSlug))
	if !slugPattern.MatchString(slug) {
		return nil, utils.NewValidationError("invalid_slug", "page slug may only contain lowercase letters, digits and dashes")
	}
	blocks, err := s.Repo.ListBlocks(ctx, slug)
	if err != nil {
		return nil, utils.NewInternalError("failed to load page content", err)
	}
	return blocks, nil
}

func (s *DefaultContentService) CreateBlock(ctx context.Context, p access.Principal, pageSlug string, in BlockInput) (*models.ContentBlock, error) {
	if err := access.Authorize(p, access.ContentWrite, ""); err != nil {
		return nil, err
	}
	slug := strings.ToLower(strings.TrimSpace(pageSlug))
	if !slugPattern.MatchString(slug) {
		return nil, utils.NewValidationError("invalid_slug", "page slug may only contain lowercase letters, digits and dashes")
	}
	if strings.TrimSpace(in.BlockType) == "" || strings.TrimSpace(in.BlockName) == "" {
		return nil, utils.NewValidationError("", "blockType and blockName are required")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	content := in.Content
	if content == nil {
		content = map[string]interface{}{}
	}
	now := s.now()
	block := &models.ContentBlock{
		ID:           uuid.New().String(),
		PageSlug:     slug,
		BlockType:    strings.TrimSpace(in.BlockType),
		BlockName:    strings.TrimSpace(in.BlockName),
		Content:      content,
		Responsive:   in.Responsive,
		DisplayOrder: in.DisplayOrder,
		IsActive:     active,
		CreatedBy:    p.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateBlock(ctx, block); err != nil {
		return nil, utils.NewInternalError("failed to create content block", err)
	}
	s.Logger.Info("content block created", zap.String("page", slug), zap.String("blockId", block.ID))
	return block, nil
}

func (s *DefaultContentService) Testimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error) {
	list, err := s.Repo.ListTestimonials(ctx, featuredOnly)
	if err != nil {
		return nil, utils.NewInternalError("failed to load testimonials", err)
	}
	return list, nil
}

func (s *DefaultContentService) SubmitTestimonial(ctx context.Context, p access.Principal, in TestimonialInput) (*models.Testimonial, error) {
	if err := access.Authorize(p, access.TestimonialCreate, ""); err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, utils.NewValidationError("", "rating must be between 1 and 5")
	}
	name := strings.TrimSpace(in.ClientName)
	text := strings.TrimSpace(in.ReviewText)
	if name == "" || text == "" {
		return nil, utils.NewValidationError("", "clientName and reviewText are required")
	}

	now := s.now()
	t := &models.Testimonial{
		ID:              uuid.New().String(),
		ClientName:      name,
		Rating:          in.Rating,
		ReviewText:      text,
		ServiceReceived: in.ServiceReceived,
		AppointmentID:   in.AppointmentID,
		Source:          SourceWebsite,
		SubmittedBy:     p.UserID,
		CreatedAt:       now,
	}
	if p.Role == models.RoleAdmin {
		t.IsApproved = true
		t.ApprovedAt = &now
		t.ApprovedBy = p.UserID
		t.IsFeatured = in.IsFeatured
	}
	if err := s.Repo.CreateTestimonial(ctx, t); err != nil {
		return nil, utils.NewInternalError("failed to store testimonial", err)
	}
	return t, nil
}
