package models

import "time"

// SiteSettingsID is the id of the single site settings document.
const SiteSettingsID = "main"

// SiteSettings is the free-form site configuration document (brand, hero, contact,
// theme, integrations). Integrations may hold secrets and are stripped from public reads.
type SiteSettings map[string]interface{}

// ContentBlock is a positioned piece of page content.
type ContentBlock struct {
	ID           string                 `bson:"id" json:"id"`
	PageSlug     string                 `bson:"pageSlug" json:"pageSlug"`
	BlockType    string                 `bson:"blockType" json:"blockType"`
	BlockName    string                 `bson:"blockName" json:"blockName"`
	Content      map[string]interface{} `bson:"content" json:"content"`
	Responsive   map[string]interface{} `bson:"responsive,omitempty" json:"responsive,omitempty"`
	DisplayOrder int                    `bson:"displayOrder" json:"displayOrder"`
	IsActive     bool                   `bson:"isActive" json:"isActive"`
	CreatedBy    string                 `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time              `bson:"updatedAt" json:"updatedAt"`
}

type Testimonial struct {
	ID              string     `bson:"id" json:"id"`
	ClientName      string     `bson:"clientName" json:"clientName"`
	Rating          int        `bson:"rating" json:"rating"`
	ReviewText      string     `bson:"reviewText" json:"reviewText"`
	ServiceReceived string     `bson:"serviceReceived,omitempty" json:"serviceReceived,omitempty"`
	AppointmentID   string     `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	IsFeatured      bool       `bson:"isFeatured" json:"isFeatured"`
	IsApproved      bool       `bson:"isApproved" json:"isApproved"`
	ApprovedAt      *time.Time `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	ApprovedBy      string     `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	DisplayOrder    int        `bson:"displayOrder" json:"displayOrder"`
	Source          string     `bson:"source" json:"source"`
	SubmittedBy     string     `bson:"submittedBy" json:"submittedBy"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// MediaItem is a media library record for an uploaded asset.
type MediaItem struct {
	ID               string    `bson:"id" json:"id"`
	Filename         string    `bson:"filename" json:"filename"`
	OriginalFilename string    `bson:"originalFilename" json:"originalFilename"`
	PublicID         string    `bson:"publicId" json:"publicId"`
	URL              string    `bson:"url" json:"url"`
	FileSize         int64     `bson:"fileSize" json:"fileSize"`
	MimeType         string    `bson:"mimeType" json:"mimeType"`
	AltText          string    `bson:"altText,omitempty" json:"altText,omitempty"`
	Caption          string    `bson:"caption,omitempty" json:"caption,omitempty"`
	Tags             []string  `bson:"tags" json:"tags"`
	UsageContext     string    `bson:"usageContext,omitempty" json:"usageContext,omitempty"`
	UsageCount       int       `bson:"usageCount" json:"usageCount"`
	UploadedBy       string    `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}
