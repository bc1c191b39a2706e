package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// PromoCode is a discount code. Code is stored upper-case and UsageCount never
// exceeds UsageLimit.
type PromoCode struct {
	ID                 string       `bson:"id" json:"id"`
	Code               string       `bson:"code" json:"code"`
	Description        string       `bson:"description" json:"description"`
	DiscountType       DiscountType `bson:"discountType" json:"discountType"`
	DiscountValue      float64      `bson:"discountValue" json:"discountValue"`
	MaxDiscountAmount  float64      `bson:"maxDiscountAmount" json:"maxDiscountAmount"`
	ValidFrom          time.Time    `bson:"validFrom" json:"validFrom"`
	ValidUntil         time.Time    `bson:"validUntil" json:"validUntil"`
	UsageLimit         int          `bson:"usageLimit" json:"usageLimit"`
	UsageCount         int          `bson:"usageCount" json:"usageCount"`
	MinOrderAmount     float64      `bson:"minOrderAmount" json:"minOrderAmount"`
	ApplicableServices []string     `bson:"applicableServices" json:"applicableServices"`
	IsActive           bool         `bson:"isActive" json:"isActive"`
	CreatedBy          string       `bson:"createdBy" json:"createdBy"`
	CreatedAt          time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time    `bson:"updatedAt" json:"updatedAt"`
}
