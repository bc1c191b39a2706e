package models

import "time"

// ServicePackage is a bookable catalog entry.
type ServicePackage struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description" json:"description"`
	Price           float64   `bson:"price" json:"price"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	ImageURL        string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Features        []string  `bson:"features" json:"features"`
	Category        string    `bson:"category" json:"category"`
	IsFeatured      bool      `bson:"isFeatured" json:"isFeatured"`
	DisplayOrder    int       `bson:"displayOrder" json:"displayOrder"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	BookingCount    int64     `bson:"bookingCount" json:"bookingCount"`
	TotalRevenue    float64   `bson:"totalRevenue" json:"totalRevenue"`
	CreatedBy       string    `bson:"createdBy" json:"createdBy"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
