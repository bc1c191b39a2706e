package models

import "time"

// AnalyticsSummary is the result of aggregating appointments created in a window.
type AnalyticsSummary struct {
	RangeStart          time.Time                   `bson:"rangeStart" json:"rangeStart"`
	RangeEnd            time.Time                   `bson:"rangeEnd" json:"rangeEnd"`
	TotalAppointments   int                         `bson:"totalAppointments" json:"totalAppointments"`
	TotalRevenue        float64                     `bson:"totalRevenue" json:"totalRevenue"`
	ByStatus            map[AppointmentStatus]int   `bson:"byStatus" json:"byStatus"`
	ByService           map[string]ServiceBreakdown `bson:"byService" json:"byService"`
	ByPaymentMethod     map[string]int              `bson:"byPaymentMethod" json:"byPaymentMethod"`
	AverageBookingValue float64                     `bson:"averageBookingValue" json:"averageBookingValue"`
	CompletionRate      float64                     `bson:"completionRate" json:"completionRate"`
	CancellationRate    float64                     `bson:"cancellationRate" json:"cancellationRate"`
	NoShowRate          float64                     `bson:"noShowRate" json:"noShowRate"`
}

// ServiceBreakdown is the per-service slice of a summary. Revenue counts paid appointments only.
type ServiceBreakdown struct {
	Name    string  `bson:"name" json:"name"`
	Count   int     `bson:"count" json:"count"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// AnalyticsReport is a stored summary produced by the daily job.
type AnalyticsReport struct {
	ID          string           `bson:"id" json:"id"`
	Type        string           `bson:"type" json:"type"`
	Metrics     AnalyticsSummary `bson:"metrics" json:"metrics"`
	GeneratedAt time.Time        `bson:"generatedAt" json:"generatedAt"`
}
