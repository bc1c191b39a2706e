package models

import (
	"strings"
	"time"
)

// Role is the coarse permission level of a user.
type Role string

const (
	RoleClient     Role = "client"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r may act on other users' appointments.
func (r Role) IsStaff() bool {
	return r == RoleTechnician || r == RoleAdmin
}

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// User is a registered account. The ID is the Firebase Auth uid.
type User struct {
	ID          string          `bson:"id" json:"id"`
	Email       string          `bson:"email" json:"email"`
	Role        Role            `bson:"role" json:"role"`
	Profile     UserProfile     `bson:"profile" json:"profile"`
	Preferences UserPreferences `bson:"preferences" json:"preferences"`
	MedicalInfo MedicalInfo     `bson:"medicalInfo" json:"medicalInfo"`
	FCMToken    string          `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	IsActive    bool            `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Profile.FirstName + " " + u.Profile.LastName)
}

type UserProfile struct {
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	Phone       string `bson:"phone" json:"phone"`
	DateOfBirth string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	AvatarURL   string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

type UserPreferences struct {
	NotificationMethod string           `bson:"notificationMethod" json:"notificationMethod"`
	MarketingConsent   bool             `bson:"marketingConsent" json:"marketingConsent"`
	ReminderSettings   ReminderSettings `bson:"reminderSettings" json:"reminderSettings"`
}

// MaxReminderHours is the longest allowed reminder lead time (30 days).
const MaxReminderHours = 720

// ReminderSettings selects reminder channels and lead times in hours.
type ReminderSettings struct {
	Email       bool  `bson:"email" json:"email"`
	SMS         bool  `bson:"sms" json:"sms"`
	Push        bool  `bson:"push" json:"push"`
	HoursBefore []int `bson:"hoursBefore" json:"hoursBefore"`
}

type MedicalInfo struct {
	Allergies     []string `bson:"allergies,omitempty" json:"allergies,omitempty"`
	Sensitivities []string `bson:"sensitivities,omitempty" json:"sensitivities,omitempty"`
	Notes         string   `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DefaultPreferences returns the preferences assigned at registration.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		NotificationMethod: ChannelEmail,
		MarketingConsent:   false,
		ReminderSettings: ReminderSettings{
			Email:       true,
			SMS:         false,
			Push:        false,
			HoursBefore: []int{24, 2},
		},
	}
}
