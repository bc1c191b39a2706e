package user

import (
	"context"
	"time"

	userRepo "lashstudio/database/repository/user"
	"lashstudio/models"
	"lashstudio/services/access"

	"go.uber.org/zap"
)

// Identity is a verified token subject.
type Identity struct {
	UID   string
	Email string
}

// RegisterInput is the self-registration payload. Email comes from the token.
type RegisterInput struct {
	Profile     models.UserProfile      `json:"profile" binding:"required"`
	Preferences *models.UserPreferences `json:"preferences"`
	MedicalInfo models.MedicalInfo      `json:"medicalInfo"`
}

// CreateInput is an admin-created account, backed by a new Firebase Auth user.
type CreateInput struct {
	Email       string                  `json:"email" binding:"required,email"`
	Password    string                  `json:"password" binding:"required,min=8"`
	Role        models.Role             `json:"role" binding:"required,role"`
	Profile     models.UserProfile      `json:"profile"`
	Preferences *models.UserPreferences `json:"preferences"`
}

// UpdateInput carries the fields to change; nil means unchanged. Role and
// IsActive are admin-only.
type UpdateInput struct {
	Profile     *models.UserProfile     `json:"profile"`
	Preferences *models.UserPreferences `json:"preferences"`
	MedicalInfo *models.MedicalInfo     `json:"medicalInfo"`
	FCMToken    *string                 `json:"fcmToken"`
	Role        *models.Role            `json:"role" binding:"omitempty,role"`
	IsActive    *bool                   `json:"isActive"`
}

type UserService interface {
	Register(ctx context.Context, id Identity, in RegisterInput) (*models.User, error)
	Create(ctx context.Context, p access.Principal, in CreateInput) (*models.User, error)
	Get(ctx context.Context, p access.Principal, id string) (*models.User, error)
	List(ctx context.Context, p access.Principal, role models.Role) ([]models.User, error)
	Update(ctx context.Context, p access.Principal, id string, in UpdateInput) (*models.User, error)

	// ResolvePrincipal maps a verified uid to an active principal.
	ResolvePrincipal(ctx context.Context, uid string) (access.Principal, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo       userRepo.UserRepository
	Identities IdentityProvider
	Cache      PrincipalCache
	Logger     *zap.Logger
	Now        func() time.Time
}

func (s *DefaultUserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
