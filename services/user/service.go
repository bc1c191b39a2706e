package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lashstudio/database/repository"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ErrEmailTaken is returned by an IdentityProvider when the email already has an account.
var ErrEmailTaken = errors.New("email already registered")

const (
	CodeUserNotFound      = "user_not_found"
	CodeUserExists        = "user_exists"
	CodeUserNotRegistered = "user_not_registered"
	CodeAccountInactive   = "account_inactive"
)

// Register creates the user document for a freshly verified Firebase account.
// Self-registration always yields a client.
func (s *DefaultUserService) Register(ctx context.Context, id Identity, in RegisterInput) (*models.User, error) {
	if id.UID == "" {
		return nil, utils.NewUnauthenticatedError("missing identity")
	}
	if id.Email == "" {
		return nil, utils.NewValidationError("", "verified email is required")
	}
	prefs, err := preferencesOrDefault(in.Preferences)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &models.User{
		ID:          id.UID,
		Email:       strings.ToLower(id.Email),
		Role:        models.RoleClient,
		Profile:     in.Profile,
		Preferences: prefs,
		MedicalInfo: in.MedicalInfo,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflictError(CodeUserExists, "user is already registered")
		}
		return nil, utils.NewInternalError("failed to create user", err)
	}
	s.Logger.Info("user registered", zap.String("userId", u.ID))
	return u, nil
}

// Create provisions a Firebase account and its user document with the given role.
func (s *DefaultUserService) Create(ctx context.Context, p access.Principal, in CreateInput) (*models.User, error) {
	if err := access.Authorize(p, access.UserCreate, ""); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, utils.NewValidationError("", fmt.Sprintf("unknown role %q", in.Role))
	}
	prefs, err := preferencesOrDefault(in.Preferences)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	displayName := strings.TrimSpace(in.Profile.FirstName + " " + in.Profile.LastName)
	uid, err := s.Identities.CreateAccount(ctx, email, in.Password, displayName)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, utils.NewConflictError(CodeUserExists, "email is already registered")
		}
		return nil, utils.NewUpstreamError("failed to create sign-in account", err)
	}
	if err := s.Identities.SetRoleClaim(ctx, uid, string(in.Role)); err != nil {
		s.Logger.Warn("failed to set role claim", zap.String("userId", uid), zap.Error(err))
	}

	now := s.now()
	u := &models.User{
		ID:          uid,
		Email:       email,
		Role:        in.Role,
		Profile:     in.Profile,
		Preferences: prefs,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflictError(CodeUserExists, "user already exists")
		}
		return nil, utils.NewInternalError("failed to create user", err)
	}
	s.Logger.Info("user created by admin",
		zap.String("userId", uid),
		zap.String("role", string(in.Role)),
		zap.String("createdBy", p.UserID))
	return u, nil
}

func (s *DefaultUserService) Get(ctx context.Context, p access.Principal, id string) (*models.User, error) {
	if err := access.Authorize(p, access.UserRead, id); err != nil {
		return nil, err
	}
	return s.lookup(ctx, id)
}

func (s *DefaultUserService) List(ctx context.Context, p access.Principal, role models.Role) ([]models.User, error) {
	if err := access.Authorize(p, access.UserList, ""); err != nil {
		return nil, err
	}
	if role != "" && !role.Valid() {
		return nil, utils.NewValidationError("", fmt.Sprintf("unknown role %q", role))
	}
	users, err := s.Repo.List(ctx, role)
	if err != nil {
		return nil, utils.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// Update applies the changed fields. Role and active flag changes require admin
// rights and drop the cached principal.
func (s *DefaultUserService) Update(ctx context.Context, p access.Principal, id string, in UpdateInput) (*models.User, error) {
	if err := access.Authorize(p, access.UserUpdate, id); err != nil {
		return nil, err
	}
	adminFields := in.Role != nil || in.IsActive != nil
	if adminFields {
		if err := access.Authorize(p, access.UserAdminFields, ""); err != nil {
			return nil, err
		}
		if id == p.UserID {
			return nil, utils.NewValidationError("", "admins cannot change their own role or active flag")
		}
	}

	fields := bson.M{}
	if in.Profile != nil {
		fields["profile"] = *in.Profile
	}
	if in.Preferences != nil {
		if err := validatePreferences(*in.Preferences); err != nil {
			return nil, err
		}
		fields["preferences"] = *in.Preferences
	}
	if in.MedicalInfo != nil {
		fields["medicalInfo"] = *in.MedicalInfo
	}
	if in.FCMToken != nil {
		fields["fcmToken"] = strings.TrimSpace(*in.FCMToken)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, utils.NewValidationError("", fmt.Sprintf("unknown role %q", *in.Role))
		}
		fields["role"] = *in.Role
	}
	if in.IsActive != nil {
		fields["isActive"] = *in.IsActive
	}
	if len(fields) == 0 {
		return nil, utils.NewValidationError("", "no fields to update")
	}
	fields["updatedAt"] = s.now()

	u, err := s.Repo.UpdateFields(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError(CodeUserNotFound, "user not found")
		}
		return nil, utils.NewInternalError("failed to update user", err)
	}

	if adminFields && s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, id); err != nil {
			s.Logger.Warn("failed to drop cached principal", zap.String("userId", id), zap.Error(err))
		}
	}
	return u, nil
}

func (s *DefaultUserService) ResolvePrincipal(ctx context.Context, uid string) (access.Principal, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, uid)
		if err != nil {
			s.Logger.Warn("principal cache read failed", zap.String("userId", uid), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return access.Principal{}, &utils.AppError{
				Kind:    utils.KindUnauthenticated,
				Code:    CodeUserNotRegistered,
				Message: "no account is registered for this identity",
			}
		}
		return access.Principal{}, utils.NewInternalError("user lookup failed", err)
	}
	if !u.IsActive {
		return access.Principal{}, &utils.AppError{
			Kind:    utils.KindForbidden,
			Code:    CodeAccountInactive,
			Message: "account is deactivated",
		}
	}

	p := access.Principal{UserID: u.ID, Role: u.Role}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, p); err != nil {
			s.Logger.Warn("principal cache write failed", zap.String("userId", uid), zap.Error(err))
		}
	}
	return p, nil
}

func (s *DefaultUserService) lookup(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError(CodeUserNotFound, "user not found")
		}
		return nil, utils.NewInternalError("user lookup failed", err)
	}
	return u, nil
}

func preferencesOrDefault(prefs *models.UserPreferences) (models.UserPreferences, error) {
	if prefs == nil {
		return models.DefaultPreferences(), nil
	}
	if err := validatePreferences(*prefs); err != nil {
		return models.UserPreferences{}, err
	}
	return *prefs, nil
}

func validatePreferences(p models.UserPreferences) error {
	switch p.NotificationMethod {
	case models.ChannelEmail, models.ChannelSMS, models.ChannelPush:
	default:
		return utils.NewValidationError("", fmt.Sprintf("unknown notification method %q", p.NotificationMethod))
	}
	for _, h := range p.ReminderSettings.HoursBefore {
		if h <= 0 {
			return utils.NewValidationError("", "reminder hours must be positive")
		}
		if h > models.MaxReminderHours {
			return utils.NewValidationError("", fmt.Sprintf("reminder hours must be at most %d", models.MaxReminderHours))
		}
	}
	return nil
}
