package userRepo

import (
	"context"

	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its Firebase uid.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List retrieves users, optionally filtered by role.
	List(ctx context.Context, role models.Role) ([]models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateFields applies a $set of the given fields and returns the updated user.
	UpdateFields(ctx context.Context, id string, fields bson.M) (*models.User, error)
}
