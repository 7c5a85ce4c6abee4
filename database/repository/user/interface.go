package userRepo

import "sahatak/models"

// UserRepository defines methods for account data access.
type UserRepository interface {
	// GetByID retrieves a user by their unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by their email, nil when absent.
	GetByEmail(email string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// SetFCMToken stores the push token for a user.
	SetFCMToken(id, token string) error
}
