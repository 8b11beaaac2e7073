package service

import (
	"context"
	"errors"

	"newsdesk/internal/models"
	"newsdesk/internal/repository"
	"newsdesk/internal/workflow"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService owns authentication and user administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Authenticate verifies credentials and returns the user. Deactivated users
// cannot log in.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewUnauthorizedError("Account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns users for the admin view.
func (s *UserService) ListUsers(ctx context.Context, sess workflow.Session, limit, offset int) ([]*models.User, error) {
	if sess.Role != models.RoleAdmin {
		return nil, models.NewUnauthorizedError("Only admins can list users")
	}
	return s.userRepo.List(ctx, limit, offset)
}

// SetUserActive deactivates or reactivates an account. Users are never hard
// deleted.
func (s *UserService) SetUserActive(ctx context.Context, sess workflow.Session, id uint, active bool) (*models.User, error) {
	if sess.Role != models.RoleAdmin {
		return nil, models.NewUnauthorizedError("Only admins can change account status")
	}
	if id == sess.UserID && !active {
		return nil, models.NewValidationError("Cannot deactivate your own account")
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}
