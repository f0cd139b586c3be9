package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/metrics"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

const userMetricsEntity = "user"

// userService handles the user directory.
type userService struct {
	store store.Store
	log   *zap.SugaredLogger
}

// NewUserService creates a new UserServicer.
func NewUserService(s store.Store) UserServicer {
	return &userService{store: s, log: logger.Named("users")}
}

// CreateUser creates an active user. Emails are unique across all users,
// deactivated ones included.
func (s *userService) CreateUser(ctx context.Context, input UserInput) (user *models.User, err error) {
	defer func() { metrics.RecordOperation(userMetricsEntity, "create", err) }()

	in, err := normalizeUserInput(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Users().ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	if exists {
		return nil, apperrors.ErrDuplicateEmail
	}

	user = &models.User{
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		AvatarURL:   in.AvatarURL,
		IsActive:    true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	s.log.Infow("user created", "user_id", user.ID)
	return user, nil
}

// GetUserByID returns a user whether active or not.
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// UpdateUser overwrites the profile fields of a user.
func (s *userService) UpdateUser(ctx context.Context, id string, input UserInput) (user *models.User, err error) {
	defer func() { metrics.RecordOperation(userMetricsEntity, "update", err) }()

	in, err := normalizeUserInput(input)
	if err != nil {
		return nil, err
	}
	user, err = s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != user.Email {
		exists, err := s.store.Users().ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, storeError(err, apperrors.ErrUserNotFound)
		}
		if exists {
			return nil, apperrors.ErrDuplicateEmail
		}
	}

	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PhoneNumber = in.PhoneNumber
	user.AvatarURL = in.AvatarURL
	if err := s.store.Users().Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}

	s.log.Infow("user updated", "user_id", user.ID)
	return user, nil
}

// DeactivateUser soft-deletes a user. Their records stay in place.
func (s *userService) DeactivateUser(ctx context.Context, id string) (err error) {
	defer func() { metrics.RecordOperation(userMetricsEntity, "deactivate", err) }()

	if err := s.store.Users().Deactivate(ctx, id); err != nil {
		return storeError(err, apperrors.ErrUserNotFound)
	}
	s.log.Infow("user deactivated", "user_id", id)
	return nil
}

// ListActiveUsers returns active users in creation order.
func (s *userService) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users().ListActive(ctx)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	return users, nil
}

// EmailExists reports whether any user, active or not, has the email.
func (s *userService) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.store.Users().ExistsByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, storeError(err, apperrors.ErrUserNotFound)
	}
	return exists, nil
}

// CountActiveUsers returns the number of active users.
func (s *userService) CountActiveUsers(ctx context.Context) (int64, error) {
	count, err := s.store.Users().CountActive(ctx)
	if err != nil {
		return 0, storeError(err, apperrors.ErrUserNotFound)
	}
	return count, nil
}

func normalizeUserInput(in UserInput) (UserInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)

	switch {
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "a valid email is required")
	case in.FirstName == "" || in.LastName == "":
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "first and last name are required")
	case len(in.Email) > 255 || len(in.FirstName) > 100 || len(in.LastName) > 100:
		return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "name or email too long")
	}
	return in, nil
}
