package services

import (
	"context"
	"errors"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/store"
)

// storeError converts a store failure into the engine's error set. A missing
// row becomes notFound; a unique violation becomes a conflict; anything else
// is reported as the store being unavailable.
func storeError(err error, notFound *apperrors.AppError) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, store.ErrNotFound):
		return notFound
	case errors.Is(err, store.ErrDuplicate):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	default:
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
}

// resolveUser returns the active user with the given id. Deactivated users
// cannot act on the ledger and resolve as not found.
func resolveUser(ctx context.Context, users store.UserStore, userID string) (*models.User, error) {
	if userID == "" {
		return nil, apperrors.ErrUserNotFound
	}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}
