package services

import (
	"errors"

	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

func asAppError(err error) (*apperrors.AppError, bool) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// storageErr wraps a bare store error; typed errors pass through unchanged
func storageErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := asAppError(err); ok {
		return err
	}
	return apperrors.NewStorageError(msg, err)
}
