package errors

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"
)

// reDupKeyField extracts the first key from a duplicate key message:
// "E11000 duplicate key error collection: db.jobs index: jobId_1 dup key: { jobId: \"x\" }".
var reDupKeyField = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?:`)

// MapDBError maps database errors to AppError instances.
// It handles common MongoDB error patterns including:
// - mongo.ErrNoDocuments → NotFound
// - duplicate key write errors → Conflict
// - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return mapDuplicateKey(err)
	}

	// Return original error if not a recognized database error
	return err
}

func mapDuplicateKey(err error) error {
	appErr := &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Cause:   err,
	}
	if m := reDupKeyField.FindStringSubmatch(err.Error()); len(m) == 2 {
		appErr.Field = m[1]
	}
	return appErr
}
