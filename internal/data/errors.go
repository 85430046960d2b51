package data

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Shared sentinel errors for data-layer repositories.
var (
	ErrNilDocument  = errors.New("document is required")
	ErrIDRequired   = errors.New("id is required")
	ErrNoFacetTotal = errors.New("facet returned no result document")
)

// codeWriteConflict is the server error raised when a transaction writes a
// document another open transaction already modified.
const codeWriteConflict = 112

// isWriteConflict reports whether err is a transactional write conflict.
func isWriteConflict(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeWriteConflict)
}
