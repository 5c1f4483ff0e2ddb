package mongo

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
	ErrDuplicate = errors.New("duplicate key")
	ErrLocked    = errors.New("resource is locked")
)

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicate) || mongo.IsDuplicateKeyError(err)
}
