package services

import (
	"errors"
	"fmt"

	"github.com/actinova/admin-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors returned by services. Handlers map them onto HTTP status codes.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDeliveryFailed = errors.New("email delivery failed")
)

// ParseID converts a hex string into an ObjectID
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

// ParseIDs converts every hex string, failing on the first invalid one
func ParseIDs(hexes []string) ([]primitive.ObjectID, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("%w: ids must not be empty", ErrValidation)
	}
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := ParseID(hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// repoErr maps repository errors onto service errors and adds context
func repoErr(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
