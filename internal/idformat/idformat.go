// Package idformat validates entity identifier strings before they reach the
// storage layer.
package idformat

import (
	"github.com/google/uuid"

	"github.com/akraevsky/bkmrks/internal/apperrors"
)

// Check returns an InvalidIdFormat error unless id parses as a UUID.
func Check(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidIDFormat()
	}

	return nil
}
