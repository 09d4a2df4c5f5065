package usecase

import (
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
)

// ParseID converts textual identifier into uuid. Malformed input is ErrInvalidInput.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domainErrors.ErrInvalidInput
	}
	return id, nil
}
