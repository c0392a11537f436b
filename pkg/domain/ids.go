// Package domain holds identifier types shared across modules.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "github.com/Degagemain/degage-sub000/pkg/domain-errors"
)

// RunID identifies one persisted simulation run.
type RunID uuid.UUID

// NewRunID returns a fresh random run identifier.
func NewRunID() RunID {
	return RunID(uuid.New())
}

func (id RunID) String() string {
	return uuid.UUID(id).String()
}

func (id RunID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id RunID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *RunID) UnmarshalText(b []byte) error {
	parsed, err := ParseRunID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseRunID parses a canonical UUID string. Empty, malformed and nil UUIDs
// are rejected with CodeInvalidInput.
func ParseRunID(s string) (RunID, error) {
	u, err := parseUUID(s, "run_id")
	if err != nil {
		return RunID{}, err
	}
	return RunID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}
