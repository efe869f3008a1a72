package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopeType identifies the kind of tenant that owns a retrieval scope.
type ScopeType string

// Available scope types.
const (
	// ScopeCourse is a course with enrolled students.
	ScopeCourse ScopeType = "course"

	// ScopeGroup is a study group.
	ScopeGroup ScopeType = "group"
)

// IsValid returns true if the scope type is recognised.
func (t ScopeType) IsValid() bool {
	switch t {
	case ScopeCourse, ScopeGroup:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ScopeType) String() string {
	return string(t)
}

// Scope is an isolated retrieval partition. Documents, chunks and index
// entries belong to exactly one scope and are never searched across scopes.
type Scope struct {
	// Type is the kind of tenant (course or group).
	Type ScopeType

	// ID is the tenant's identifier in the relational store.
	ID int64
}

// NewScope builds a validated scope.
func NewScope(t ScopeType, id int64) (Scope, error) {
	s := Scope{Type: t, ID: id}
	if err := s.Validate(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

// ParseScope parses the "type:id" form used on the command line,
// e.g. "course:12" or "group:7".
func ParseScope(raw string) (Scope, error) {
	typ, id, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return Scope{}, fmt.Errorf("%w: scope %q must be in the form type:id", ErrInvalidInput, raw)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Scope{}, fmt.Errorf("%w: scope id %q is not a number", ErrInvalidInput, id)
	}
	return NewScope(ScopeType(strings.ToLower(typ)), n)
}

// ParseScopeKey is the inverse of Key. It is used to recover scopes from
// index file names.
func ParseScopeKey(key string) (Scope, error) {
	i := strings.LastIndex(key, "_")
	if i <= 0 {
		return Scope{}, fmt.Errorf("%w: scope key %q", ErrInvalidInput, key)
	}
	return ParseScope(key[:i] + ":" + key[i+1:])
}

// Validate checks the scope type and id.
func (s Scope) Validate() error {
	if !s.Type.IsValid() {
		return fmt.Errorf("%w: unknown scope type %q", ErrInvalidInput, s.Type)
	}
	if s.ID <= 0 {
		return fmt.Errorf("%w: scope id must be positive, got %d", ErrInvalidInput, s.ID)
	}
	return nil
}

// Key returns the storage key for the scope, e.g. "course_12".
// It names the scope's index files and its lock.
func (s Scope) Key() string {
	return fmt.Sprintf("%s_%d", s.Type, s.ID)
}

// String returns the "type:id" form.
func (s Scope) String() string {
	return fmt.Sprintf("%s:%d", s.Type, s.ID)
}
