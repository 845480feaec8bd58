// Package policy decides whether an identity may act on an owned resource.
package policy

import (
	"github.com/gofrs/uuid"

	"postboard/internal/core/apperror"
)

// Identity is the caller of a request. The zero value is anonymous.
type Identity struct {
	UserID  uuid.UUID
	IsStaff bool
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

func (i Identity) Authenticated() bool { return i.UserID != uuid.Nil }

// Owned is anything with an author.
type Owned interface {
	OwnerID() uuid.UUID
}

type Operation int

const (
	Read Operation = iota
	Write
)

// CanWrite reports whether id may update or delete res: the author or staff.
func CanWrite(id Identity, res Owned) bool {
	if !id.Authenticated() {
		return false
	}
	return res.OwnerID() == id.UserID || id.IsStaff
}

// Allow applies the object-level rule for op. Reads are always allowed.
func Allow(id Identity, op Operation, res Owned) bool {
	if op == Read {
		return true
	}
	return CanWrite(id, res)
}

// RequireAuthenticated gates creation and other identity-bound operations.
func RequireAuthenticated(id Identity) error {
	if !id.Authenticated() {
		return apperror.Unauthenticated("Authentication credentials were not provided.")
	}
	return nil
}

// RequireStaff gates administrative listings.
func RequireStaff(id Identity) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !id.IsStaff {
		return apperror.Forbidden(PermissionDenied)
	}
	return nil
}

// PermissionDenied is the message for a failed object-level check.
const PermissionDenied = "You do not have permission to perform this action."
