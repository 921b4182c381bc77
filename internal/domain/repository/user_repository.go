package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eventnest/identity-service/internal/domain/entity"
)

// ErrDuplicate is returned by Create when the store's unique constraint on
// email or mobile rejects the insert. The constraint is the authoritative
// uniqueness check; pre-checks via GetByEmailOrMobile are advisory only.
var ErrDuplicate = errors.New("duplicate email or mobile")

// ErrNotFound is returned when no identity matches the lookup.
var ErrNotFound = errors.New("user not found")

// UserRepository defines the persistence contract for identity records.
type UserRepository interface {
	// Create inserts the record and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, u *entity.User) error

	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByEmailOrMobile supports the advisory pre-check during registration.
	GetByEmailOrMobile(ctx context.Context, email, mobile string) (*entity.User, error)

	// SetOTP stores a new pending code and its expiry, superseding any
	// outstanding one (last-issued-wins).
	SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkVerified flips is_verified and clears the pending code in a single
	// statement so the transition is atomic from the caller's perspective.
	MarkVerified(ctx context.Context, id string) error

	// Update persists mutable profile fields (name, image URL).
	Update(ctx context.Context, u *entity.User) error

	// ListRegistrationIDs returns back-references to event registrations in
	// creation order. The events domain owns the rows.
	ListRegistrationIDs(ctx context.Context, userID string) ([]string, error)
}
