package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// AccountRepository defines the persistence operations for accounts.
// Lookups return ErrNotFound when no row matches; writes return ErrDuplicate
// when a unique constraint (email, google_id, nim) rejects the row.
// Status is only written by Create.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByNIM(ctx context.Context, nim string) (*entity.Account, error)
	// UpdateProfile writes only the user-editable profile columns of a.
	UpdateProfile(ctx context.Context, a *entity.Account) error
	// LinkGoogleID stores a.GoogleID, marks the account verified and sets
	// email_verified_at only when it is still empty. a is refreshed with the
	// stored verification fields.
	LinkGoogleID(ctx context.Context, a *entity.Account) error
}
