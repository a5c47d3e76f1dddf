package application

import "errors"

var (
	// ErrNormalization means the Google profile lacked an email or provider id.
	ErrNormalization = errors.New("missing required identity information")
	// ErrAccountInactive means the account resolved but may not log in.
	ErrAccountInactive = errors.New("account is not active")
	ErrAccountNotFound = errors.New("account not found")
	// ErrIdentityConflict means the Google id is already linked to another account.
	ErrIdentityConflict = errors.New("google account linked to a different account")
	// ErrConflict means a unique profile field (nim) is owned by another account.
	ErrConflict = errors.New("nim already exists")
)
