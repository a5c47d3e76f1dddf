package entity

import (
	"time"
)

// AccountStatus governs login eligibility.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountInactive  AccountStatus = "inactive"
	AccountSuspended AccountStatus = "suspended"
)

const ProviderGoogle = "google"

// Account is the aggregate root for the account domain.
// Email is the natural key: every external login with the same email
// resolves to the same Account.
//
// Empty strings in GoogleID and NIM are persisted as NULL.
type Account struct {
	ID              string
	Email           string
	FullName        string
	GoogleID        string
	AvatarURL       string
	Provider        string
	Status          AccountStatus
	IsVerified      bool
	EmailVerifiedAt *time.Time

	NIM         string
	Major       string
	Batch       string
	PhoneNumber string
	Bio         string
	Address     string
	City        string
	Province    string
	PostalCode  string
	Country     string

	IsSeller             bool
	AvgRating            float64
	TotalReviews         int
	TotalOrdersCompleted int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) IsActive() bool { return a.Status == AccountActive }

// HasExternalIdentity reports whether the account is already linked to a Google id.
func (a *Account) HasExternalIdentity() bool { return a.GoogleID != "" }
