package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
	repo "github.com/oksasatya/campus-auth/internal/domain/repository"
)

var ErrStorageNotConfigured = errors.New("object storage not configured")

// AccountService reads and updates account profiles.
type AccountService struct {
	Repo   repo.AccountRepository
	Redis  *redis.Client
	Logger *logrus.Logger
	Index  AccountIndex
	Store  ObjectStore

	// InstitutionDomain is the email domain whose local part is a student id (NIM).
	InstitutionDomain string
}

func NewAccountService(repo repo.AccountRepository, rdb *redis.Client, logger *logrus.Logger, institutionDomain string) *AccountService {
	return &AccountService{Repo: repo, Redis: rdb, Logger: logger, InstitutionDomain: institutionDomain}
}

// ProfileView is the projection returned by the profile endpoints.
type ProfileView struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	FullName             string     `json:"fullName"`
	NIM                  string     `json:"nim"`
	Major                string     `json:"major"`
	Batch                string     `json:"batch"`
	PhoneNumber          string     `json:"phoneNumber"`
	ProfilePicture       string     `json:"profilePicture"`
	Bio                  string     `json:"bio"`
	Address              string     `json:"address"`
	City                 string     `json:"city"`
	Province             string     `json:"province"`
	PostalCode           string     `json:"postalCode"`
	Country              string     `json:"country"`
	IsSeller             bool       `json:"isSeller"`
	AvgRating            float64    `json:"avgRating"`
	TotalReviews         int        `json:"totalReviews"`
	TotalOrdersCompleted int        `json:"totalOrdersCompleted"`
	Status               string     `json:"status"`
	IsVerified           bool       `json:"isVerified"`
	EmailVerifiedAt      *time.Time `json:"emailVerifiedAt"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (s *AccountService) toView(a *entity.Account) *ProfileView {
	v := &ProfileView{
		ID:                   a.ID,
		Email:                a.Email,
		FullName:             a.FullName,
		NIM:                  a.NIM,
		Major:                a.Major,
		Batch:                a.Batch,
		PhoneNumber:          a.PhoneNumber,
		ProfilePicture:       a.AvatarURL,
		Bio:                  a.Bio,
		Address:              a.Address,
		City:                 a.City,
		Province:             a.Province,
		PostalCode:           a.PostalCode,
		Country:              a.Country,
		IsSeller:             a.IsSeller,
		AvgRating:            a.AvgRating,
		TotalReviews:         a.TotalReviews,
		TotalOrdersCompleted: a.TotalOrdersCompleted,
		Status:               string(a.Status),
		IsVerified:           a.IsVerified,
		EmailVerifiedAt:      a.EmailVerifiedAt,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if v.NIM == "" {
		v.NIM = s.nimFromEmail(a.Email)
	}
	return v
}

// nimFromEmail derives the student id for institutional addresses. Display only.
func (s *AccountService) nimFromEmail(email string) string {
	if s.InstitutionDomain == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || !strings.EqualFold(domain, s.InstitutionDomain) {
		return ""
	}
	return local
}

func (s *AccountService) load(ctx context.Context, id string) (*entity.Account, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !a.IsActive() {
		return nil, ErrAccountInactive
	}
	return a, nil
}

// EnsureActive reports ErrAccountNotFound or ErrAccountInactive for accounts
// that may no longer use the API.
func (s *AccountService) EnsureActive(ctx context.Context, id string) error {
	_, err := s.load(ctx, id)
	return err
}

func (s *AccountService) GetProfile(ctx context.Context, id string) (*ProfileView, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toView(a), nil
}

// UpdateProfile merges patch into the stored account. Changing the NIM
// re-checks uniqueness against every other account.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, patch entity.ProfilePatch) (*ProfileView, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.NIM != nil && *patch.NIM != "" && *patch.NIM != a.NIM {
		owner, err := s.Repo.GetByNIM(ctx, *patch.NIM)
		switch {
		case err == nil && owner.ID != a.ID:
			return nil, ErrConflict
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("check nim: %w", err)
		}
	}

	patch.Apply(a)
	if err := s.Repo.UpdateProfile(ctx, a); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrConflict
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	refreshSession(ctx, s.Redis, s.Logger, a)
	if s.Index != nil {
		if err := s.Index.IndexAccount(ctx, a); err != nil {
			orDiscard(s.Logger).WithError(err).WithField("account_id", a.ID).Warn("index account failed")
		}
	}
	return s.toView(a), nil
}

// UploadAvatar stores the image in object storage and points the profile at it.
func (s *AccountService) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (*ProfileView, error) {
	if s.Store == nil {
		return nil, ErrStorageNotConfigured
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", id, uuid.NewString()+ext))
	url, err := s.Store.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return s.UpdateProfile(ctx, id, entity.ProfilePatch{AvatarURL: &url})
}

// SearchAccounts performs a full-text search over indexed accounts.
func (s *AccountService) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.SearchAccounts(ctx, q, size)
}
