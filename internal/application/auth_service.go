package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
	repo "github.com/oksasatya/campus-auth/internal/domain/repository"
	"github.com/oksasatya/campus-auth/pkg/helpers"
	"github.com/oksasatya/campus-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/campus-auth/pkg/mailer/templates"
)

// AuthService reconciles Google identities onto accounts and issues session tokens.
type AuthService struct {
	Repo   repo.AccountRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Index  AccountIndex
	Pub    Publisher

	// MailSendEnabled gates the welcome email for new accounts.
	MailSendEnabled bool
	AppName         string

	Now func() time.Time
}

func NewAuthService(repo repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:   repo,
		JWT:    jwt,
		Redis:  rdb,
		Logger: logger,
		Now:    time.Now,
	}
}

// PublicAccount is the account projection safe to hand to the frontend.
type PublicAccount struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	AvatarURL  string `json:"profilePicture"`
	IsSeller   bool   `json:"isSeller"`
	IsVerified bool   `json:"isVerified"`
}

type LoginResult struct {
	AccessToken       string        `json:"access_token"`
	AccessTokenExpiry time.Time     `json:"expires_at"`
	Account           PublicAccount `json:"user"`
	Created           bool          `json:"-"`
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Reconcile resolves identity onto an account by email, creating it or
// backfilling its Google id as needed, then issues a session token.
// Email is the only matching key: two Google accounts reporting the same
// email resolve to the same account.
func (s *AuthService) Reconcile(ctx context.Context, identity entity.ExternalIdentity) (*LoginResult, error) {
	if identity.Email == "" || identity.ExternalID == "" {
		return nil, ErrNormalization
	}

	a, created, err := s.resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	if !a.IsActive() {
		s.log().WithFields(logrus.Fields{"account_id": a.ID, "status": a.Status}).Info("login rejected for inactive account")
		return nil, ErrAccountInactive
	}

	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateAccessToken(a.ID, a.Email, sid)
	if err != nil {
		s.log().WithError(err).WithField("account_id", a.ID).Error("generate access token failed")
		return nil, err
	}
	storeSession(ctx, s.Redis, s.Logger, a, sid)

	if created {
		s.afterCreate(ctx, a)
	}

	return &LoginResult{
		AccessToken:       token,
		AccessTokenExpiry: exp,
		Account:           ToPublicAccount(a),
		Created:           created,
	}, nil
}

func (s *AuthService) resolve(ctx context.Context, identity entity.ExternalIdentity) (*entity.Account, bool, error) {
	a, err := s.Repo.GetByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		a, err = s.create(ctx, identity)
		if err == nil {
			return a, true, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, false, err
		}
		// A concurrent login created the account first.
		s.log().WithField("email", identity.Email).Info("account created concurrently, re-fetching")
		a, err = s.Repo.GetByEmail(ctx, identity.Email)
		if err != nil {
			return nil, false, fmt.Errorf("re-fetch account: %w", err)
		}
	case err != nil:
		return nil, false, fmt.Errorf("find account: %w", err)
	}

	if err := s.link(ctx, a, identity); err != nil {
		return nil, false, err
	}
	return a, false, nil
}

func (s *AuthService) create(ctx context.Context, identity entity.ExternalIdentity) (*entity.Account, error) {
	now := s.now()
	a := &entity.Account{
		Email:           identity.Email,
		FullName:        identity.DisplayName,
		GoogleID:        identity.ExternalID,
		AvatarURL:       identity.AvatarURL,
		Provider:        entity.ProviderGoogle,
		Status:          entity.AccountActive,
		IsVerified:      true,
		EmailVerifiedAt: &now,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"account_id": a.ID, "email": a.Email}).Info("account created from google login")
	return a, nil
}

// link backfills the Google id on an account that has none.
func (s *AuthService) link(ctx context.Context, a *entity.Account, identity entity.ExternalIdentity) error {
	if a.HasExternalIdentity() {
		if a.GoogleID != identity.ExternalID {
			s.log().WithFields(logrus.Fields{
				"account_id":  a.ID,
				"stored_id":   a.GoogleID,
				"provided_id": identity.ExternalID,
			}).Warn("google id differs for email-matched account")
		}
		return nil
	}

	a.GoogleID = identity.ExternalID
	a.IsVerified = true
	if a.EmailVerifiedAt == nil {
		now := s.now()
		a.EmailVerifiedAt = &now
	}
	if err := s.Repo.LinkGoogleID(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			s.log().WithFields(logrus.Fields{
				"account_id":  a.ID,
				"email":       a.Email,
				"provided_id": identity.ExternalID,
			}).Warn("google id already linked to a different account")
			return ErrIdentityConflict
		}
		return fmt.Errorf("link google id: %w", err)
	}
	s.log().WithField("account_id", a.ID).Info("google id linked to existing account")
	return nil
}

func (s *AuthService) afterCreate(ctx context.Context, a *entity.Account) {
	if s.Index != nil {
		if err := s.Index.IndexAccount(ctx, a); err != nil {
			s.log().WithError(err).WithField("account_id", a.ID).Warn("index account failed")
		}
	}
	if s.Pub != nil && s.MailSendEnabled {
		data := mailtpl.ToMap(mailtpl.EmailData{Name: a.FullName, Email: a.Email, AppName: s.AppName})
		job := mailer.EmailJob{To: a.Email, Template: mailtpl.Welcome, Data: data}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			s.log().WithError(err).WithField("account_id", a.ID).Warn("failed to publish welcome email")
		}
	}
}

func ToPublicAccount(a *entity.Account) PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		Email:      a.Email,
		FullName:   a.FullName,
		AvatarURL:  a.AvatarURL,
		IsSeller:   a.IsSeller,
		IsVerified: a.IsVerified,
	}
}

func (s *AuthService) log() *logrus.Logger { return orDiscard(s.Logger) }
