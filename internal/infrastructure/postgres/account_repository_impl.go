package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
	"github.com/oksasatya/campus-auth/internal/domain/repository"
)

const uniqueViolation = "23505"

const accountColumns = `
	id, email, full_name, COALESCE(google_id, ''), avatar_url, provider, status,
	is_verified, email_verified_at, COALESCE(nim, ''), major, batch, phone_number,
	bio, address, city, province, postal_code, country, is_seller, avg_rating,
	total_reviews, total_orders_completed, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	var status string
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.GoogleID, &a.AvatarURL, &a.Provider, &status,
		&a.IsVerified, &a.EmailVerifiedAt, &a.NIM, &a.Major, &a.Batch, &a.PhoneNumber,
		&a.Bio, &a.Address, &a.City, &a.Province, &a.PostalCode, &a.Country, &a.IsSeller, &a.AvgRating,
		&a.TotalReviews, &a.TotalOrdersCompleted, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	a.Status = entity.AccountStatus(status)
	return a, nil
}

// mapWriteErr turns unique violations into repository.ErrDuplicate.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.Status == "" {
		a.Status = entity.AccountActive
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (email, full_name, google_id, avatar_url, provider, status, is_verified, email_verified_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, a.Email, a.FullName, a.GoogleID, a.AvatarURL, a.Provider, string(a.Status), a.IsVerified, a.EmailVerifiedAt)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (r *AccountRepository) GetByNIM(ctx context.Context, nim string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE nim = $1`, nim))
}

const updateProfileSQL = `
	UPDATE accounts
	SET full_name = $1, avatar_url = $2, nim = NULLIF($3, ''), major = $4,
	    batch = $5, phone_number = $6, bio = $7, address = $8, city = $9,
	    province = $10, postal_code = $11, country = $12, updated_at = now()
	WHERE id = $13
	RETURNING updated_at`

const linkGoogleIDSQL = `
	UPDATE accounts
	SET google_id = $1, is_verified = TRUE,
	    email_verified_at = COALESCE(email_verified_at, $2), updated_at = now()
	WHERE id = $3
	RETURNING is_verified, email_verified_at, updated_at`

// UpdateProfile writes the profile columns only. Status, identity and
// aggregates are left to their owners.
func (r *AccountRepository) UpdateProfile(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, updateProfileSQL,
		a.FullName, a.AvatarURL, a.NIM, a.Major,
		a.Batch, a.PhoneNumber, a.Bio, a.Address, a.City,
		a.Province, a.PostalCode, a.Country,
		a.ID)
	return scanWrite(row, &a.UpdatedAt)
}

func (r *AccountRepository) LinkGoogleID(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, linkGoogleIDSQL, a.GoogleID, a.EmailVerifiedAt, a.ID)
	return scanWrite(row, &a.IsVerified, &a.EmailVerifiedAt, &a.UpdatedAt)
}

// scanWrite reads the RETURNING columns of an UPDATE ... WHERE id.
func scanWrite(row pgx.Row, dest ...any) error {
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return mapWriteErr(err)
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
