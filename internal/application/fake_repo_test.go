package application

import (
	"context"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
	repo "github.com/oksasatya/campus-auth/internal/domain/repository"
)

// memRepo is an in-memory AccountRepository enforcing the same unique keys
// as the accounts table.
type memRepo struct {
	mu       sync.Mutex
	accounts map[string]entity.Account
	seq      int

	creates int
	updates int

	// createErr, when set, is returned once by Create before touching state.
	createErr error
	// onCreate runs before Create inserts, used to simulate races.
	onCreate func()
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: map[string]entity.Account{}}
}

func (r *memRepo) put(a entity.Account) *entity.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		r.seq++
		a.ID = "acc-" + strconv.Itoa(r.seq)
	}
	// column default
	if a.Status == "" {
		a.Status = entity.AccountActive
	}
	r.accounts[a.ID] = a
	return &a
}

func (r *memRepo) conflicts(a *entity.Account) bool {
	for id, other := range r.accounts {
		if id == a.ID {
			continue
		}
		if other.Email == a.Email ||
			(a.GoogleID != "" && other.GoogleID == a.GoogleID) ||
			(a.NIM != "" && other.NIM == a.NIM) {
			return true
		}
	}
	return false
}

func (r *memRepo) Create(_ context.Context, a *entity.Account) error {
	if r.onCreate != nil {
		hook := r.onCreate
		r.onCreate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	if r.conflicts(a) {
		return repo.ErrDuplicate
	}
	r.seq++
	a.ID = "acc-" + strconv.Itoa(r.seq)
	r.accounts[a.ID] = *a
	r.creates++
	return nil
}

func (r *memRepo) find(match func(entity.Account) bool) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if match(a) {
			cp := a
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.ID == id })
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.Email == email })
}

func (r *memRepo) GetByNIM(_ context.Context, nim string) (*entity.Account, error) {
	return r.find(func(a entity.Account) bool { return a.NIM != "" && a.NIM == nim })
}

// UpdateProfile copies only the profile columns onto the stored row.
func (r *memRepo) UpdateProfile(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[a.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.FullName, stored.AvatarURL, stored.NIM = a.FullName, a.AvatarURL, a.NIM
	stored.Major, stored.Batch, stored.PhoneNumber, stored.Bio = a.Major, a.Batch, a.PhoneNumber, a.Bio
	stored.Address, stored.City, stored.Province = a.Address, a.City, a.Province
	stored.PostalCode, stored.Country = a.PostalCode, a.Country
	if r.conflicts(&stored) {
		return repo.ErrDuplicate
	}
	r.accounts[a.ID] = stored
	r.updates++
	return nil
}

func (r *memRepo) LinkGoogleID(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[a.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.GoogleID = a.GoogleID
	stored.IsVerified = true
	if stored.EmailVerifiedAt == nil {
		stored.EmailVerifiedAt = a.EmailVerifiedAt
	}
	if r.conflicts(&stored) {
		return repo.ErrDuplicate
	}
	r.accounts[a.ID] = stored
	a.IsVerified, a.EmailVerifiedAt = stored.IsVerified, stored.EmailVerifiedAt
	r.updates++
	return nil
}

// setStatus changes the stored status the way an admin tool would.
func (r *memRepo) setStatus(id string, status entity.AccountStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.accounts[id]
	a.Status = status
	r.accounts[id] = a
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	return m.Called(ctx, body).Error(0)
}

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) IndexAccount(ctx context.Context, a *entity.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockIndex) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	args := m.Called(ctx, q, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

var _ repo.AccountRepository = (*memRepo)(nil)
