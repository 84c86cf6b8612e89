package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quinta/internal/errors"
	"quinta/internal/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	users     map[int64]*models.User
	nextID    int64
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*models.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %d not found", user.ID)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func newUserFixture(t *testing.T) (*UserService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	return NewUserService(repo, "test-secret", time.Hour, bcrypt.MinCost), repo
}

func registerGuest(t *testing.T, svc *UserService) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "guest@example.com",
		Password:    "secret1",
		FirstName:   "Dana",
		LastName:    "Ruiz",
		PhoneNumber: "+15550100",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerGuest(t, svc)

	// Case and surrounding whitespace do not make a new identity.
	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "  Guest@Example.COM ",
		Password:    "secret1",
		FirstName:   "Other",
		LastName:    "Person",
		PhoneNumber: "+15550101",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindConflict, errors.KindOf(err))
}

func TestRegisterMapsUniqueViolationToConflict(t *testing.T) {
	svc, repo := newUserFixture(t)

	// A concurrent registration that loses the race on the unique index
	// surfaces as the same conflict as a pre-checked duplicate.
	repo.createErr = &pq.Error{Code: "23505", Constraint: "users_email_key"}

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "guest@example.com",
		Password:    "secret1",
		FirstName:   "Dana",
		LastName:    "Ruiz",
		PhoneNumber: "+15550100",
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindConflict, errors.KindOf(err))
}

func TestUpdateAccountPartial(t *testing.T) {
	svc, repo := newUserFixture(t)
	user := registerGuest(t, svc)

	phone := "+15550199"
	updated, err := svc.UpdateAccount(context.Background(), user.ID, &models.UpdateAccountRequest{
		PhoneNumber: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, phone, updated.PhoneNumber)
	assert.Equal(t, "guest@example.com", updated.Email)
	assert.Equal(t, "Dana", updated.FirstName)
	assert.Equal(t, "Ruiz", updated.LastName)

	// Absent password field leaves the stored hash untouched.
	stored := repo.users[user.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestUpdateAccountRejectsTakenEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerGuest(t, svc)

	other, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "other@example.com",
		Password:    "secret1",
		FirstName:   "Noor",
		LastName:    "Haddad",
		PhoneNumber: "+15550102",
	})
	require.NoError(t, err)

	taken := "guest@example.com"
	_, err = svc.UpdateAccount(context.Background(), other.ID, &models.UpdateAccountRequest{
		Email: &taken,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindConflict, errors.KindOf(err))
}

func TestUpdateAccountRejectsShortPassword(t *testing.T) {
	svc, _ := newUserFixture(t)
	user := registerGuest(t, svc)

	short := "abc"
	_, err := svc.UpdateAccount(context.Background(), user.ID, &models.UpdateAccountRequest{
		Password: &short,
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}
