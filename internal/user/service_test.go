// FrancescoMazzola | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type fakeRepository struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (f *fakeRepository) Create(_ context.Context, u *User) error {
	if _, exists := f.byEmail[u.Email]; exists {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	copied := *u
	f.byID[u.ID] = &copied
	f.byEmail[u.Email] = &copied
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepository) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func TestCreateHashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "Alice@Example.COM",
		Password: "correct horse battery",
		Name:     "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", created.Email)
	require.NotEqual(t, "correct horse battery", created.PasswordHash)
	require.True(t, created.IsActive)

	ok, err := core.VerifyPassword("correct horse battery", created.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCreateDuplicateEmailFails(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "alice@example.com",
		Password: "password-one",
		Name:     "Alice",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserRequest{
		Email:    "ALICE@example.com",
		Password: "password-two",
		Name:     "Alice Again",
	})
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}
