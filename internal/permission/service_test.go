// FrancescoMazzola | 2026
// service_test.go

package permission

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type fakeRepository struct {
	rows map[string]*Permission
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rows: make(map[string]*Permission)}
}

func key(userID, roomID string) string {
	return userID + "|" + roomID
}

func (f *fakeRepository) Upsert(_ context.Context, perm *Permission) error {
	copied := *perm
	f.rows[key(perm.UserID, perm.DataRoomID)] = &copied
	return nil
}

func (f *fakeRepository) Get(
	_ context.Context,
	userID, roomID string,
) (*Permission, error) {
	perm, ok := f.rows[key(userID, roomID)]
	if !ok {
		return nil, fmt.Errorf("get permission: %w", core.ErrNotFound)
	}
	copied := *perm
	return &copied, nil
}

func (f *fakeRepository) ListByRoom(
	_ context.Context,
	roomID string,
) ([]Permission, error) {
	var out []Permission
	for _, perm := range f.rows {
		if perm.DataRoomID == roomID {
			out = append(out, *perm)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListByUser(
	_ context.Context,
	userID string,
) ([]Permission, error) {
	var out []Permission
	for _, perm := range f.rows {
		if perm.UserID == userID {
			out = append(out, *perm)
		}
	}
	return out, nil
}

func (f *fakeRepository) Delete(
	_ context.Context,
	userID, roomID string,
) error {
	k := key(userID, roomID)
	if _, ok := f.rows[k]; !ok {
		return fmt.Errorf("delete permission: %w", core.ErrNotFound)
	}
	delete(f.rows, k)
	return nil
}

type recordingNotifier struct {
	granted []string
}

func (n *recordingNotifier) AccessGranted(
	_ context.Context,
	userID, _ string,
	_ string,
) {
	n.granted = append(n.granted, userID)
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo, nil)
	svc.now = func() int64 { return 1_700_000_000 }
	return svc
}

func boolPtr(b bool) *bool { return &b }

const (
	roomID    = "21111111-1111-1111-1111-111111111111"
	creatorID = "a1111111-1111-1111-1111-111111111111"
	memberID  = "b1111111-1111-1111-1111-111111111111"
	otherID   = "c1111111-1111-1111-1111-111111111111"
)

func seedCreator(t *testing.T, repo Repository) {
	t.Helper()
	err := GrantCreator(context.Background(), repo, roomID, creatorID, 1_699_999_000)
	require.NoError(t, err)
}

func TestGrantRequiresEditCapability(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	_, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: otherID,
		Role:      "Viewer",
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestGrantAppliesRoleDefaults(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	perm, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Contributor",
	})
	require.NoError(t, err)
	require.Equal(t, RoleContributor, perm.Role)
	require.True(t, perm.View)
	require.True(t, perm.Upload)
	require.True(t, perm.Download)
	require.False(t, perm.Edit)
	require.False(t, perm.Delete)
	require.False(t, perm.AIAccess)
}

func TestGrantFlagOverridesBeatDefaults(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	perm, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Viewer",
		AIAccess:  boolPtr(true),
		CanView:   boolPtr(false),
	})
	require.NoError(t, err)
	require.True(t, perm.AIAccess)
	require.False(t, perm.View)
}

func TestGrantReplacesExistingRow(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	_, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Editor",
	})
	require.NoError(t, err)

	_, err = svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Viewer",
	})
	require.NoError(t, err)

	// at most one row per (user, room) pair
	rows, err := repo.ListByRoom(context.Background(), roomID)
	require.NoError(t, err)
	require.Len(t, rows, 2) // creator + member

	resolved, err := svc.Resolve(context.Background(), memberID, roomID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, RoleViewer, resolved.Role)
	require.False(t, resolved.Upload)
}

func TestGrantRejectsUnknownRole(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	_, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Owner",
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGrantNotifiesGrantee(t *testing.T) {
	repo := newFakeRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier)
	seedCreator(t, repo)

	_, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Viewer",
	})
	require.NoError(t, err)
	require.Equal(t, []string{memberID}, notifier.granted)
}

func TestResolveAbsentReturnsNil(t *testing.T) {
	svc := newTestService(newFakeRepository())

	perm, err := svc.Resolve(context.Background(), memberID, roomID)
	require.NoError(t, err)
	require.Nil(t, perm)
}

func TestResolveExpiredGrantIsAbsent(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	expiry := int64(1_699_999_999) // behind the fixed clock
	_, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Viewer",
		ExpiresAt: &expiry,
	})
	require.NoError(t, err)

	perm, err := svc.Resolve(context.Background(), memberID, roomID)
	require.NoError(t, err)
	require.Nil(t, perm)
}

func TestRevokeRequiresEditCapability(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	seedCreator(t, repo)

	_, err := svc.Grant(context.Background(), roomID, GrantRequest{
		UserID:    memberID,
		GrantedBy: creatorID,
		Role:      "Viewer",
	})
	require.NoError(t, err)

	err = svc.Revoke(context.Background(), roomID, creatorID, memberID)
	require.ErrorIs(t, err, core.ErrForbidden)

	err = svc.Revoke(context.Background(), roomID, memberID, creatorID)
	require.NoError(t, err)

	perm, err := svc.Resolve(context.Background(), memberID, roomID)
	require.NoError(t, err)
	require.Nil(t, perm)
}
