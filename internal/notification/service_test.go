// FrancescoMazzola | 2026
// service_test.go

package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/migrate"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

const (
	roomID   = "21111111-1111-1111-1111-111111111111"
	uploader = "a1111111-1111-1111-1111-111111111111"
	member   = "b1111111-1111-1111-1111-111111111111"
)

func setup(t *testing.T) *Service {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, migrate.Up(ctx, db.DB))

	for _, id := range []string{uploader, member} {
		_, err = db.Exec(`
			INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
			VALUES ($1, $2, 'x', 'Test User', 1700000000, 1700000000)`,
			id, id+"@example.com")
		require.NoError(t, err)
	}

	_, err = db.Exec(`
		INSERT INTO data_rooms (id, name, created_by, is_active, created_at,
		                        updated_at, last_modified)
		VALUES ($1, 'Finance', $2, 1, 1700000000, 1700000000, 1700000000)`,
		roomID, uploader)
	require.NoError(t, err)

	permRepo := permission.NewRepository(db)
	require.NoError(t, permission.GrantCreator(ctx, permRepo, roomID, uploader, 1_700_000_000))
	require.NoError(t, permRepo.Upsert(ctx, &permission.Permission{
		UserID:       member,
		DataRoomID:   roomID,
		Role:         permission.RoleViewer,
		Capabilities: permission.DefaultCapabilities(permission.RoleViewer),
		CreatedBy:    uploader,
		CreatedAt:    1_700_000_000,
		UpdatedAt:    1_700_000_000,
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewRepository(db), logger)
}

func TestFileUploadedSkipsActor(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	svc.FileUploaded(ctx, uploader, roomID, "report.pdf")

	mine, err := svc.ListForUser(ctx, uploader, false)
	require.NoError(t, err)
	require.Empty(t, mine)

	theirs, err := svc.ListForUser(ctx, member, false)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	require.Equal(t, TypeFileUploaded, theirs[0].Type)
	require.False(t, theirs[0].IsRead)
}

func TestAccessGrantedNotifiesGrantee(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	svc.AccessGranted(ctx, member, roomID, "Viewer")

	notifications, err := svc.ListForUser(ctx, member, true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, TypeAccessGranted, notifications[0].Type)
	require.Contains(t, *notifications[0].Message, "Viewer")
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	svc.AccessGranted(ctx, member, roomID, "Viewer")

	notifications, err := svc.ListForUser(ctx, member, true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	id := notifications[0].ID

	// another user cannot flip someone else's notification
	require.NoError(t, svc.MarkRead(ctx, uploader, []string{id}))
	unread, err := svc.ListForUser(ctx, member, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, svc.MarkRead(ctx, member, []string{id}))
	unread, err = svc.ListForUser(ctx, member, true)
	require.NoError(t, err)
	require.Empty(t, unread)
}
