// FrancescoMazzola | 2026
// service_test.go

package dataroom

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/config"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/document"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/migrate"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

const (
	u1 = "a1111111-1111-1111-1111-111111111111"
	u2 = "b1111111-1111-1111-1111-111111111111"
)

type testEnv struct {
	db    *sqlx.DB
	rooms *Service
	docs  *document.Service
	perms *permission.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrate.Up(context.Background(), db.DB))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	perms := permission.NewService(permission.NewRepository(db), nil)
	uploads := config.UploadConfig{
		AllowedExtensions: []string{"pdf", "doc", "docx", "xls", "xlsx"},
		BasePath:          "/uploads",
	}

	env := &testEnv{
		db:    db,
		perms: perms,
		docs: document.NewService(
			db, document.NewRepository(db), perms, uploads, nil, logger),
		rooms: NewService(db, NewRepository(db), perms, logger),
	}

	env.insertUser(t, u1)
	env.insertUser(t, u2)
	return env
}

func (e *testEnv) insertUser(t *testing.T, id string) {
	t.Helper()
	_, err := e.db.Exec(`
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, 'x', 'Test User', 1700000000, 1700000000)`,
		id, id+"@example.com")
	require.NoError(t, err)
}

func TestCreateRoomGrantsCreatorAndLinksTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
		Tags:      []string{"Financial", "Q3"},
	})
	require.NoError(t, err)

	perm, err := env.perms.Resolve(ctx, u1, roomID)
	require.NoError(t, err)
	require.NotNil(t, perm)
	require.Equal(t, permission.RoleCreator, perm.Role)
	require.True(t, perm.Edit)
	require.True(t, perm.AIAccess)

	tags, err := env.rooms.ListTags(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Financial", "Q3"}, tags)
}

func TestCreateRoomReusesExistingTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
		Tags:      []string{"Financial"},
	})
	require.NoError(t, err)

	_, err = env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Audit",
		CreatorID: u1,
		Tags:      []string{"Financial"},
	})
	require.NoError(t, err)

	// exact-match find-or-create keeps a single tag row
	var n int
	require.NoError(t, env.db.Get(&n,
		`SELECT COUNT(*) FROM tags WHERE name = 'Financial'`))
	require.Equal(t, 1, n)
}

func TestListRoomsForUserScopedByGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
		Tags:      []string{"Financial"},
	})
	require.NoError(t, err)

	mine, err := env.rooms.ListRoomsForUser(ctx, u1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, roomID, mine[0].ID)
	require.Equal(t, "Finance", mine[0].Name)
	require.Equal(t, "Creator", mine[0].Role)
	require.Equal(t, []string{"Financial"}, mine[0].Tags)

	theirs, err := env.rooms.ListRoomsForUser(ctx, u2)
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestListRoomsForUserOmitsExpiredGrants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
	})
	require.NoError(t, err)

	future := env.rooms.now() + 3600
	_, err = env.perms.Grant(ctx, roomID, permission.GrantRequest{
		UserID:    u2,
		GrantedBy: u1,
		Role:      "Viewer",
		ExpiresAt: &future,
	})
	require.NoError(t, err)

	theirs, err := env.rooms.ListRoomsForUser(ctx, u2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)

	// Lapse the grant; the room drops out of the listing like any revoke.
	past := env.rooms.now() - 3600
	_, err = env.db.Exec(`
		UPDATE user_data_room_permissions
		SET expires_at = $1
		WHERE user_id = $2 AND data_room_id = $3`,
		past, u2, roomID)
	require.NoError(t, err)

	theirs, err = env.rooms.ListRoomsForUser(ctx, u2)
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestGetRoomUnknownIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rooms.GetRoom(context.Background(),
		"99999999-9999-9999-9999-999999999999", u1)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetRoomRoleDefaultsToViewerWithoutGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
	})
	require.NoError(t, err)

	room, err := env.rooms.GetRoom(ctx, roomID, u2)
	require.NoError(t, err)
	require.Equal(t, "Viewer", room.Role)

	owned, err := env.rooms.GetRoom(ctx, roomID, u1)
	require.NoError(t, err)
	require.Equal(t, "Creator", owned.Role)
}

func TestWatermarkRequiresEditToSetViewToRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
	})
	require.NoError(t, err)

	_, err = env.perms.Grant(ctx, roomID, permission.GrantRequest{
		UserID:    u2,
		GrantedBy: u1,
		Role:      "Viewer",
	})
	require.NoError(t, err)

	_, err = env.rooms.SetWatermark(ctx, roomID, u2, WatermarkRequest{
		Template: "CONFIDENTIAL",
	})
	require.ErrorIs(t, err, core.ErrForbidden)

	wm, err := env.rooms.SetWatermark(ctx, roomID, u1, WatermarkRequest{
		Template: "CONFIDENTIAL - {user}",
	})
	require.NoError(t, err)
	require.Equal(t, "center", wm.Position)
	require.InDelta(t, 0.3, wm.Opacity, 0.0001)

	got, err := env.rooms.GetWatermark(ctx, roomID, u2)
	require.NoError(t, err)
	require.Equal(t, wm.ID, got.ID)
}

func TestStatsCountsActiveContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
	})
	require.NoError(t, err)

	_, err = env.docs.UploadFile(ctx, roomID, document.UploadFileRequest{
		Name:     "report.pdf",
		FileType: "pdf",
		UserID:   u1,
	}, document.RequestMeta{})
	require.NoError(t, err)

	stats, err := env.rooms.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalRooms)
	require.Equal(t, 1, stats.TotalFiles)
	require.Equal(t, 2, stats.TotalUsers)
	require.Equal(t, 1, stats.RecentActivity)
}

// Mirrors a full collaboration round trip: creator uploads, a viewer can see
// the room but not upload, and deletion keeps the audit trail.
func TestFinanceRoomScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roomID, err := env.rooms.CreateRoom(ctx, CreateRoomRequest{
		Name:      "Finance",
		CreatorID: u1,
		Tags:      []string{"Financial"},
	})
	require.NoError(t, err)

	file, err := env.docs.UploadFile(ctx, roomID, document.UploadFileRequest{
		Name:     "report.pdf",
		FileType: "pdf",
		FileSize: 2048,
		UserID:   u1,
	}, document.RequestMeta{})
	require.NoError(t, err)

	rooms, err := env.rooms.ListRoomsForUser(ctx, u1)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, 1, rooms[0].FileCount)

	_, err = env.docs.UploadFile(ctx, roomID, document.UploadFileRequest{
		Name:     "malware.exe",
		FileType: "exe",
		UserID:   u1,
	}, document.RequestMeta{})
	require.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = env.perms.Grant(ctx, roomID, permission.GrantRequest{
		UserID:    u2,
		GrantedBy: u1,
		Role:      "Viewer",
	})
	require.NoError(t, err)

	u2Rooms, err := env.rooms.ListRoomsForUser(ctx, u2)
	require.NoError(t, err)
	require.Len(t, u2Rooms, 1)
	require.Equal(t, "Viewer", u2Rooms[0].Role)

	_, err = env.docs.UploadFile(ctx, roomID, document.UploadFileRequest{
		Name:     "sneaky.pdf",
		FileType: "pdf",
		UserID:   u2,
	}, document.RequestMeta{})
	require.ErrorIs(t, err, core.ErrForbidden)

	err = env.docs.DeleteFile(ctx, file.ID, u1, document.RequestMeta{})
	require.NoError(t, err)

	rooms, err = env.rooms.ListRoomsForUser(ctx, u1)
	require.NoError(t, err)
	require.Equal(t, 0, rooms[0].FileCount)

	var actions []string
	require.NoError(t, env.db.Select(&actions, `
		SELECT action FROM file_access_logs
		WHERE file_id = $1
		ORDER BY action ASC`, file.ID))
	require.Equal(t, []string{"delete", "upload"}, actions)
}
