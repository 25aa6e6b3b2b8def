// FrancescoMazzola | 2026
// service_test.go

package sharing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/migrate"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

const (
	roomID    = "21111111-1111-1111-1111-111111111111"
	creatorID = "a1111111-1111-1111-1111-111111111111"
	viewerID  = "b1111111-1111-1111-1111-111111111111"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func setup(t *testing.T) (*sqlx.DB, *Service) {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, migrate.Up(ctx, db.DB))

	for _, id := range []string{creatorID, viewerID} {
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
		roomID, creatorID)
	require.NoError(t, err)

	permRepo := permission.NewRepository(db)
	require.NoError(t, permission.GrantCreator(ctx, permRepo, roomID, creatorID, 1_700_000_000))
	require.NoError(t, permRepo.Upsert(ctx, &permission.Permission{
		UserID:       viewerID,
		DataRoomID:   roomID,
		Role:         permission.RoleViewer,
		Capabilities: permission.DefaultCapabilities(permission.RoleViewer),
		CreatedBy:    creatorID,
		CreatedAt:    1_700_000_000,
		UpdatedAt:    1_700_000_000,
	}))

	perms := permission.NewService(permRepo, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return db, NewService(NewRepository(db), perms, logger)
}

func TestCreateLinkStoresHashNotToken(t *testing.T) {
	db, svc := setup(t)

	resp, err := svc.CreateLink(context.Background(), roomID, CreateLinkRequest{
		UserID: creatorID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	var stored string
	require.NoError(t, db.Get(&stored,
		`SELECT token_hash FROM shared_links WHERE id = $1`, resp.ID))
	require.NotEqual(t, resp.Token, stored)
	require.Equal(t, core.HashToken(resp.Token), stored)
}

func TestCreateLinkRequiresEditCapability(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.CreateLink(context.Background(), roomID, CreateLinkRequest{
		UserID: viewerID,
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRedeemCountsUses(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	created, err := svc.CreateLink(ctx, roomID, CreateLinkRequest{
		UserID:  creatorID,
		MaxUses: intPtr(2),
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resolved, err := svc.Redeem(ctx, RedeemLinkRequest{Token: created.Token})
		require.NoError(t, err)
		require.Equal(t, roomID, resolved.DataRoomID)
	}

	_, err = svc.Redeem(ctx, RedeemLinkRequest{Token: created.Token})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRedeemUnknownTokenIsForbidden(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.Redeem(context.Background(), RedeemLinkRequest{Token: "nope"})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRedeemChecksPassword(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	created, err := svc.CreateLink(ctx, roomID, CreateLinkRequest{
		UserID:   creatorID,
		Password: strPtr("hunter22"),
	})
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, RedeemLinkRequest{Token: created.Token})
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.Redeem(ctx, RedeemLinkRequest{
		Token:    created.Token,
		Password: strPtr("wrong"),
	})
	require.ErrorIs(t, err, core.ErrForbidden)

	resolved, err := svc.Redeem(ctx, RedeemLinkRequest{
		Token:    created.Token,
		Password: strPtr("hunter22"),
	})
	require.NoError(t, err)
	require.Equal(t, roomID, resolved.DataRoomID)
}

func TestRedeemExpiredLinkIsForbidden(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	expired := svc.now() - 60
	created, err := svc.CreateLink(ctx, roomID, CreateLinkRequest{
		UserID:    creatorID,
		ExpiresAt: &expired,
	})
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, RedeemLinkRequest{Token: created.Token})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRevokedLinkCannotBeRedeemed(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	created, err := svc.CreateLink(ctx, roomID, CreateLinkRequest{
		UserID: creatorID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeLink(ctx, roomID, created.ID, creatorID))

	_, err = svc.Redeem(ctx, RedeemLinkRequest{Token: created.Token})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRevokeLinkFromAnotherRoomIsNotFound(t *testing.T) {
	db, svc := setup(t)
	ctx := context.Background()

	created, err := svc.CreateLink(ctx, roomID, CreateLinkRequest{
		UserID: creatorID,
	})
	require.NoError(t, err)

	// A second room whose creator holds edit rights only there.
	otherRoomID := "22222222-2222-2222-2222-222222222222"
	otherOwnerID := "c1111111-1111-1111-1111-111111111111"
	_, err = db.Exec(`
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, 'x', 'Other Owner', 1700000000, 1700000000)`,
		otherOwnerID, otherOwnerID+"@example.com")
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO data_rooms (id, name, created_by, is_active, created_at,
		                        updated_at, last_modified)
		VALUES ($1, 'Legal', $2, 1, 1700000000, 1700000000, 1700000000)`,
		otherRoomID, otherOwnerID)
	require.NoError(t, err)
	require.NoError(t, permission.GrantCreator(ctx,
		permission.NewRepository(db), otherRoomID, otherOwnerID, 1_700_000_000))

	err = svc.RevokeLink(ctx, otherRoomID, created.ID, otherOwnerID)
	require.ErrorIs(t, err, core.ErrNotFound)

	// The original link is untouched and still redeemable.
	resolved, err := svc.Redeem(ctx, RedeemLinkRequest{Token: created.Token})
	require.NoError(t, err)
	require.Equal(t, roomID, resolved.DataRoomID)
}

func TestListRoomLinksRequiresEditCapability(t *testing.T) {
	_, svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateLink(ctx, roomID, CreateLinkRequest{UserID: creatorID})
	require.NoError(t, err)

	_, err = svc.ListRoomLinks(ctx, roomID, viewerID)
	require.ErrorIs(t, err, core.ErrForbidden)

	links, err := svc.ListRoomLinks(ctx, roomID, creatorID)
	require.NoError(t, err)
	require.Len(t, links, 1)
}
