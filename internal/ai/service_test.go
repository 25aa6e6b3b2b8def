// FrancescoMazzola | 2026
// service_test.go

package ai

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
	analystID = "a1111111-1111-1111-1111-111111111111"
	viewerID  = "b1111111-1111-1111-1111-111111111111"
)

func setup(t *testing.T) *Service {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, migrate.Up(ctx, db.DB))

	for _, id := range []string{analystID, viewerID} {
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
		roomID, analystID)
	require.NoError(t, err)

	permRepo := permission.NewRepository(db)
	require.NoError(t, permission.GrantCreator(ctx, permRepo, roomID, analystID, 1_700_000_000))
	require.NoError(t, permRepo.Upsert(ctx, &permission.Permission{
		UserID:       viewerID,
		DataRoomID:   roomID,
		Role:         permission.RoleViewer,
		Capabilities: permission.DefaultCapabilities(permission.RoleViewer),
		CreatedBy:    analystID,
		CreatedAt:    1_700_000_000,
		UpdatedAt:    1_700_000_000,
	}))

	perms := permission.NewService(permRepo, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(NewRepository(db), perms, nil, logger)
}

func TestSubmitRequiresAIAccess(t *testing.T) {
	svc := setup(t)

	_, err := svc.Submit(context.Background(), roomID, SubmitQueryRequest{
		UserID: viewerID,
		Query:  "What is the total revenue?",
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestSubmitCompletesSynchronously(t *testing.T) {
	svc := setup(t)

	query, err := svc.Submit(context.Background(), roomID, SubmitQueryRequest{
		UserID: analystID,
		Query:  "What is the total revenue?",
	})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, query.ProcessingStatus)
	require.NotNil(t, query.ResponseText)
	require.NotNil(t, query.ProcessingTimeMs)

	stored, err := svc.GetQuery(context.Background(), query.ID, analystID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, stored.ProcessingStatus)
	require.Equal(t, *query.ResponseText, *stored.ResponseText)
}

func TestListRoomQueriesRequiresAIAccess(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, roomID, SubmitQueryRequest{
		UserID: analystID,
		Query:  "Summarize the audit findings",
	})
	require.NoError(t, err)

	_, err = svc.ListRoomQueries(ctx, roomID, viewerID, 10)
	require.ErrorIs(t, err, core.ErrForbidden)

	queries, err := svc.ListRoomQueries(ctx, roomID, analystID, 10)
	require.NoError(t, err)
	require.Len(t, queries, 1)
}

func TestGetQueryAuthorBypassesRoomCheck(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	query, err := svc.Submit(ctx, roomID, SubmitQueryRequest{
		UserID: analystID,
		Query:  "List referenced contracts",
	})
	require.NoError(t, err)

	// the author can always read their own query
	_, err = svc.GetQuery(ctx, query.ID, analystID)
	require.NoError(t, err)

	// a member without AI access cannot read someone else's
	_, err = svc.GetQuery(ctx, query.ID, viewerID)
	require.ErrorIs(t, err, core.ErrForbidden)
}
