// FrancescoMazzola | 2026
// service.go

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/permission"
)

const defaultListLimit = 50

// Answerer produces the response for a document question. No real model
// integration exists yet; the stub answerer stands in until one does.
type Answerer interface {
	Answer(ctx context.Context, roomID, query string) (string, error)
}

// StubAnswerer returns a canned acknowledgement for every question.
type StubAnswerer struct{}

func (StubAnswerer) Answer(_ context.Context, _ string, query string) (string, error) {
	return fmt.Sprintf(
		"Document analysis is not yet connected. Your question %q was recorded.",
		query,
	), nil
}

type Service struct {
	repo     Repository
	perms    *permission.Service
	answerer Answerer
	log      *slog.Logger
	now      func() time.Time
}

func NewService(
	repo Repository,
	perms *permission.Service,
	answerer Answerer,
	log *slog.Logger,
) *Service {
	if answerer == nil {
		answerer = StubAnswerer{}
	}
	return &Service{
		repo:     repo,
		perms:    perms,
		answerer: answerer,
		log:      log,
		now:      time.Now,
	}
}

// Submit records the question and answers it in-request. The caller needs
// the AI-access capability in the room. The row passes pending -> completed
// (or failed) before the call returns; there is no background pipeline.
func (s *Service) Submit(
	ctx context.Context,
	roomID string,
	req SubmitQueryRequest,
) (*Query, error) {
	perm, err := s.perms.Resolve(ctx, req.UserID, roomID)
	if err != nil {
		return nil, err
	}
	if perm == nil || !perm.AIAccess {
		return nil, fmt.Errorf("submit ai query: %w", core.ErrForbidden)
	}

	started := s.now()
	query := &Query{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		DataRoomID:       roomID,
		QueryText:        req.Query,
		ProcessingStatus: StatusPending,
		CreatedAt:        started.Unix(),
	}
	if err := s.repo.Create(ctx, query); err != nil {
		return nil, err
	}

	answer, err := s.answerer.Answer(ctx, roomID, req.Query)
	elapsed := s.now().Sub(started).Milliseconds()

	if err != nil {
		s.log.ErrorContext(ctx, "ai query failed",
			slog.String("query_id", query.ID),
			slog.String("error", err.Error()),
		)
		if setErr := s.repo.SetResult(ctx, query.ID, StatusFailed, nil, &elapsed); setErr != nil {
			return nil, setErr
		}
		query.ProcessingStatus = StatusFailed
		query.ProcessingTimeMs = &elapsed
		return query, nil
	}

	if err := s.repo.SetResult(ctx, query.ID, StatusCompleted, &answer, &elapsed); err != nil {
		return nil, err
	}

	query.ProcessingStatus = StatusCompleted
	query.ResponseText = &answer
	query.ProcessingTimeMs = &elapsed
	return query, nil
}

// ListRoomQueries returns the room's query history, newest first. Requires
// the AI-access capability.
func (s *Service) ListRoomQueries(
	ctx context.Context,
	roomID, userID string,
	limit int,
) ([]Query, error) {
	perm, err := s.perms.Resolve(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if perm == nil || !perm.AIAccess {
		return nil, fmt.Errorf("list ai queries: %w", core.ErrForbidden)
	}

	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	return s.repo.ListByRoom(ctx, roomID, limit)
}

// GetQuery returns one query record. The requester must be its author or
// hold AI access in its room.
func (s *Service) GetQuery(
	ctx context.Context,
	queryID, userID string,
) (*Query, error) {
	query, err := s.repo.Get(ctx, queryID)
	if err != nil {
		return nil, err
	}

	if query.UserID != userID {
		perm, err := s.perms.Resolve(ctx, userID, query.DataRoomID)
		if err != nil {
			return nil, err
		}
		if perm == nil || !perm.AIAccess {
			return nil, fmt.Errorf("get ai query: %w", core.ErrForbidden)
		}
	}

	return query, nil
}
