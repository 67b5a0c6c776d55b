package thread

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/utils/idgen"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

const maxTitleLength = 256

// Service is the business surface for thread management. Every operation is
// scoped to the requesting user; threads that exist but belong to someone
// else are reported as not found so existence never leaks to non-owners.
type Service interface {
	Create(ctx context.Context, userID string, title *string) (*Thread, error)
	Get(ctx context.Context, userID, publicID string) (*Thread, error)
	List(ctx context.Context, userID string) ([]*Thread, error)
	Delete(ctx context.Context, userID, publicID string) error
	Messages(ctx context.Context, userID, publicID string) ([]*Message, error)

	// Authorize loads a thread and verifies ownership, masking mismatches
	// as not found. Used by the chat orchestrator before any context or
	// provider work happens.
	Authorize(ctx context.Context, userID, publicID string) (*Thread, error)
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService wires the thread service with its repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "thread-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, userID string, title *string) (*Thread, error) {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			title = nil
		} else {
			if len(trimmed) > maxTitleLength {
				return nil, platformerrors.NewError(
					ctx,
					platformerrors.LayerDomain,
					platformerrors.ErrorTypeValidation,
					"title exceeds maximum length",
					nil,
					"f0a6b2c4-5d97-4ebf-a318-a235f1d6e903",
				)
			}
			title = &trimmed
		}
	}

	publicID, err := idgen.ThreadID()
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"generate thread id",
			err,
			"01b7c3d5-6ea8-4fc0-b429-b346a2e7fa14",
		)
	}

	created := &Thread{
		PublicID: publicID,
		UserID:   userID,
		Title:    title,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	s.log.Info().Str("thread_id", created.PublicID).Msg("thread created")
	return created, nil
}

func (s *service) Get(ctx context.Context, userID, publicID string) (*Thread, error) {
	return s.Authorize(ctx, userID, publicID)
}

func (s *service) List(ctx context.Context, userID string) ([]*Thread, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, publicID string) error {
	found, err := s.Authorize(ctx, userID, publicID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, found.ID); err != nil {
		return err
	}
	s.log.Info().Str("thread_id", publicID).Msg("thread deleted")
	return nil
}

func (s *service) Messages(ctx context.Context, userID, publicID string) ([]*Message, error) {
	found, err := s.Authorize(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, found.ID)
}

func (s *service) Authorize(ctx context.Context, userID, publicID string) (*Thread, error) {
	found, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		if platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
			return nil, notFound(ctx, publicID)
		}
		return nil, err
	}
	if found.UserID != userID {
		// Ownership mismatches are masked as not found.
		return nil, notFound(ctx, publicID)
	}
	return found, nil
}

func notFound(ctx context.Context, publicID string) *platformerrors.PlatformError {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound,
		"thread not found: "+publicID,
		nil,
		"12c8d4e6-7fb9-4ad1-c53a-c457b3f80b25",
	)
}
