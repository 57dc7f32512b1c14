package forum

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/internal/core/profile"
	"github.com/hablandodecaballos/backend/internal/listing"
)

var (
	ErrThreadNotFound  = errors.New("thread not found")
	ErrThreadLocked    = errors.New("thread is locked")
	ErrInvalidCategory = errors.New("invalid category")
)

// Rewarder credits reputation for forum activity. Satisfied by
// *profile.Service.
type Rewarder interface {
	Award(ctx context.Context, userID uuid.UUID, action string) error
}

type Service struct {
	repo     *Repository
	rewarder Rewarder
}

func NewService(repo *Repository, rewarder Rewarder) *Service {
	return &Service{repo: repo, rewarder: rewarder}
}

func (s *Service) CreateThread(ctx context.Context, authorID uuid.UUID, req *CreateThreadRequest) (*Thread, error) {
	if !validCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	t := &Thread{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
		Category: req.Category,
	}
	if err := s.repo.CreateThread(ctx, t); err != nil {
		return nil, err
	}

	s.award(ctx, authorID, profile.ActionThreadCreated)
	return t, nil
}

func (s *Service) GetThread(ctx context.Context, id uuid.UUID) (*Thread, error) {
	t, err := s.repo.GetThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrThreadNotFound
	}
	return t, nil
}

func (s *Service) Reply(ctx context.Context, threadID, authorID uuid.UUID, req *ReplyRequest) (*Post, error) {
	t, err := s.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if t.Locked {
		return nil, ErrThreadLocked
	}

	p := &Post{
		ID:       uuid.New(),
		ThreadID: threadID,
		AuthorID: authorID,
		Body:     req.Body,
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}

	s.award(ctx, authorID, profile.ActionPostCreated)
	return p, nil
}

// SetFlags pins or locks a thread. Caller must already be privileged;
// route-level middleware enforces that.
func (s *Service) SetFlags(ctx context.Context, threadID uuid.UUID, pinned, locked bool) error {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}
	return s.repo.SetThreadFlags(ctx, threadID, pinned, locked)
}

func (s *Service) ListThreads(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Thread], error) {
	return s.repo.ListThreads(ctx, q, v)
}

func (s *Service) ListPosts(ctx context.Context, threadID uuid.UUID, q listing.Query, v listing.Viewer) (*listing.Page[*Post], error) {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
	q.Filters["thread"] = threadID.String()
	return s.repo.ListPosts(ctx, q, v)
}

// award failures never fail the user action they decorate.
func (s *Service) award(ctx context.Context, userID uuid.UUID, action string) {
	if s.rewarder == nil {
		return
	}
	if err := s.rewarder.Award(ctx, userID, action); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("reputation award failed")
	}
}

func validCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}
