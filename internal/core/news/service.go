package news

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/internal/core/profile"
	"github.com/hablandodecaballos/backend/internal/listing"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrNotAuthor       = errors.New("caller is not the article author")
)

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

func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req *CreateArticleRequest) (*Article, error) {
	a := &Article{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		CoverPath: req.CoverPath,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get applies the same visibility rule as listing: drafts are only served
// to their author or a privileged viewer.
func (s *Service) Get(ctx context.Context, id uuid.UUID, v listing.Viewer) (*Article, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	if !a.Published && !visibleToViewer(a, v) {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, privileged bool, req *UpdateArticleRequest) (*Article, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	if a.AuthorID != callerID && !privileged {
		return nil, ErrNotAuthor
	}

	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Summary != "" {
		a.Summary = req.Summary
	}
	if req.Body != "" {
		a.Body = req.Body
	}
	if req.CoverPath != "" {
		a.CoverPath = req.CoverPath
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Publish(ctx context.Context, id, callerID uuid.UUID, privileged bool) (*Article, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	if a.AuthorID != callerID && !privileged {
		return nil, ErrNotAuthor
	}

	published, err := s.repo.Publish(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.rewarder != nil {
		if err := s.rewarder.Award(ctx, a.AuthorID, profile.ActionArticlePublished); err != nil {
			log.Warn().Err(err).Msg("reputation award failed")
		}
	}
	return published, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID, privileged bool) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrArticleNotFound
	}
	if a.AuthorID != callerID && !privileged {
		return ErrNotAuthor
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Article], error) {
	return s.repo.List(ctx, q, v)
}

func visibleToViewer(a *Article, v listing.Viewer) bool {
	switch v.Kind {
	case listing.ViewerPrivileged:
		return true
	case listing.ViewerOwner:
		return a.AuthorID == v.UserID
	default:
		return false
	}
}
