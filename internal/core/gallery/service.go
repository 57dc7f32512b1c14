package gallery

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/internal/core/profile"
	"github.com/hablandodecaballos/backend/internal/listing"
)

var (
	ErrAlbumNotFound = errors.New("album not found")
	ErrNotAlbumOwner = errors.New("caller does not own this album")
)

// ObjectStore is the storage collaborator: save bytes, sign download URLs.
type ObjectStore interface {
	Save(prefix, filename string, r io.Reader) (string, error)
	SignedURL(key string, ttl time.Duration) (string, error)
}

type Rewarder interface {
	Award(ctx context.Context, userID uuid.UUID, action string) error
}

type Service struct {
	repo     *Repository
	store    ObjectStore
	rewarder Rewarder
	urlTTL   time.Duration
}

func NewService(repo *Repository, store ObjectStore, rewarder Rewarder, urlTTL time.Duration) *Service {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &Service{repo: repo, store: store, rewarder: rewarder, urlTTL: urlTTL}
}

func (s *Service) CreateAlbum(ctx context.Context, ownerID uuid.UUID, req *CreateAlbumRequest) (*Album, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	a := &Album{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    isPublic,
	}
	if err := s.repo.CreateAlbum(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAlbum(ctx context.Context, id uuid.UUID, v listing.Viewer) (*Album, error) {
	a, err := s.repo.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAlbumNotFound
	}
	if !a.IsPublic && !ownedOrPrivileged(a.OwnerID, v) {
		return nil, ErrAlbumNotFound
	}
	return a, nil
}

// Upload stores the file and registers the media row; the media row copies
// the album's visibility so list queries stay single-table.
func (s *Service) Upload(ctx context.Context, albumID, callerID uuid.UUID, filename, contentType, caption string, r io.Reader) (*Media, error) {
	a, err := s.repo.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAlbumNotFound
	}
	if a.OwnerID != callerID {
		return nil, ErrNotAlbumOwner
	}

	key, err := s.store.Save("albums/"+albumID.String(), filename, r)
	if err != nil {
		return nil, err
	}

	m := &Media{
		ID:          uuid.New(),
		AlbumID:     albumID,
		OwnerID:     callerID,
		FilePath:    key,
		ContentType: contentType,
		Caption:     caption,
		IsPublic:    a.IsPublic,
	}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		return nil, err
	}

	if s.rewarder != nil {
		if err := s.rewarder.Award(ctx, callerID, profile.ActionMediaUploaded); err != nil {
			log.Warn().Err(err).Msg("reputation award failed")
		}
	}

	s.decorate(m)
	return m, nil
}

func (s *Service) ListAlbums(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Album], error) {
	return s.repo.ListAlbums(ctx, q, v)
}

// ListMedia pages media for one album and decorates the page items with
// signed URLs. Decoration is post-paging by design: it never changes which
// rows are selected or counted.
func (s *Service) ListMedia(ctx context.Context, albumID uuid.UUID, q listing.Query, v listing.Viewer) (*listing.Page[*Media], error) {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
	q.Filters["album"] = albumID.String()

	page, err := s.repo.ListMedia(ctx, q, v)
	if err != nil {
		return nil, err
	}
	for _, m := range page.Items {
		s.decorate(m)
	}
	return page, nil
}

func (s *Service) decorate(m *Media) {
	url, err := s.store.SignedURL(m.FilePath, s.urlTTL)
	if err != nil {
		log.Warn().Err(err).Str("key", m.FilePath).Msg("signing media url failed")
		return
	}
	m.URL = url
}

func ownedOrPrivileged(ownerID uuid.UUID, v listing.Viewer) bool {
	switch v.Kind {
	case listing.ViewerPrivileged:
		return true
	case listing.ViewerOwner:
		return ownerID == v.UserID
	default:
		return false
	}
}
