package ads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/internal/core/profile"
	"github.com/hablandodecaballos/backend/internal/core/validation"
	"github.com/hablandodecaballos/backend/internal/listing"
)

// Ads expire after this window unless renewed.
const adLifetime = 60 * 24 * time.Hour

var (
	ErrAdNotFound      = errors.New("ad not found")
	ErrNotAdOwner      = errors.New("caller does not own this ad")
	ErrInvalidCategory = errors.New("invalid ad category")
)

type Rewarder interface {
	Award(ctx context.Context, userID uuid.UUID, action string) error
}

type Service struct {
	repo      *Repository
	validator *validation.Validator
	rewarder  Rewarder
}

func NewService(repo *Repository, validator *validation.Validator, rewarder Rewarder) *Service {
	return &Service{repo: repo, validator: validator, rewarder: rewarder}
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateAdRequest) (*Ad, error) {
	schema, ok := categorySchemas[req.Category]
	if !ok {
		return nil, ErrInvalidCategory
	}
	if err := s.validator.Validate(req.Category, req.Attributes, schema); err != nil {
		return nil, err
	}

	expires := time.Now().Add(adLifetime)
	ad := &Ad{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Province:    req.Province,
		Status:      StatusActivo,
		Attributes:  req.Attributes,
		IsPublic:    true,
		ExpiresAt:   &expires,
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, err
	}

	if s.rewarder != nil {
		if err := s.rewarder.Award(ctx, ownerID, profile.ActionAdPublished); err != nil {
			log.Warn().Err(err).Msg("reputation award failed")
		}
	}
	return ad, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, v listing.Viewer) (*Ad, error) {
	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, ErrAdNotFound
	}
	if !ad.IsPublic && !ownedOrPrivileged(ad.OwnerID, v) {
		return nil, ErrAdNotFound
	}
	return ad, nil
}

// SetStatus moves an ad through its lifecycle. Paused ads drop out of
// public listings; sold and expired ads stay public for reference.
func (s *Service) SetStatus(ctx context.Context, id, callerID uuid.UUID, privileged bool, status string) (*Ad, error) {
	ad, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, ErrAdNotFound
	}
	if ad.OwnerID != callerID && !privileged {
		return nil, ErrNotAdOwner
	}

	public := status != StatusPausado
	if err := s.repo.SetStatus(ctx, id, status, public); err != nil {
		return nil, err
	}
	ad.Status = status
	ad.IsPublic = public
	return ad, nil
}

func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	return s.repo.ExpireOlderThan(ctx, time.Now())
}

func (s *Service) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Ad], error) {
	return s.repo.List(ctx, q, v)
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
