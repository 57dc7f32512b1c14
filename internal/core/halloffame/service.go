package halloffame

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hablandodecaballos/backend/internal/core/profile"
	"github.com/hablandodecaballos/backend/internal/listing"
)

var (
	ErrHorseNotFound = errors.New("horse not found")
	ErrAlreadyVoted  = errors.New("user already voted for this horse")
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

func (s *Service) Nominate(ctx context.Context, userID uuid.UUID, req *NominateRequest) (*Horse, error) {
	h := &Horse{
		ID:          uuid.New(),
		Name:        req.Name,
		Breed:       req.Breed,
		Discipline:  req.Discipline,
		Description: req.Description,
		PhotoPath:   req.PhotoPath,
		Status:      StatusNominado,
		NominatedBy: userID,
	}
	if err := s.repo.CreateHorse(ctx, h); err != nil {
		return nil, err
	}

	s.award(ctx, userID, profile.ActionNominationCreated)
	return h, nil
}

func (s *Service) GetHorse(ctx context.Context, id uuid.UUID) (*Horse, error) {
	h, err := s.repo.GetHorse(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, ErrHorseNotFound
	}
	return h, nil
}

// Vote casts one vote per user per horse. Crossing the consecration
// threshold flips the status and rewards the nominator.
func (s *Service) Vote(ctx context.Context, horseID, userID uuid.UUID) (*Horse, error) {
	h, err := s.GetHorse(ctx, horseID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.AddVote(ctx, horseID, userID)
	if err != nil {
		if errors.Is(err, ErrDuplicateVote) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}
	h.VoteCount = count

	s.award(ctx, h.NominatedBy, profile.ActionVoteReceived)

	if count >= ConsecrationVotes && h.Status == StatusNominado {
		if err := s.repo.SetStatus(ctx, horseID, StatusConsagrado); err != nil {
			return nil, err
		}
		h.Status = StatusConsagrado
	}
	return h, nil
}

func (s *Service) List(ctx context.Context, q listing.Query, v listing.Viewer) (*listing.Page[*Horse], error) {
	return s.repo.List(ctx, q, v)
}

func (s *Service) award(ctx context.Context, userID uuid.UUID, action string) {
	if s.rewarder == nil {
		return
	}
	if err := s.rewarder.Award(ctx, userID, action); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("reputation award failed")
	}
}
