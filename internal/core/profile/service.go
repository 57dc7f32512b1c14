package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

// Badges awarded when a user first reaches a level.
var levelBadges = map[int]string{
	2: "jinete",
	3: "domador",
	4: "criador",
	5: "leyenda",
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	if err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// Award credits the action's points, recomputes the level and hands out
// level badges. Unknown actions award nothing.
func (s *Service) Award(ctx context.Context, userID uuid.UUID, action string) error {
	points, ok := actionPoints[action]
	if !ok {
		return nil
	}

	total, err := s.repo.AddReputation(ctx, userID, points)
	if err != nil {
		return err
	}

	level := LevelForReputation(total)
	if err := s.repo.SetLevel(ctx, userID, level); err != nil {
		return err
	}

	if code, ok := levelBadges[level]; ok {
		return s.repo.AwardBadge(ctx, userID, code)
	}
	return nil
}
