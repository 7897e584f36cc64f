package team

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNameRequired = errors.New("team name required")
	ErrTeamExists   = errors.New("team already exists")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the full catalog ordered by name.
func (s *Service) List(ctx context.Context) ([]Team, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, name, badge string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	t := &Team{Name: name, Badge: strings.TrimSpace(badge)}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
