package service

import (
	"context"
	"errors"

	"opuluxe-go/internal/model"
	"opuluxe-go/internal/repository"
)

// ProfileService 管理用户的尺寸档案。
type ProfileService interface {
	Save(ctx context.Context, email string, profile *model.Profile) error
	List(ctx context.Context, email string) ([]model.Profile, error)
	Get(ctx context.Context, email string, id model.ProfileID) (*model.Profile, error)
	Delete(ctx context.Context, email string, id model.ProfileID) error
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// Save 以 id 为键插入或整体替换。
func (s *profileService) Save(ctx context.Context, email string, profile *model.Profile) error {
	if profile == nil || profile.ID == "" {
		return ErrInvalidProfile
	}
	if profile.Measurements == nil {
		profile.Measurements = map[string]string{}
	}
	return s.repo.Upsert(ctx, email, profile)
}

func (s *profileService) List(ctx context.Context, email string) ([]model.Profile, error) {
	return s.repo.List(ctx, email)
}

func (s *profileService) Get(ctx context.Context, email string, id model.ProfileID) (*model.Profile, error) {
	p, err := s.repo.Get(ctx, email, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *profileService) Delete(ctx context.Context, email string, id model.ProfileID) error {
	if id == "" {
		return ErrInvalidProfile
	}
	return s.repo.Delete(ctx, email, id)
}
