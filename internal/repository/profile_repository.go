package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"opuluxe-go/internal/model"
)

// ProfileRepository 按用户保存尺寸档案，id 相同即覆盖。
type ProfileRepository interface {
	Upsert(ctx context.Context, email string, profile *model.Profile) error
	List(ctx context.Context, email string) ([]model.Profile, error)
	Get(ctx context.Context, email string, id model.ProfileID) (*model.Profile, error)
	Delete(ctx context.Context, email string, id model.ProfileID) error
}

type redisProfileRepository struct {
	redisClient *redis.Client
}

func NewProfileRepository(redisClient *redis.Client) ProfileRepository {
	return &redisProfileRepository{redisClient: redisClient}
}

func profilesKey(email string) string {
	return fmt.Sprintf("%suser:%s:profiles", keyPrefix, email)
}

func (r *redisProfileRepository) Upsert(ctx context.Context, email string, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := r.redisClient.HSet(ctx, profilesKey(email), string(profile.ID), data).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// List 按 id 升序返回，毫秒时间戳 id 即创建顺序。
func (r *redisProfileRepository) List(ctx context.Context, email string) ([]model.Profile, error) {
	all, err := r.redisClient.HGetAll(ctx, profilesKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	profiles := make([]model.Profile, 0, len(all))
	for id, data := range all {
		var p model.Profile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile %s: %w", id, err)
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		a, b := profiles[i].ID, profiles[j].ID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return profiles, nil
}

func (r *redisProfileRepository) Get(ctx context.Context, email string, id model.ProfileID) (*model.Profile, error) {
	data, err := r.redisClient.HGet(ctx, profilesKey(email), string(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	var p model.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &p, nil
}

func (r *redisProfileRepository) Delete(ctx context.Context, email string, id model.ProfileID) error {
	if err := r.redisClient.HDel(ctx, profilesKey(email), string(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
