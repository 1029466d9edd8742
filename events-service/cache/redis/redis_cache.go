package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arunvm123/thamco-events/events-service/cache"
	"github.com/arunvm123/thamco-events/events-service/model"
	"github.com/redis/go-redis/v9"
)

const eventTypesKey = "venues:event-types"

type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(ctx context.Context, redisURL, password string, db int) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheRepository{client: client}, nil
}

func (r *RedisCacheRepository) eventKey(eventID string) string {
	return fmt.Sprintf("event:%s:details", eventID)
}

func (r *RedisCacheRepository) GetEventTypes(ctx context.Context) ([]model.EventTypeResponse, error) {
	data, err := r.client.Get(ctx, eventTypesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var types []model.EventTypeResponse
	if err := json.Unmarshal(data, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *RedisCacheRepository) SetEventTypes(ctx context.Context, types []model.EventTypeResponse, ttl time.Duration) error {
	data, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, eventTypesKey, data, ttl).Err()
}

func (r *RedisCacheRepository) GetEvent(ctx context.Context, eventID string) (*model.EventDetailResponse, error) {
	data, err := r.client.Get(ctx, r.eventKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var event model.EventDetailResponse
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *RedisCacheRepository) SetEvent(ctx context.Context, eventID string, event *model.EventDetailResponse, ttl time.Duration) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.eventKey(eventID), data, ttl).Err()
}

func (r *RedisCacheRepository) InvalidateEvent(ctx context.Context, eventID string) error {
	return r.client.Del(ctx, r.eventKey(eventID)).Err()
}

func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheRepository) Close() error {
	return r.client.Close()
}

var _ cache.CacheRepository = (*RedisCacheRepository)(nil)
