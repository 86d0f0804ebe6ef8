package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GauravB09/Diligence-Squared-Assignment/internal/model"
)

// SessionCache is a read cache for user sessions, keyed by user id.
// Writers must Delete after every session mutation.
type SessionCache interface {
	Set(ctx context.Context, session *model.UserSession) error
	Get(ctx context.Context, userID string) (*model.UserSession, error)
	Delete(ctx context.Context, userID string) error
}

type sessionCache struct {
	client *redis.Client
}

// NewSessionCache creates a new Redis-backed session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+session.UserID, data, 10*time.Minute).Err()
}

func (c *sessionCache) Get(ctx context.Context, userID string) (*model.UserSession, error) {
	data, err := c.client.Get(ctx, "session:"+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "session:"+userID).Err()
}
