package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"

	"github.com/redis/go-redis/v9"
)

// NewCache connects a Redis client and verifies it with a ping.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// sessionTTL bounds abandoned wizard sessions.
const sessionTTL = 24 * time.Hour

// SessionCache is the Redis-backed session store. Each session is one JSON
// value, so a save is atomic.
type SessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func sessionKey(id string) string { return fmt.Sprintf("wizard:session:%s", id) }

func (c *SessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	session := &model.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (c *SessionCache) Save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(session.ID), data, sessionTTL).Err()
}

func (c *SessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}
