package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HavvokLab/solix-setup/model"
	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "solix:session:"

type SessionCacheRepo interface {
	GetSession(ctx context.Context, username string) (*model.LoginSession, error)
	SetSession(ctx context.Context, username string, session *model.LoginSession, ttl time.Duration) error
}

type sessionCacheRepo struct {
	rdb *redis.Client
}

func NewSessionCacheRepo(rdb *redis.Client) SessionCacheRepo {
	return &sessionCacheRepo{rdb: rdb}
}

func sessionKey(username string) string {
	return sessionKeyPrefix + model.UniqueID(username)
}

// GetSession returns nil without error when no session is cached.
func (r *sessionCacheRepo) GetSession(ctx context.Context, username string) (*model.LoginSession, error) {
	val, err := r.rdb.Get(ctx, sessionKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session model.LoginSession
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("decode cached session: %w", err)
	}

	return &session, nil
}

func (r *sessionCacheRepo) SetSession(ctx context.Context, username string, session *model.LoginSession, ttl time.Duration) error {
	val, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, sessionKey(username), val, ttl).Err()
}
