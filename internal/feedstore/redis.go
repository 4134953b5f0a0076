package feedstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "kaiz1:feed:"

// RedisStore はセッションを JSON で Redis に保存する Store
// 複数インスタンス構成ではこちらを使う。
type RedisStore struct {
	rdb       goredis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore は rdb を使う RedisStore を返します。
func NewRedisStore(rdb goredis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, keyPrefix: defaultKeyPrefix, ttl: ttl}
}

// Dial は addr に接続して疎通確認したクライアントを返します。
func Dial(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (r *RedisStore) key(userID uuid.UUID) string {
	return r.keyPrefix + userID.String()
}

func (r *RedisStore) Get(ctx context.Context, userID uuid.UUID) (*model.FeedSession, error) {
	raw, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("RedisStore.Get: %w", err)
	}
	var s model.FeedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("RedisStore.Get: decode session: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, session *model.FeedSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("RedisStore.Save: encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(session.UserID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("RedisStore.Save: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.rdb.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("RedisStore.Delete: %w", err)
	}
	return nil
}
