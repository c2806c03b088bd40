package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the direct-connection Redis backend. Upstash REST
// stays the default for serverless deployments; this backend is for
// self-hosted Redis reachable over TCP.
type RedisConfig struct {
	Addr      string        `envconfig:"ADDR" split_words:"true" required:"true"`
	Password  string        `envconfig:"PASSWORD" split_words:"true"`
	DB        int           `envconfig:"DB" split_words:"true" default:"0"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true"`
	TTL       time.Duration `envconfig:"TTL" split_words:"true" default:"0"`
}

// RedisStore persists profiles in Redis over a live connection.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("ttl must be >= 0")
	}

	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultStoreKeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client:    client,
		keyPrefix: prefix,
		ttl:       cfg.TTL,
	}, nil
}

func (s *RedisStore) Load(ctx context.Context, contactKey string) (*Profile, error) {
	key, err := s.redisKey(contactKey)
	if err != nil {
		return nil, err
	}

	payload, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var p Profile
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile loaded from store: %w", err)
	}

	return &p, nil
}

func (s *RedisStore) Save(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	} else {
		p.UpdatedAt = p.UpdatedAt.UTC()
	}

	key, err := s.redisKey(p.ContactKey)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, contactKey string) error {
	key, err := s.redisKey(contactKey)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) redisKey(contactKey string) (string, error) {
	if strings.TrimSpace(contactKey) == "" {
		return "", ErrInvalidContactKey
	}
	return s.keyPrefix + strings.TrimSpace(contactKey), nil
}
