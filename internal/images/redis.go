package images

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each image in a hash holding its content type and bytes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore parses redisURL and checks the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "image:",
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Put(ctx context.Context, image Image) error {
	err := s.client.HSet(ctx, s.key(image.ID), map[string]any{
		"content_type": image.ContentType,
		"data":         image.Data,
	}).Err()
	if err != nil {
		return fmt.Errorf("put image %s: %w", image.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Image, error) {
	values, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Image{}, fmt.Errorf("get image %s: %w", id, err)
	}
	if len(values) == 0 {
		return Image{}, ErrNotFound
	}
	return Image{
		ID:          id,
		ContentType: values["content_type"],
		Data:        []byte(values["data"]),
	}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
