package store

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisStore) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Watch calls fn with the unprefixed key whenever one of keys is written by
// anyone, this process included. It plays the role of the browser `storage`
// event. The returned func closes the subscription.
func (r *RedisStore) Watch(ctx context.Context, keys []string, fn func(key string)) (func() error, error) {
	// Managed instances often refuse CONFIG SET; notifications may already be on.
	if err := r.client.ConfigSet(ctx, "notify-keyspace-events", "K$g").Err(); err != nil {
		log.Printf("[redis] Could not enable keyspace notifications: %s\n", err.Error())
	}
	channels := make([]string, 0, len(keys))
	for _, k := range keys {
		channels = append(channels, "__keyspace@*__:"+r.key(k))
	}
	pubsub := r.client.PSubscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	go func() {
		for msg := range pubsub.Channel() {
			idx := strings.Index(msg.Channel, "__:")
			if idx < 0 {
				continue
			}
			key := strings.TrimPrefix(msg.Channel[idx+3:], r.prefix)
			fn(key)
		}
	}()
	return pubsub.Close, nil
}
