package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fadilmartias/resume-screener/internal/cache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "embedding:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(opts cache.Options) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisURL,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	return NewWithClient(client, opts.DefaultTTL)
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = cache.DefaultOptions().DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Get(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, cache.ErrInvalidKey
	}
	val, err := c.client.Get(ctx, keyPrefix+cache.Key(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeVector(val)
}

func (c *Cache) Set(ctx context.Context, text string, vector []float32) error {
	if text == "" {
		return cache.ErrInvalidKey
	}
	return c.client.Set(ctx, keyPrefix+cache.Key(text), EncodeVector(vector), c.ttl).Err()
}

// Clear removes only embedding keys; the database may be shared.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// EncodeVector packs a vector as little-endian float32 values.
func EncodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func DecodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt embedding payload of %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
