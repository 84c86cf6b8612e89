package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyClient caches rendered room listings. Rooms change rarely and the
// listing endpoint is the hottest read, so raw response JSON is cached and
// dropped wholesale on any room mutation.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

const roomsListKey = "rooms:list"

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb, ttl: cfg.TTL}, nil
}

// GetRoomsListRaw returns the cached listing JSON, or an error on miss.
func (v *ValkeyClient) GetRoomsListRaw(ctx context.Context) ([]byte, error) {
	raw, err := v.client.Get(ctx, roomsListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("rooms list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return raw, nil
}

func (v *ValkeyClient) SetRoomsListRaw(ctx context.Context, raw []byte) error {
	return v.client.Set(ctx, roomsListKey, raw, v.ttl).Err()
}

// InvalidateRooms drops the listing cache after a room mutation.
func (v *ValkeyClient) InvalidateRooms(ctx context.Context) error {
	return v.client.Del(ctx, roomsListKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
