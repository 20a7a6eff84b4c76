package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
}

type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
}

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

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: "admin:auth",
	}, nil
}

// GetUserIDByAuth looks up a cached admin credential pair and returns the
// user id if the pair is known
func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userID, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	return userID, nil
}

// CacheUserAuth stores a verified admin credential pair for subsequent requests
func (v *ValkeyClient) CacheUserAuth(ctx context.Context, email, passwordHash string, userID int64) error {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	return v.client.HSet(ctx, v.usersHashKey, cacheKey, userID).Err()
}

// SetShareToken maps a share-link token to a booking reference with a TTL
func (v *ValkeyClient) SetShareToken(ctx context.Context, token, reference string, ttl time.Duration) error {
	return v.client.Set(ctx, shareKey(token), reference, ttl).Err()
}

// GetShareToken resolves a share-link token to a booking reference.
// Returns an empty string when the token is unknown or expired.
func (v *ValkeyClient) GetShareToken(ctx context.Context, token string) (string, error) {
	reference, err := v.client.Get(ctx, shareKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("cache lookup error: %w", err)
	}
	return reference, nil
}

func shareKey(token string) string {
	return "share:" + token
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
