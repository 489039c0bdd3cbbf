package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/domain"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/redis/go-redis/v9"
)

// Redis keeps scanned products as a JSON list under one key.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// RedisOptions configures the connection and the list key.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
	// TTL is refreshed on every Add; zero keeps the list forever.
	TTL time.Duration
}

// NewRedis connects to Redis and checks the connection
func NewRedis(ctx context.Context, opts RedisOptions, logger *slog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, opts.Key, opts.TTL, logger), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) *Redis {
	if key == "" {
		key = "scanned_products"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, key: key, ttl: ttl, logger: logger}
}

var _ domain.ScannedStaging = (*Redis)(nil)

func (r *Redis) Add(ctx context.Context, product domain.ScannedProduct) error {
	data, err := json.Marshal(product)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return wrapRedis(err, "add")
	}
	return nil
}

func (r *Redis) All(ctx context.Context) ([]domain.ScannedProduct, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, wrapRedis(err, "list")
	}
	return r.decode(ctx, values), nil
}

// First returns the oldest staged product, or nil when the list is empty.
func (r *Redis) First(ctx context.Context) (*domain.ScannedProduct, error) {
	value, err := r.client.LIndex(ctx, r.key, 0).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapRedis(err, "first")
	}
	products := r.decode(ctx, []string{value})
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// Drain reads and deletes the list in one MULTI/EXEC block.
func (r *Redis) Drain(ctx context.Context) ([]domain.ScannedProduct, error) {
	var values *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.LRange(ctx, r.key, 0, -1)
		pipe.Del(ctx, r.key)
		return nil
	})
	if err != nil {
		return nil, wrapRedis(err, "drain")
	}
	return r.decode(ctx, values.Val()), nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return wrapRedis(err, "clear")
	}
	return nil
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) decode(ctx context.Context, values []string) []domain.ScannedProduct {
	products := make([]domain.ScannedProduct, 0, len(values))
	for _, v := range values {
		var p domain.ScannedProduct
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			r.logger.WarnContext(ctx, "Skipping undecodable staged product", "key", r.key, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products
}

func wrapRedis(err error, op string) error {
	return apperrors.NewExternalAPIError(err, "redis").WithContext("operation", op)
}
