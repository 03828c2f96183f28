package slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tastybites/ordering/internal/cart/domain"
)

func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

// RedisSlot keeps each cart as a JSON array under cart:<name>. Carts are
// kept without expiry so a returning customer finds their lines intact.
type RedisSlot struct {
	client *redis.Client
}

func (r *RedisSlot) Load(ctx context.Context, name string) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, slotKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.CartLine
	if err2 := json.Unmarshal(data, &lines); err2 != nil {
		return nil, fmt.Errorf("unmarshal cart lines failed: %w", err2)
	}

	return lines, nil
}

func (r *RedisSlot) Save(ctx context.Context, name string, lines []domain.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart lines failed: %w", err)
	}

	if err := r.client.Set(ctx, slotKey(name), string(payload), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSlot) Clear(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, slotKey(name)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func slotKey(name string) string {
	return fmt.Sprintf("cart:%s", name)
}
