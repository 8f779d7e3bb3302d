package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

const keyPrefix = "wizard:session:"

// Store хранилище сессий мастера в Redis
// Каждая сессия - JSON под ключом wizard:session:<id> с TTL
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStore создает хранилище сессий
func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Save сохраняет состояние и продлевает TTL
func (s *Store) Save(ctx context.Context, state *wizard.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal: %v", ErrEncode, err)
	}

	if err := s.client.Set(ctx, key(state.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set: %v", ErrRedis, err)
	}
	return nil
}

// Get загружает состояние сессии
func (s *Store) Get(ctx context.Context, id string) (*wizard.State, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get: %v", ErrRedis, err)
	}

	var state wizard.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %v", ErrDecode, err)
	}
	return &state, nil
}

// Delete удаляет сессию
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del: %v", ErrRedis, err)
	}
	return nil
}

func key(id string) string {
	return keyPrefix + id
}
