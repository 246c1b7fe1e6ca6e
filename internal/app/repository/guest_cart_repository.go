package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// guestCartTTL keeps abandoned guest carts for 30 days.
const guestCartTTL = 30 * 24 * time.Hour

// migrationMarkerTTL bounds how long a finished migration marker lives.
const migrationMarkerTTL = 24 * time.Hour

// GuestCartStore holds carts for visitors who have not signed in,
// keyed by their guest token.
type GuestCartStore interface {
	Get(ctx context.Context, token string) ([]model.GuestCartLine, error)
	Upsert(ctx context.Context, token string, line model.GuestCartLine) ([]model.GuestCartLine, error)
	SetQuantity(ctx context.Context, token string, productID, unitID uint, quantity int) ([]model.GuestCartLine, error)
	Remove(ctx context.Context, token string, productID, unitID uint) ([]model.GuestCartLine, error)
	Clear(ctx context.Context, token string) error
	// AcquireMigration marks the token as migrated. It returns true
	// exactly once per token, so concurrent migrations collapse into
	// one.
	AcquireMigration(ctx context.Context, token string) (bool, error)
}

type redisGuestCartStore struct {
	client *redis.Client
}

func NewRedisGuestCartStore(client *redis.Client) GuestCartStore {
	return &redisGuestCartStore{client: client}
}

func guestCartKey(token string) string {
	return fmt.Sprintf("guest_cart:%s", token)
}

func migrationKey(token string) string {
	return fmt.Sprintf("guest_cart_migrated:%s", token)
}

func (s *redisGuestCartStore) load(ctx context.Context, token string) ([]model.GuestCartLine, error) {
	raw, err := s.client.Get(ctx, guestCartKey(token)).Result()
	if err == redis.Nil {
		return []model.GuestCartLine{}, nil
	}
	if err != nil {
		logger.Error("Failed to load guest cart from redis", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}

	var lines []model.GuestCartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		logger.Error("Failed to decode guest cart payload", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}
	return lines, nil
}

func (s *redisGuestCartStore) save(ctx context.Context, token string, lines []model.GuestCartLine) error {
	if len(lines) == 0 {
		return s.client.Del(ctx, guestCartKey(token)).Err()
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, guestCartKey(token), payload, guestCartTTL).Err()
}

func (s *redisGuestCartStore) Get(ctx context.Context, token string) ([]model.GuestCartLine, error) {
	logger.Debug("Loading guest cart", map[string]interface{}{
		"token": token,
	})
	return s.load(ctx, token)
}

func (s *redisGuestCartStore) Upsert(ctx context.Context, token string, line model.GuestCartLine) ([]model.GuestCartLine, error) {
	logger.Debug("Upserting guest cart line", map[string]interface{}{
		"token":      token,
		"product_id": line.ProductID,
		"unit_id":    line.UnitID,
		"quantity":   line.Quantity,
	})

	lines, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	lines = upsertLine(lines, line)
	if err := s.save(ctx, token, lines); err != nil {
		logger.Error("Failed to save guest cart to redis", err, map[string]interface{}{
			"token": token,
		})
		return nil, err
	}
	return lines, nil
}

func (s *redisGuestCartStore) SetQuantity(ctx context.Context, token string, productID, unitID uint, quantity int) ([]model.GuestCartLine, error) {
	logger.Debug("Setting guest cart line quantity", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"unit_id":    unitID,
		"quantity":   quantity,
	})

	lines, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	lines = setLineQuantity(lines, productID, unitID, quantity)
	if err := s.save(ctx, token, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *redisGuestCartStore) Remove(ctx context.Context, token string, productID, unitID uint) ([]model.GuestCartLine, error) {
	logger.Debug("Removing guest cart line", map[string]interface{}{
		"token":      token,
		"product_id": productID,
		"unit_id":    unitID,
	})

	lines, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	lines = removeLine(lines, productID, unitID)
	if err := s.save(ctx, token, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *redisGuestCartStore) Clear(ctx context.Context, token string) error {
	logger.Debug("Clearing guest cart", map[string]interface{}{
		"token": token,
	})
	return s.client.Del(ctx, guestCartKey(token)).Err()
}

func (s *redisGuestCartStore) AcquireMigration(ctx context.Context, token string) (bool, error) {
	acquired, err := s.client.SetNX(ctx, migrationKey(token), "done", migrationMarkerTTL).Result()
	if err != nil {
		logger.Error("Failed to acquire guest cart migration marker", err, map[string]interface{}{
			"token": token,
		})
		return false, err
	}
	return acquired, nil
}

// memoryGuestCartStore is an in-memory GuestCartStore used in tests and
// when redis is not configured.
type memoryGuestCartStore struct {
	mu       sync.Mutex
	carts    map[string][]model.GuestCartLine
	migrated map[string]bool
}

func NewMemoryGuestCartStore() GuestCartStore {
	return &memoryGuestCartStore{
		carts:    make(map[string][]model.GuestCartLine),
		migrated: make(map[string]bool),
	}
}

func (s *memoryGuestCartStore) Get(ctx context.Context, token string) ([]model.GuestCartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.carts[token]), nil
}

func (s *memoryGuestCartStore) Upsert(ctx context.Context, token string, line model.GuestCartLine) ([]model.GuestCartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[token] = upsertLine(s.carts[token], line)
	return copyLines(s.carts[token]), nil
}

func (s *memoryGuestCartStore) SetQuantity(ctx context.Context, token string, productID, unitID uint, quantity int) ([]model.GuestCartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[token] = setLineQuantity(s.carts[token], productID, unitID, quantity)
	return copyLines(s.carts[token]), nil
}

func (s *memoryGuestCartStore) Remove(ctx context.Context, token string, productID, unitID uint) ([]model.GuestCartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[token] = removeLine(s.carts[token], productID, unitID)
	return copyLines(s.carts[token]), nil
}

func (s *memoryGuestCartStore) Clear(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
	return nil
}

func (s *memoryGuestCartStore) AcquireMigration(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.migrated[token] {
		return false, nil
	}
	s.migrated[token] = true
	return true, nil
}

func upsertLine(lines []model.GuestCartLine, line model.GuestCartLine) []model.GuestCartLine {
	for i := range lines {
		if lines[i].ProductID == line.ProductID && lines[i].UnitID == line.UnitID {
			lines[i].Quantity += line.Quantity
			lines[i].SelectedUnit = line.SelectedUnit
			return lines
		}
	}
	return append(lines, line)
}

func setLineQuantity(lines []model.GuestCartLine, productID, unitID uint, quantity int) []model.GuestCartLine {
	if quantity <= 0 {
		return removeLine(lines, productID, unitID)
	}
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].UnitID == unitID {
			lines[i].Quantity = quantity
			return lines
		}
	}
	return lines
}

func removeLine(lines []model.GuestCartLine, productID, unitID uint) []model.GuestCartLine {
	result := lines[:0]
	for _, l := range lines {
		if l.ProductID == productID && l.UnitID == unitID {
			continue
		}
		result = append(result, l)
	}
	return result
}

func copyLines(lines []model.GuestCartLine) []model.GuestCartLine {
	out := make([]model.GuestCartLine, len(lines))
	copy(out, lines)
	return out
}
