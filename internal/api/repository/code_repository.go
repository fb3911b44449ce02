package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCodeNotFound = errors.New("confirmation code not found or expired")
	ErrCodeMismatch = errors.New("confirmation code does not match")
)

// ConfirmationCodeStore keeps one-time confirmation codes, hashed and
// expiring. A code proves email ownership exactly once: Consume removes it
// on a successful match.
type ConfirmationCodeStore interface {
	Store(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email, code string) error
}

type redisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewConfirmationCodeStore(client *redis.Client, ttl time.Duration) ConfirmationCodeStore {
	return &redisCodeStore{client: client, ttl: ttl}
}

func codeKey(email string) string {
	return fmt.Sprintf("confcode:%s", email)
}

// Store hashes the code and sets it under the email's key with the TTL.
// A re-registration overwrites the previous code.
func (s *redisCodeStore) Store(ctx context.Context, email, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.client.Set(ctx, codeKey(email), string(hash), s.ttl).Err(); err != nil {
		return fmt.Errorf("store confirmation code: %w", err)
	}
	return nil
}

func (s *redisCodeStore) Consume(ctx context.Context, email, code string) error {
	hash, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("load confirmation code: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrCodeMismatch
	}

	// One-time credential: gone after a successful exchange.
	if err := s.client.Del(ctx, codeKey(email)).Err(); err != nil {
		return fmt.Errorf("consume confirmation code: %w", err)
	}
	return nil
}
