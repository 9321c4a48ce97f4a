package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrPasswordMismatch is returned by Compare when the password does not match the hash.
var ErrPasswordMismatch = errors.New("password does not match")

// Hasher hashes and verifies passwords with bcrypt. At most `workers` hashing
// operations run at once; callers beyond that wait for a slot or their context.
type Hasher struct {
	cost  int
	slots *semaphore.Weighted
}

func NewHasher(cost, workers int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	cost = min(max(cost, bcrypt.MinCost), bcrypt.MaxCost)
	if workers <= 0 {
		workers = 1
	}
	return &Hasher{cost: cost, slots: semaphore.NewWeighted(int64(workers))}
}

// Hash returns the bcrypt hash of password, suitable for storage.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.slots.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns nil when password matches hash and ErrPasswordMismatch when it does not.
func (h *Hasher) Compare(ctx context.Context, hash, password string) error {
	if err := h.acquire(ctx); err != nil {
		return err
	}
	defer h.slots.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

func (h *Hasher) acquire(ctx context.Context) error {
	// Acquire may succeed on a done context when a slot is free.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for hash worker: %w", err)
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for hash worker: %w", err)
	}
	return nil
}
