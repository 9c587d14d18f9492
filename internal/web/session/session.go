// Package session keeps revoked token ids in a fiber storage backend.
package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const keyPrefix = "revoked:"

// ErrEmptyTokenID is returned when a token without id is revoked or checked.
var ErrEmptyTokenID = errors.New("token id is empty")

// Store records token ids revoked by logout. Entries expire with the token they revoke.
type Store struct {
	storage fiber.Storage
}

// New wraps a storage backend. A nil storage falls back to the in-memory store of the fiber session middleware.
func New(storage fiber.Storage) *Store {
	return &Store{
		storage: session.New(session.Config{
			Storage: storage,
		}).Storage,
	}
}

// Revoke marks the token id as revoked until expiresAt.
// Tokens that already expired are not stored.
func (s *Store) Revoke(tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrEmptyTokenID
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return s.storage.Set(keyPrefix+tokenID, []byte{1}, ttl)
}

// IsRevoked reports whether the token id was revoked.
func (s *Store) IsRevoked(tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrEmptyTokenID
	}

	val, err := s.storage.Get(keyPrefix + tokenID)
	if err != nil {
		return false, err
	}

	return len(val) > 0, nil
}

// Close releases the storage backend.
func (s *Store) Close() error {
	return s.storage.Close()
}
