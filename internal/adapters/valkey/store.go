package valkey

import (
	"context"

	"github.com/valkey-io/valkey-go"
)

// Store implements ports.CacheStore using Valkey (Redis-compatible).
// Geocode cache maps persist without expiry: the offline geocoding they
// memoize is static, so entries never go stale.
type Store struct {
	client valkey.Client
}

// New creates a new Valkey-backed store.
func New(addr string) (*Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

// Get retrieves a value by key. A missing key returns (nil, nil);
// absence is not an error for cache consumers.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.client.Do(ctx, s.client.B().Get().Key(key).Build())
	if err := cmd.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return cmd.AsBytes()
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Do(ctx,
		s.client.B().Set().Key(key).Value(string(value)).Build(),
	).Error()
}

// Remove deletes a key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error()
}

// Close releases the client.
func (s *Store) Close() {
	s.client.Close()
}
