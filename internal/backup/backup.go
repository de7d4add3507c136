// Package backup serializes the entire persisted store to a single JSON
// object and restores it from one.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPayload marks a backup file that failed to parse. The store
// is untouched when ImportAll returns it.
var ErrInvalidPayload = errors.New("invalid backup payload")

// KV is the slice of the store backup needs.
type KV interface {
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

// Service exports and imports full store snapshots.
type Service struct {
	kv KV
}

// New creates a backup service over the given store.
func New(kv KV) *Service {
	return &Service{kv: kv}
}

// ExportAll serializes every persisted key and value as one JSON object,
// byte-for-byte what ImportAll expects.
func (s *Service) ExportAll(ctx context.Context) ([]byte, error) {
	all, err := s.kv.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}
	data, err := json.Marshal(all)
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Filename returns the download name for an export taken now.
func Filename(now time.Time) string {
	return fmt.Sprintf("MasseBuilder_%s.json", now.Format("2006-01-02"))
}

// ImportAll restores a snapshot: each key/value overwrites or adds the
// corresponding store entry. A payload that fails to parse leaves the
// store untouched. Returns the number of keys restored.
func (s *Service) ImportAll(ctx context.Context, payload []byte) (int, error) {
	var entries map[string]string
	if err := json.Unmarshal(payload, &entries); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	count := 0
	for k, v := range entries {
		if err := s.kv.Set(ctx, k, v); err != nil {
			return count, fmt.Errorf("restoring key %q: %w", k, err)
		}
		count++
	}
	return count, nil
}
