// Package progress stores body measurements and progress photos,
// independent of the weekly session data.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/massebuilder/internal/store"
)

const profileKey = "mb_progress"

// Profile is the single measurements record. Field names are the wire
// format backup files carry.
type Profile struct {
	Weight string            `json:"poids"`
	Height string            `json:"taille"`
	Waist  string            `json:"waist"`
	Photos map[string]string `json:"photos"`
}

// Measurement fields accepted by SetMeasurement.
const (
	FieldWeight = "poids"
	FieldHeight = "taille"
	FieldWaist  = "waist"
)

// Log reads and writes the progress profile through the KV store.
type Log struct {
	mu  sync.Mutex
	kv  store.KV
	log *slog.Logger
}

// New creates a progress log over the given KV backend.
func New(kv store.KV, log *slog.Logger) *Log {
	return &Log{kv: kv, log: log}
}

// Get returns the stored profile, or an empty default when absent or
// corrupt.
func (l *Log) Get(ctx context.Context) (Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(ctx)
}

func (l *Log) get(ctx context.Context) (Profile, error) {
	empty := Profile{Photos: map[string]string{}}

	raw, ok, err := l.kv.Get(ctx, profileKey)
	if err != nil {
		return empty, fmt.Errorf("loading progress profile: %w", err)
	}
	if !ok {
		return empty, nil
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		l.log.Warn("corrupt progress profile, using empty default", "error", err)
		return empty, nil
	}
	if p.Photos == nil {
		p.Photos = map[string]string{}
	}
	return p, nil
}

// SetMeasurement merges one measurement field into the profile and
// persists it.
func (l *Log) SetMeasurement(ctx context.Context, field, value string) (Profile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.get(ctx)
	if err != nil {
		return Profile{}, err
	}

	switch field {
	case FieldWeight:
		p.Weight = value
	case FieldHeight:
		p.Height = value
	case FieldWaist:
		p.Waist = value
	default:
		return Profile{}, fmt.Errorf("unknown measurement field %q", field)
	}

	if err := l.save(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// AddPhoto stores a compressed photo under a calendar date. One photo
// per date; re-uploading overwrites.
func (l *Log) AddPhoto(ctx context.Context, date, encoded string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.get(ctx)
	if err != nil {
		return err
	}
	p.Photos[date] = encoded
	return l.save(ctx, p)
}

func (l *Log) save(ctx context.Context, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding progress profile: %w", err)
	}
	if err := l.kv.Set(ctx, profileKey, string(data)); err != nil {
		return fmt.Errorf("persisting progress profile: %w", err)
	}
	return nil
}
