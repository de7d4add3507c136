package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/claude/massebuilder/internal/program"
	"github.com/claude/massebuilder/internal/store"
)

const (
	currentWeekKey = "currentWeek"
	startDateKey   = "programStartDate"
	dateLayout     = "2006-01-02"
)

// Workout is the persisted session for one (day, week) slot. The JSON
// shape is the wire format backup files carry, so field names are fixed.
type Workout struct {
	Date       string            `json:"date"`
	Week       int               `json:"week"`
	Day        string            `json:"day"`
	Exercises  map[string]string `json:"exercises"`
	Notes      string            `json:"notes"`
	McGillDone bool              `json:"mcGillDone"`
}

// Store reads and writes workout sessions. All mutations follow a
// read-merge-write cycle serialized by an internal lock, so two edits to
// the same session never interleave.
type Store struct {
	mu     sync.Mutex
	kv     store.KV
	log    *slog.Logger
	now    func() time.Time
	onSave func(day program.Day, week int)
}

// New creates a session store over the given KV backend.
func New(kv store.KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log, now: time.Now}
}

// OnSave registers a hook fired exactly once after every successful
// persist, whichever field changed. The shell uses it for the transient
// save confirmation.
func (s *Store) OnSave(fn func(day program.Day, week int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = fn
}

func workoutKey(day program.Day, week int) string {
	return fmt.Sprintf("workout-%s-w%d", day, week)
}

// Load returns the session for a (day, week) slot. A missing or corrupt
// stored value yields an empty default, never an error.
func (s *Store) Load(ctx context.Context, day program.Day, week int) (Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, day, week)
}

func (s *Store) load(ctx context.Context, day program.Day, week int) (Workout, error) {
	empty := Workout{Week: week, Day: string(day), Exercises: map[string]string{}}

	raw, ok, err := s.kv.Get(ctx, workoutKey(day, week))
	if err != nil {
		return empty, fmt.Errorf("loading session %s w%d: %w", day, week, err)
	}
	if !ok {
		return empty, nil
	}

	var w Workout
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		s.log.Warn("corrupt session, using empty default", "day", day, "week", week, "error", err)
		return empty, nil
	}
	if w.Exercises == nil {
		w.Exercises = map[string]string{}
	}
	w.Week = week
	w.Day = string(day)
	return w, nil
}

// LoadPrevious returns the prior week's decoded set records, or an empty
// map for week 1.
func (s *Store) LoadPrevious(ctx context.Context, day program.Day, week int) (map[string]SetRecord, error) {
	if week <= 1 {
		return map[string]SetRecord{}, nil
	}
	prev, err := s.Load(ctx, day, week-1)
	if err != nil {
		return nil, err
	}
	return DecodeAll(prev.Exercises), nil
}

// RecordSet replaces one field of one set record and persists the merged
// session. Other keys in the exercises map are untouched.
func (s *Store) RecordSet(ctx context.Context, day program.Day, week int, exerciseID string, setIndex int, field Field, value string) (Workout, error) {
	if field != FieldWeight && field != FieldReps {
		return Workout{}, fmt.Errorf("unknown set field %q", field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.load(ctx, day, week)
	if err != nil {
		return Workout{}, err
	}

	key := SetKey(exerciseID, setIndex)
	rec := DecodeSet(w.Exercises[key])
	if field == FieldWeight {
		rec.Weight = value
	} else {
		rec.Reps = value
	}
	w.Exercises[key] = EncodeSet(rec)

	if err := s.save(ctx, day, week, &w); err != nil {
		return Workout{}, err
	}
	return w, nil
}

// SetGateFlag persists the activation gate, leaving everything else in
// the session untouched.
func (s *Store) SetGateFlag(ctx context.Context, day program.Day, week int, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.load(ctx, day, week)
	if err != nil {
		return err
	}
	w.McGillDone = done
	return s.save(ctx, day, week, &w)
}

// SetNotes persists the free-text session notes.
func (s *Store) SetNotes(ctx context.Context, day program.Day, week int, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.load(ctx, day, week)
	if err != nil {
		return err
	}
	w.Notes = notes
	return s.save(ctx, day, week, &w)
}

func (s *Store) save(ctx context.Context, day program.Day, week int, w *Workout) error {
	w.Date = s.now().Format(dateLayout)
	w.Week = week
	w.Day = string(day)

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.kv.Set(ctx, workoutKey(day, week), string(data)); err != nil {
		return fmt.Errorf("persisting session %s w%d: %w", day, week, err)
	}
	if s.onSave != nil {
		s.onSave(day, week)
	}
	return nil
}

// CurrentWeek returns the last-viewed week. On first run it derives the
// week from the program start date (set to today if absent) and persists
// both.
func (s *Store) CurrentWeek(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, currentWeekKey)
	if err != nil {
		return 0, fmt.Errorf("loading current week: %w", err)
	}
	if ok {
		if w, err := strconv.Atoi(raw); err == nil && w >= 1 {
			return w, nil
		}
		s.log.Warn("malformed current week, rederiving", "value", raw)
	}

	start, err := s.ensureStartDate(ctx)
	if err != nil {
		return 0, err
	}
	week := program.WeekForDate(start, s.now())
	if err := s.kv.Set(ctx, currentWeekKey, strconv.Itoa(week)); err != nil {
		return 0, fmt.Errorf("persisting current week: %w", err)
	}
	return week, nil
}

// SwitchWeek moves the current-week pointer by delta, clamped to a
// minimum of 1, and persists the new value.
func (s *Store) SwitchWeek(ctx context.Context, delta int) (int, error) {
	week, err := s.CurrentWeek(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	week += delta
	if week < 1 {
		week = 1
	}
	if err := s.kv.Set(ctx, currentWeekKey, strconv.Itoa(week)); err != nil {
		return 0, fmt.Errorf("persisting current week: %w", err)
	}
	return week, nil
}

// ensureStartDate reads the program start date, setting it to today on
// first run.
func (s *Store) ensureStartDate(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.kv.Get(ctx, startDateKey)
	if err != nil {
		return time.Time{}, fmt.Errorf("loading start date: %w", err)
	}
	if ok {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			return t, nil
		}
		s.log.Warn("malformed start date, resetting", "value", raw)
	}

	today := s.now()
	if err := s.kv.Set(ctx, startDateKey, today.Format(dateLayout)); err != nil {
		return time.Time{}, fmt.Errorf("persisting start date: %w", err)
	}
	return today, nil
}
