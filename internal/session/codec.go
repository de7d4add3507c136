// Package session records per-set performance against the weekly
// schedule and persists it through the key-value store.
package session

import (
	"fmt"
	"strings"
)

// SetRecord is one set's recorded performance. Either side may be empty
// when the user has only filled in half the pair.
type SetRecord struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// Field selects which half of a SetRecord an edit targets.
type Field string

const (
	FieldWeight Field = "weight"
	FieldReps   Field = "reps"
)

// SetKey builds the composite exercise-set key, e.g. "lun-1-s0".
func SetKey(exerciseID string, setIndex int) string {
	return fmt.Sprintf("%s-s%d", exerciseID, setIndex)
}

// EncodeSet serializes a record to the persisted "<weight>|<reps>" form.
func EncodeSet(r SetRecord) string {
	return r.Weight + "|" + r.Reps
}

// DecodeSet parses the persisted form. Missing or malformed parts decode
// to empty strings, never an error.
func DecodeSet(raw string) SetRecord {
	parts := strings.SplitN(raw, "|", 2)
	rec := SetRecord{Weight: parts[0]}
	if len(parts) == 2 {
		rec.Reps = parts[1]
	}
	return rec
}

// DecodeAll decodes a persisted exercises map into records.
func DecodeAll(exercises map[string]string) map[string]SetRecord {
	out := make(map[string]SetRecord, len(exercises))
	for k, v := range exercises {
		out[k] = DecodeSet(v)
	}
	return out
}
