// Package overload implements the progressive-overload comparison: this
// week's reps against last week's (or the baseline table), plus session
// volume totals.
package overload

import (
	"strconv"

	"github.com/claude/massebuilder/internal/program"
	"github.com/claude/massebuilder/internal/session"
)

// Status classifies one set against its reference.
type Status string

const (
	StatusNone      Status = "none"
	StatusImproved  Status = "improved"
	StatusEqual     Status = "equal"
	StatusRegressed Status = "regressed"
)

// Classify compares current reps against the reference reps. Empty or
// non-numeric current input is "none"; a missing or non-numeric
// reference counts as 0. The comparison is exact, reps only.
func Classify(currentReps, referenceReps string) Status {
	if currentReps == "" {
		return StatusNone
	}
	curr, err := strconv.Atoi(currentReps)
	if err != nil {
		return StatusNone
	}

	ref, err := strconv.Atoi(referenceReps)
	if err != nil {
		ref = 0
	}

	switch {
	case curr > ref:
		return StatusImproved
	case curr == ref:
		return StatusEqual
	default:
		return StatusRegressed
	}
}

// Reference is the target shown for a set: last week's record, the
// baseline entry, or empty when neither exists.
type Reference struct {
	Weight string `json:"weight"`
	Reps   string `json:"reps"`
}

// ResolveReference picks the target for one set: the previous week's
// record if present, else the exercise's baseline entry.
func ResolveReference(prev map[string]session.SetRecord, exerciseID string, setIndex int) Reference {
	if rec, ok := prev[session.SetKey(exerciseID, setIndex)]; ok {
		return Reference{Weight: rec.Weight, Reps: rec.Reps}
	}

	base, ok := program.BaselineFor(exerciseID)
	if !ok {
		return Reference{}
	}
	ref := Reference{Reps: strconv.Itoa(base.Reps)}
	if base.Weight != nil {
		ref.Weight = strconv.FormatFloat(*base.Weight, 'f', -1, 64)
	}
	return ref
}

// TotalVolume sums weight*reps over every set record where both halves
// are present and numeric. Incomplete or malformed records contribute
// zero.
func TotalVolume(exercises map[string]string) float64 {
	var vol float64
	for _, raw := range exercises {
		rec := session.DecodeSet(raw)
		if rec.Weight == "" || rec.Reps == "" {
			continue
		}
		w, errW := strconv.ParseFloat(rec.Weight, 64)
		r, errR := strconv.ParseFloat(rec.Reps, 64)
		if errW != nil || errR != nil {
			continue
		}
		vol += w * r
	}
	return vol
}
