// Package program holds the fixed multi-week training plan. The plan and
// baseline table are build-time constants; nothing here mutates.
package program

// Day identifies a tab in the weekly schedule. Training days carry an
// exercise list; progression is the measurements/backup view.
type Day string

const (
	Lundi       Day = "lundi"
	Mercredi    Day = "mercredi"
	Vendredi    Day = "vendredi"
	Progression Day = "progression"
)

// Exercise is one entry in a training day's list.
type Exercise struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Sets         int    `json:"sets"`
	TargetReps   int    `json:"targetReps"`
	RestTime     int    `json:"restTime,omitempty"` // seconds, auto-starts the rest timer
	Tempo        string `json:"tempo,omitempty"`
	VideoID      string `json:"videoId,omitempty"`
	Alternative  string `json:"alternative,omitempty"`
	IsRappel     bool   `json:"isRappel,omitempty"`
	IsUnilateral bool   `json:"isUnilateral,omitempty"`
}

// BaselineEntry is the fallback target for week 1, when no prior-week
// record exists. Weight is nil for bodyweight exercises.
type BaselineEntry struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   int      `json:"reps"`
}

func kg(w float64) *float64 { return &w }

var baseline = map[string]BaselineEntry{
	"lun-1":      {Weight: kg(10), Reps: 15},
	"lun-2":      {Reps: 15},
	"lun-3":      {Weight: kg(30), Reps: 10},
	"lun-4":      {Weight: kg(18), Reps: 12},
	"lun-5":      {Reps: 12},
	"mer-1":      {Reps: 6},
	"mer-2":      {Weight: kg(60), Reps: 10},
	"mer-3":      {Weight: kg(50), Reps: 12},
	"mer-4":      {Weight: kg(20), Reps: 15},
	"mer-5":      {Weight: kg(12), Reps: 12},
	"mer-rappel": {Reps: 20},
	"ven-1":      {Weight: kg(60), Reps: 10},
	"ven-2":      {Weight: kg(40), Reps: 12},
	"ven-3":      {Weight: kg(24), Reps: 10},
	"ven-4":      {Weight: kg(12), Reps: 12},
	"ven-rappel": {Reps: 8},
}

var plan = map[Day][]Exercise{
	Lundi: {
		{ID: "lun-1", Title: "Élévations Latérales", Sets: 4, TargetReps: 15, RestTime: 90, Tempo: "2-0-1-1", VideoID: "3VcKaXpzqRo", IsUnilateral: true, Alternative: "Élévations Poulie"},
		{ID: "lun-2", Title: "Face Pull", Sets: 4, TargetReps: 15, RestTime: 90, Tempo: "2-0-1-2", VideoID: "rep-EPVktec", Alternative: "Oiseau Haltères"},
		{ID: "lun-3", Title: "Développé Incliné", Sets: 4, TargetReps: 10, RestTime: 120, Tempo: "3-1-1-0", VideoID: "0G2_kHIv7p8", IsUnilateral: true, Alternative: "Machine Inclinée"},
		{ID: "lun-4", Title: "Développé Arnold", Sets: 3, TargetReps: 12, RestTime: 90, Tempo: "3-0-1-0", VideoID: "6Z15_WdXMa4", IsUnilateral: true},
		{ID: "lun-5", Title: "Dips / Triceps", Sets: 3, TargetReps: 12, RestTime: 90, Tempo: "3-0-1-0", VideoID: "2z8JmcrW-As"},
	},
	Mercredi: {
		{ID: "mer-1", Title: "Tractions", Sets: 5, TargetReps: 6, RestTime: 120, Tempo: "3-0-X-1", VideoID: "eGo4IYlbE5g", Alternative: "Tirage Vertical"},
		{ID: "mer-2", Title: "Rowing Barre", Sets: 4, TargetReps: 10, RestTime: 120, Tempo: "3-0-1-1", VideoID: "G8l_8chR5BE", Alternative: "Rowing T-Bar"},
		{ID: "mer-3", Title: "Tirage Horizontal", Sets: 3, TargetReps: 12, RestTime: 90, Tempo: "3-0-1-2", VideoID: "GZbfZ033f74"},
		{ID: "mer-4", Title: "Pull-over Poulie", Sets: 3, TargetReps: 15, RestTime: 60, Tempo: "4-1-1-0", VideoID: "H5-0X3j0-s0"},
		{ID: "mer-5", Title: "Curl Incliné", Sets: 3, TargetReps: 12, RestTime: 60, Tempo: "3-0-1-0", VideoID: "soxrZlIl35U", IsUnilateral: true},
		{ID: "mer-rappel", Title: "Rappel Push : Pompes", Sets: 3, TargetReps: 20, RestTime: 60, IsRappel: true, VideoID: "IODxDxX7oi4"},
	},
	Vendredi: {
		{ID: "ven-1", Title: "RDL (Soulevé Roumain)", Sets: 4, TargetReps: 10, RestTime: 180, Tempo: "4-1-1-0", VideoID: "JCXUYuzwNrM", Alternative: "Leg Curl Assis"},
		{ID: "ven-2", Title: "Hip Thrust", Sets: 4, TargetReps: 12, RestTime: 120, Tempo: "2-1-X-2", VideoID: "SEdqd1n0cvg"},
		{ID: "ven-3", Title: "Goblet Squat", Sets: 4, TargetReps: 12, RestTime: 120, Tempo: "3-1-1-0", VideoID: "MeIiIdhvXT4", Alternative: "Presse à cuisses"},
		{ID: "ven-4", Title: "Fentes Bulgares", Sets: 3, TargetReps: 10, RestTime: 90, Tempo: "3-0-1-0", VideoID: "2C-uNgKwPLE", IsUnilateral: true},
		{ID: "ven-rappel", Title: "Rappel Dos : Tractions", Sets: 3, TargetReps: 8, RestTime: 90, IsRappel: true, VideoID: "eGo4IYlbE5g"},
	},
}

// TrainingDays returns the training days in display order.
func TrainingDays() []Day {
	return []Day{Lundi, Mercredi, Vendredi}
}

// IsTrainingDay reports whether d carries an exercise list.
func IsTrainingDay(d Day) bool {
	_, ok := plan[d]
	return ok
}

// Exercises returns the ordered exercise list for a day. Unknown days
// yield nil.
func Exercises(d Day) []Exercise {
	return plan[d]
}

// BaselineFor returns the week-1 fallback target for an exercise.
func BaselineFor(exerciseID string) (BaselineEntry, bool) {
	b, ok := baseline[exerciseID]
	return b, ok
}
