package mcp

import (
	"context"
	"sort"

	"github.com/claude/massebuilder/internal/overload"
	"github.com/claude/massebuilder/internal/program"
	"github.com/claude/massebuilder/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// resolveWeek substitutes the persisted current week when the tool call
// left the week argument unset.
func (h *handlers) resolveWeek(ctx context.Context, week int) (int, error) {
	if week >= 1 {
		return week, nil
	}
	return h.sessions.CurrentWeek(ctx)
}

// --- Tool definitions ---

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Retrieve the workout plan. Returns the exercise catalog per training day: sets, target reps, rest time, tempo, and alternatives."),
	mcp.WithString("day", mcp.Description("Training day to fetch (lundi, mercredi, vendredi). Omit for the full plan."), mcp.Enum("lundi", "mercredi", "vendredi")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Retrieve a recorded workout session: every logged set (weight and reps), notes, and the warmup flag."),
	mcp.WithString("day", mcp.Required(), mcp.Description("Training day (lundi, mercredi, vendredi)"), mcp.Enum("lundi", "mercredi", "vendredi")),
	mcp.WithNumber("week", mcp.Description("Program week number. Defaults to the current week.")),
)

var toolGetOverloadReport = mcp.NewTool("get_overload_report",
	mcp.WithDescription("Compare a session's reps against the previous week (or the baseline in week 1) set by set. Each set is classified as improved, equal, regressed, or none when nothing is logged yet."),
	mcp.WithString("day", mcp.Required(), mcp.Description("Training day (lundi, mercredi, vendredi)"), mcp.Enum("lundi", "mercredi", "vendredi")),
	mcp.WithNumber("week", mcp.Description("Program week number. Defaults to the current week.")),
)

var toolGetSessionVolume = mcp.NewTool("get_session_volume",
	mcp.WithDescription("Total tonnage of a session: the sum of weight times reps over every fully logged set."),
	mcp.WithString("day", mcp.Required(), mcp.Description("Training day (lundi, mercredi, vendredi)"), mcp.Enum("lundi", "mercredi", "vendredi")),
	mcp.WithNumber("week", mcp.Description("Program week number. Defaults to the current week.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Body measurements (weight, height, waist) and the dates of stored progress photos. Photo image data is not returned."),
)

// --- Tool handlers ---

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := req.GetString("day", "")

	var payload any
	if day != "" {
		exercises := program.Exercises(program.Day(day))
		if exercises == nil {
			return mcp.NewToolResultError("unknown training day: " + day), nil
		}
		payload = exercises
	} else {
		plan := make(map[program.Day][]program.Exercise)
		for _, d := range program.TrainingDays() {
			plan[d] = program.Exercises(d)
		}
		payload = plan
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}

	week, err := h.resolveWeek(ctx, req.GetInt("week", 0))
	if err != nil {
		h.log.Error("mcp get_session week", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	workout, err := h.sessions.Load(ctx, program.Day(day), week)
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"day":        day,
		"week":       week,
		"date":       workout.Date,
		"sets":       session.DecodeAll(workout.Exercises),
		"notes":      workout.Notes,
		"mcGillDone": workout.McGillDone,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// overloadSet is one row of the overload report.
type overloadSet struct {
	Key     string             `json:"key"`
	Current session.SetRecord  `json:"current"`
	Target  overload.Reference `json:"target"`
	Status  overload.Status    `json:"status"`
}

func (h *handlers) getOverloadReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}

	week, err := h.resolveWeek(ctx, req.GetInt("week", 0))
	if err != nil {
		h.log.Error("mcp get_overload_report week", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	exercises := program.Exercises(program.Day(day))
	if exercises == nil {
		return mcp.NewToolResultError("unknown training day: " + day), nil
	}

	current, err := h.sessions.Load(ctx, program.Day(day), week)
	if err != nil {
		h.log.Error("mcp get_overload_report current", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	previous, err := h.sessions.LoadPrevious(ctx, program.Day(day), week)
	if err != nil {
		h.log.Error("mcp get_overload_report previous", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	report := make(map[string][]overloadSet, len(exercises))
	for _, ex := range exercises {
		rows := make([]overloadSet, 0, ex.Sets)
		for i := 0; i < ex.Sets; i++ {
			key := session.SetKey(ex.ID, i)
			rec := session.DecodeSet(current.Exercises[key])
			target := overload.ResolveReference(previous, ex.ID, i)
			rows = append(rows, overloadSet{
				Key:     key,
				Current: rec,
				Target:  target,
				Status:  overload.Classify(rec.Reps, target.Reps),
			})
		}
		report[ex.ID] = rows
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"day":    day,
		"week":   week,
		"report": report,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}

	week, err := h.resolveWeek(ctx, req.GetInt("week", 0))
	if err != nil {
		h.log.Error("mcp get_session_volume week", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	workout, err := h.sessions.Load(ctx, program.Day(day), week)
	if err != nil {
		h.log.Error("mcp get_session_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"day":    day,
		"week":   week,
		"volume": overload.TotalVolume(workout.Exercises),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.progress.Get(ctx)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	dates := make([]string, 0, len(profile.Photos))
	for d := range profile.Photos {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	result, err := mcp.NewToolResultJSON(map[string]any{
		"poids":      profile.Weight,
		"taille":     profile.Height,
		"waist":      profile.Waist,
		"photoDates": dates,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
