// Package timeparse resolves free-text time expressions ("next friday
// anytime", "in 2 hours", "tomorrow 8pm") into concrete local timestamps,
// parses human duration strings, and renders moments back as platform
// timestamp tokens.
//
// All operations are pure functions over their inputs plus an injected
// clock; the package holds no mutable state and is safe for concurrent use.
// Timestamps are deliberately naive local time: callers are assumed to
// share one local timezone.
package timeparse

import "time"

// Context is the functional area a time expression is parsed for. It biases
// context-phrase extraction ("due by ...", "starts at ...") and error
// messaging. Unknown values behave like ContextGeneral.
type Context string

const (
	ContextGeneral  Context = "general"
	ContextEvent    Context = "event"
	ContextDues     Context = "dues"
	ContextReminder Context = "reminder"
)

// normalize maps unknown or empty contexts to ContextGeneral.
func (c Context) normalize() Context {
	switch c {
	case ContextEvent, ContextDues, ContextReminder:
		return c
	default:
		return ContextGeneral
	}
}

// Source tags which pattern family produced a Result. It is provenance for
// debugging and confidence weighting, not part of the resolved value.
type Source string

const (
	SourceDiscordTimestamp Source = "discord_timestamp"
	SourceContradiction    Source = "contradictory"
	SourceImmediate        Source = "immediate"
	SourceTodayTimed       Source = "today_with_time"
	SourceTodayFlexible    Source = "today_flexible"
	SourceTomorrowTimed    Source = "tomorrow_with_time"
	SourceTomorrowFlexible Source = "tomorrow_flexible"
	SourceWeekdayTimed     Source = "weekday_timed"
	SourceWeekdayFlexible  Source = "weekday_flexible"
	SourceWeekBoundary     Source = "week_boundary"
	SourceMonthBoundary    Source = "month_boundary"
	SourceMonthDay         Source = "month_day_pattern"
	SourceRelativeOffset   Source = "relative_offset"
	SourceTimeOfDay        Source = "time_of_day"
	SourceVague            Source = "vague"
	SourceClockTime        Source = "clock_time"
	SourceBareHour         Source = "bare_hour"
	SourceStandardFormat   Source = "standard_format"
	SourceNaturalFallback  Source = "natural_language"
)

// Result is the outcome of parsing one time expression. It is a pure value:
// constructed fresh per call and never mutated.
//
// Valid implies Moment is set. When Valid is false, ErrDetail explains why
// in end-user terms; the parser never returns a Go error for ordinary
// unparseable input.
type Result struct {
	// Moment is the resolved local date and time.
	Moment time.Time

	// Source identifies the pattern family that produced the result.
	Source Source

	// Confidence is a heuristic score in [0,1]. Machine-formatted input
	// (native tokens, ISO dates) scores higher than vague phrases.
	Confidence float64

	// Valid reports whether the input resolved to a usable moment.
	Valid bool

	// ErrDetail is the human-readable failure reason when Valid is false.
	ErrDetail string

	// Input preserves the original text for error messages and logging.
	Input string
}

// Unix returns the resolved moment as a Unix epoch, or 0 when invalid.
func (r Result) Unix() int64 {
	if !r.Valid {
		return 0
	}
	return r.Moment.Unix()
}

// invalid builds a failed Result for the given input.
func invalid(input string, source Source, detail string) Result {
	return Result{
		Source:    source,
		Valid:     false,
		ErrDetail: detail,
		Input:     input,
	}
}
