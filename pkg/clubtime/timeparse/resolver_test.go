package timeparse

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// testNow is Thursday, January 2, 2025 at 10:00 local time.
var testNow = time.Date(2025, time.January, 2, 10, 0, 0, 0, time.Local)

func newTestParser() *Parser {
	p := New()
	p.Now = func() time.Time { return testNow }
	return p
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		ctx     Context
		valid   bool
		source  Source
		moment  string // "2006-01-02 15:04", empty to skip
		minConf float64
	}{
		// Day references
		{"tomorrow 5pm", ContextGeneral, true, SourceTomorrowTimed, "2025-01-03 17:00", 0.8},
		{"tomorrow at 8:30pm", ContextGeneral, true, SourceTomorrowTimed, "2025-01-03 20:30", 0.8},
		{"tomorrow", ContextGeneral, true, SourceTomorrowFlexible, "2025-01-03 12:00", 0.8},
		{"tomorrow anytime", ContextGeneral, true, SourceTomorrowFlexible, "2025-01-03 12:00", 0.8},
		{"today", ContextGeneral, true, SourceTodayFlexible, "2025-01-02 12:00", 0.8},
		{"today 8pm", ContextGeneral, true, SourceTodayTimed, "2025-01-02 20:00", 0.8},
		{"today at 5", ContextGeneral, true, SourceTodayTimed, "2025-01-02 17:00", 0.8},

		// Weekdays
		{"next friday", ContextGeneral, true, SourceWeekdayFlexible, "2025-01-10 12:00", 0.7},
		{"friday", ContextGeneral, true, SourceWeekdayFlexible, "2025-01-03 12:00", 0.7},
		{"this thursday", ContextGeneral, true, SourceWeekdayFlexible, "2025-01-09 12:00", 0.7},
		{"last monday", ContextGeneral, true, SourceWeekdayFlexible, "2024-12-30 12:00", 0.7},
		{"friday 8pm", ContextGeneral, true, SourceWeekdayTimed, "2025-01-03 20:00", 0.7},
		{"saturday at 7:30pm", ContextGeneral, true, SourceWeekdayTimed, "2025-01-04 19:30", 0.7},
		{"next friday anytime", ContextGeneral, true, SourceWeekdayFlexible, "2025-01-10 12:00", 0.7},

		// Week and month boundaries
		{"next week", ContextGeneral, true, SourceWeekBoundary, "2025-01-06 12:00", 0.7},
		{"this week", ContextGeneral, true, SourceWeekBoundary, "2025-01-03 12:00", 0.7},
		{"end of week", ContextGeneral, true, SourceWeekBoundary, "2025-01-05 17:00", 0.7},
		{"beginning of week", ContextGeneral, true, SourceWeekBoundary, "2025-01-06 09:00", 0.7},
		{"beginning of next week", ContextGeneral, true, SourceWeekBoundary, "2025-01-06 09:00", 0.7},
		{"next month", ContextGeneral, true, SourceMonthBoundary, "2025-02-01 12:00", 0.5},
		{"this month", ContextGeneral, true, SourceMonthBoundary, "2025-01-15 12:00", 0.5},
		{"end of month", ContextGeneral, true, SourceMonthBoundary, "2025-01-31 17:00", 0.6},
		{"beginning of month", ContextGeneral, true, SourceMonthBoundary, "2025-02-01 09:00", 0.6},
		{"beginning of next month", ContextGeneral, true, SourceMonthBoundary, "2025-02-01 09:00", 0.6},

		// Relative offsets
		{"in 2 hours", ContextGeneral, true, SourceRelativeOffset, "2025-01-02 12:00", 0.8},
		{"in 45 minutes", ContextGeneral, true, SourceRelativeOffset, "2025-01-02 10:45", 0.8},
		{"in 2 hours and 30 minutes", ContextGeneral, true, SourceRelativeOffset, "2025-01-02 12:30", 0.8},
		{"3 days from now", ContextGeneral, true, SourceRelativeOffset, "2025-01-05 10:00", 0.8},
		{"2 weeks from now", ContextGeneral, true, SourceRelativeOffset, "2025-01-16 10:00", 0.8},

		// Time of day
		{"tomorrow morning", ContextGeneral, true, SourceTimeOfDay, "2025-01-03 09:00", 0.6},
		{"this afternoon", ContextGeneral, true, SourceTimeOfDay, "2025-01-02 14:00", 0.6},
		{"tonight", ContextGeneral, true, SourceTimeOfDay, "2025-01-02 20:00", 0.6},
		{"evening", ContextGeneral, true, SourceTimeOfDay, "2025-01-02 18:00", 0.6},

		// Vague phrases
		{"soon", ContextGeneral, true, SourceVague, "2025-01-02 11:30", 0.5},
		{"later today", ContextGeneral, true, SourceVague, "2025-01-02 11:30", 0.5},
		{"sometime this week", ContextGeneral, true, SourceVague, "2025-01-08 14:00", 0.5},
		{"sometime next week", ContextGeneral, true, SourceVague, "2025-01-08 14:00", 0.5},

		// Immediate
		{"now", ContextGeneral, true, SourceImmediate, "2025-01-02 10:00", 0.8},
		{"right now", ContextGeneral, true, SourceImmediate, "2025-01-02 10:00", 0.8},

		// Month + day patterns
		{"march 15", ContextGeneral, true, SourceMonthDay, "2025-03-15 12:00", 0.7},
		{"march 15 7pm", ContextGeneral, true, SourceMonthDay, "2025-03-15 19:00", 0.7},
		{"january 1", ContextGeneral, true, SourceMonthDay, "2026-01-01 12:00", 0.7},
		{"january 2 9am", ContextGeneral, true, SourceMonthDay, "2025-01-02 09:00", 0.7},
		{"December 25th at 9:30am", ContextGeneral, true, SourceMonthDay, "2025-12-25 09:30", 0.7},
		{"March 15, 2024", ContextGeneral, true, SourceMonthDay, "2024-03-15 12:00", 0.7},

		// Standard typed formats
		{"2024-12-25 10:30", ContextGeneral, true, SourceStandardFormat, "2024-12-25 10:30", 0.9},
		{"2024-12-25", ContextGeneral, true, SourceStandardFormat, "2024-12-25 00:00", 0.9},
		{"2025-01-15T20:00:00", ContextGeneral, true, SourceStandardFormat, "2025-01-15 20:00", 0.9},
		{"1/15/2025 18:00", ContextGeneral, true, SourceStandardFormat, "2025-01-15 18:00", 0.9},
		{"14:30", ContextGeneral, true, SourceClockTime, "2025-01-02 14:30", 0.8},

		// Bare clock values
		{"2:30 pm", ContextGeneral, true, SourceClockTime, "2025-01-02 14:30", 0.8},
		{"8pm", ContextGeneral, true, SourceClockTime, "2025-01-02 20:00", 0.8},
		{"8", ContextGeneral, true, SourceBareHour, "2025-01-02 08:00", 0.6},
		{"5", ContextGeneral, true, SourceBareHour, "2025-01-02 17:00", 0.6},
		{"14", ContextGeneral, true, SourceBareHour, "2025-01-02 14:00", 0.6},

		// Context phrase extraction
		{"due by 2024-12-25", ContextDues, true, "dues_due_by", "2024-12-25 00:00", 0.6},
		{"starts at 8:30pm", ContextEvent, true, "event_starts_at", "2025-01-02 20:30", 0.6},
		{"deadline: 2025-03-01", ContextDues, true, "dues_deadline", "2025-03-01 00:00", 0.6},
		{"expires on 2025-06-30", ContextReminder, true, "reminder_expires", "2025-06-30 00:00", 0.6},

		// Contradictions
		{"tomorrow yesterday", ContextGeneral, false, SourceContradiction, "", 0},
		{"tomorrow yesterday 8pm", ContextGeneral, false, SourceContradiction, "", 0},
		{"next friday last monday", ContextGeneral, false, SourceContradiction, "", 0},
		{"today tomorrow", ContextGeneral, false, SourceContradiction, "", 0},

		// Out-of-range components
		{"25:00", ContextGeneral, false, "", "", 0},
		{"today at 14:75", ContextGeneral, false, "", "", 0},
		{"february 30", ContextGeneral, false, "", "", 0},

		// Unparseable
		{"", ContextGeneral, false, "", "", 0},
		{"   ", ContextGeneral, false, "", "", 0},
		{"completely unintelligible zzz", ContextGeneral, false, "", "", 0},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := p.Parse(tt.input, tt.ctx)
			if r.Valid != tt.valid {
				t.Fatalf("Parse(%q) valid = %v, want %v (err: %s)", tt.input, r.Valid, tt.valid, r.ErrDetail)
			}
			if !tt.valid {
				if r.ErrDetail == "" {
					t.Errorf("Parse(%q) missing error detail", tt.input)
				}
				if tt.source != "" && r.Source != tt.source {
					t.Errorf("Parse(%q) source = %q, want %q", tt.input, r.Source, tt.source)
				}
				return
			}
			if tt.source != "" && r.Source != tt.source {
				t.Errorf("Parse(%q) source = %q, want %q", tt.input, r.Source, tt.source)
			}
			if tt.moment != "" {
				if got := r.Moment.Format("2006-01-02 15:04"); got != tt.moment {
					t.Errorf("Parse(%q) moment = %s, want %s", tt.input, got, tt.moment)
				}
			}
			if r.Confidence < tt.minConf {
				t.Errorf("Parse(%q) confidence = %.2f, want >= %.2f", tt.input, r.Confidence, tt.minConf)
			}
			if r.Confidence > 1 {
				t.Errorf("Parse(%q) confidence %.2f above 1", tt.input, r.Confidence)
			}
		})
	}
}

func TestParseDiscordToken(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	r := p.Parse("<t:1735833600:F>", ContextGeneral)
	if !r.Valid {
		t.Fatalf("Parse() invalid: %s", r.ErrDetail)
	}
	if r.Source != SourceDiscordTimestamp {
		t.Errorf("source = %q, want %q", r.Source, SourceDiscordTimestamp)
	}
	if r.Confidence != 1.0 {
		t.Errorf("confidence = %.2f, want 1.0", r.Confidence)
	}
	if r.Unix() != 1735833600 {
		t.Errorf("unix = %d, want 1735833600", r.Unix())
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	first := p.Parse("tomorrow 5pm", ContextGeneral)
	if !first.Valid {
		t.Fatalf("Parse() invalid: %s", first.ErrDetail)
	}

	token := p.Token(first.Moment, StyleFull)
	second := p.Parse(token, ContextGeneral)
	if !second.Valid {
		t.Fatalf("Parse(%q) invalid: %s", token, second.ErrDetail)
	}
	if second.Unix() != first.Unix() {
		t.Errorf("round trip unix = %d, want %d", second.Unix(), first.Unix())
	}
}

func TestParseContradictionPairs(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	for _, pair := range contradictoryPairs {
		input := fmt.Sprintf("%s %s", pair[0], pair[1])
		r := p.Parse(input, ContextGeneral)
		if r.Valid {
			t.Errorf("Parse(%q) valid, want contradiction rejection", input)
		}
		if !strings.Contains(r.ErrDetail, "contradictory") {
			t.Errorf("Parse(%q) error = %q, want mention of contradictory terms", input, r.ErrDetail)
		}
	}
}

// Weekday references must never resolve into the past, for every weekday
// and every forward qualifier; "last" must stay within the previous seven
// days.
func TestParseWeekdayNeverPast(t *testing.T) {
	t.Parallel()

	weekdays := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	qualifiers := []string{"", "this ", "next "}

	nows := []time.Time{
		testNow,
		time.Date(2025, time.January, 2, 18, 0, 0, 0, time.Local), // after the noon default
		time.Date(2025, time.January, 5, 23, 30, 0, 0, time.Local),
	}

	for _, now := range nows {
		p := New()
		p.Now = func() time.Time { return now }

		for _, q := range qualifiers {
			for _, day := range weekdays {
				input := q + day
				r := p.Parse(input, ContextGeneral)
				if !r.Valid {
					t.Fatalf("Parse(%q) invalid: %s", input, r.ErrDetail)
				}
				if r.Moment.Before(now) {
					t.Errorf("Parse(%q) at %s resolved to past moment %s", input, now, r.Moment)
				}
			}
		}

		for _, day := range weekdays {
			input := "last " + day
			r := p.Parse(input, ContextGeneral)
			if !r.Valid {
				t.Fatalf("Parse(%q) invalid: %s", input, r.ErrDetail)
			}
			if !r.Moment.Before(now) {
				t.Errorf("Parse(%q) resolved to %s, want a past moment", input, r.Moment)
			}
			if r.Moment.Before(now.AddDate(0, 0, -8)) {
				t.Errorf("Parse(%q) resolved to %s, more than a week before %s", input, r.Moment, now)
			}
		}
	}
}

// Machine-originated formats must always score at least as high as vague
// phrases for an equivalent instant.
func TestParseConfidenceOrdering(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	iso := p.Parse("2025-01-15 20:00", ContextGeneral)
	vague := p.Parse("sometime next week", ContextGeneral)
	if !iso.Valid || !vague.Valid {
		t.Fatalf("parse failures: iso=%v vague=%v", iso.ErrDetail, vague.ErrDetail)
	}
	if iso.Confidence < vague.Confidence {
		t.Errorf("ISO confidence %.2f below vague phrase confidence %.2f", iso.Confidence, vague.Confidence)
	}

	native := p.Parse("<t:1736971200:F>", ContextGeneral)
	if native.Confidence < iso.Confidence {
		t.Errorf("native token confidence %.2f below ISO confidence %.2f", native.Confidence, iso.Confidence)
	}
}

func TestParseUnknownContextFallsBack(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	r := p.Parse("tomorrow 5pm", Context("bogus"))
	if !r.Valid {
		t.Fatalf("Parse() invalid: %s", r.ErrDetail)
	}
	if got := r.Moment.Format("2006-01-02 15:04"); got != "2025-01-03 17:00" {
		t.Errorf("moment = %s, want 2025-01-03 17:00", got)
	}
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	p := newTestParser()

	results := p.ParseAll("between <t:1735833600:F> and <t:1735920000:R>", ContextGeneral)
	if len(results) != 2 {
		t.Fatalf("ParseAll() returned %d results, want 2", len(results))
	}
	if results[0].Unix() != 1735833600 || results[1].Unix() != 1735920000 {
		t.Errorf("ParseAll() unix = %d, %d", results[0].Unix(), results[1].Unix())
	}

	mixed := p.ParseAll("meet <t:1735833600:F> or tomorrow", ContextGeneral)
	if len(mixed) != 2 {
		t.Fatalf("ParseAll() returned %d results, want 2", len(mixed))
	}
	if mixed[1].Source != SourceTomorrowFlexible {
		t.Errorf("second result source = %q, want %q", mixed[1].Source, SourceTomorrowFlexible)
	}

	if got := p.ParseAll("no times here at all", ContextGeneral); len(got) != 0 {
		t.Errorf("ParseAll() returned %d results, want 0", len(got))
	}
}

// The parser reads its clock only through the injected func, so two
// parsers with different clocks resolve the same text differently.
func TestParseInjectedClock(t *testing.T) {
	t.Parallel()

	morning := New()
	morning.Now = func() time.Time { return time.Date(2025, time.June, 9, 8, 0, 0, 0, time.Local) }
	evening := New()
	evening.Now = func() time.Time { return time.Date(2025, time.June, 9, 21, 0, 0, 0, time.Local) }

	a := morning.Parse("today", ContextGeneral)
	b := evening.Parse("today", ContextGeneral)
	if got := a.Moment.Format("15:04"); got != "12:00" {
		t.Errorf("morning parse = %s, want 12:00", got)
	}
	if !b.Moment.After(evening.Now()) {
		t.Errorf("evening parse %s not after now", b.Moment)
	}
}

// "beginning of next week/month" must land on the same day a plain
// "next week/month" resolves to, and the start-of-period day keeps the
// current period while a later day rolls forward.
func TestParseBoundaryBegin(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	week := p.Parse("next week", ContextGeneral)
	beginWeek := p.Parse("beginning of next week", ContextGeneral)
	if !sameDay(week.Moment, beginWeek.Moment) {
		t.Errorf("beginning of next week %s not on the same day as next week %s",
			beginWeek.Moment, week.Moment)
	}
	month := p.Parse("next month", ContextGeneral)
	beginMonth := p.Parse("beginning of next month", ContextGeneral)
	if !sameDay(month.Moment, beginMonth.Moment) {
		t.Errorf("beginning of next month %s not on the same day as next month %s",
			beginMonth.Moment, month.Moment)
	}

	monday := New()
	monday.Now = func() time.Time { return time.Date(2025, time.January, 6, 10, 0, 0, 0, time.Local) }
	first := New()
	first.Now = func() time.Time { return time.Date(2025, time.February, 1, 8, 0, 0, 0, time.Local) }

	tests := []struct {
		parser *Parser
		input  string
		moment string
	}{
		{monday, "beginning of week", "2025-01-06 09:00"},
		{monday, "beginning of next week", "2025-01-13 09:00"},
		{first, "beginning of month", "2025-02-01 09:00"},
		{first, "beginning of next month", "2025-03-01 09:00"},
	}
	for _, tt := range tests {
		r := tt.parser.Parse(tt.input, ContextGeneral)
		if !r.Valid {
			t.Fatalf("Parse(%q) invalid: %s", tt.input, r.ErrDetail)
		}
		if got := r.Moment.Format("2006-01-02 15:04"); got != tt.moment {
			t.Errorf("Parse(%q) moment = %s, want %s", tt.input, got, tt.moment)
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func TestParseCustomAnchors(t *testing.T) {
	t.Parallel()

	p := newTestParser()
	p.Anchors = Anchors{Morning: 7, Afternoon: 13, Evening: 19, Night: 22}

	r := p.Parse("tomorrow morning", ContextGeneral)
	if got := r.Moment.Format("2006-01-02 15:04"); got != "2025-01-03 07:00" {
		t.Errorf("moment = %s, want 2025-01-03 07:00", got)
	}
}
