// Package timeparse – pattern.go recognizes known shapes of time
// expressions and extracts their raw components into tagged variants. The
// rule table is ordered by precedence and built once at package init;
// machine-formatted input is always claimed before looser natural-language
// heuristics can reinterpret it.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// matchKind discriminates the pattern family a rule belongs to. Resolution
// branches on the kind, never on pattern-name strings.
type matchKind int

const (
	matchNone matchKind = iota
	matchDiscordToken
	matchImmediate
	matchDayRef   // today/tomorrow, with or without an explicit clock time
	matchWeekRef  // next/this/last week, end/beginning of week
	matchMonthRef // next/this month, end/beginning of month
	matchWeekday  // weekday name with optional qualifier and clock time
	matchMonthDay // month name + day number, optional year and clock time
	matchRelative // "in N units", "N units from now"
	matchTimeOfDay
	matchVague // soon, later, sometime this/next week
	matchClock // full-string HH:MM or bare hour
)

// qualifier is the next/this/last modifier on a weekday reference.
type qualifier int

const (
	qualNone qualifier = iota
	qualThis
	qualNext
	qualLast
)

// boundary names the week/month anchor a boundary phrase refers to.
type boundary int

const (
	boundaryNext boundary = iota
	boundaryThis
	boundaryLast
	boundaryEnd
	boundaryBegin
)

// anchor is a named time-of-day.
type anchor int

const (
	anchorMorning anchor = iota
	anchorAfternoon
	anchorEvening
	anchorNight
)

// vagueKind discriminates the handful of vague phrases.
type vagueKind int

const (
	vagueSoon vagueKind = iota
	vagueSometimeThisWeek
	vagueSometimeNextWeek
)

// offsetUnit is the unit of a relative offset.
type offsetUnit int

const (
	unitSecond offsetUnit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
)

// clockSpec is an extracted hour/minute pair. Set reports whether the
// expression carried an explicit time at all.
type clockSpec struct {
	Hour   int
	Minute int
	Set    bool
}

// match is the tagged output of the pattern matcher: one populated variant
// per kind, plus the Source tag the resolver stamps onto the Result.
type match struct {
	kind   matchKind
	source Source

	// matchDiscordToken
	epoch int64
	style Style

	// matchDayRef: 0 = today, 1 = tomorrow.
	dayOffset int
	clock     clockSpec

	// matchWeekRef / matchMonthRef
	bound boundary

	// matchWeekday
	weekday time.Weekday
	qual    qualifier

	// matchMonthDay
	month time.Month
	day   int
	year  int // 0 when omitted

	// matchRelative
	amount     int
	unit       offsetUnit
	extraMin   int // "in N hours and M minutes"
	hasExtra   bool
	fromNowish bool

	// matchTimeOfDay
	anchor   anchor
	tomorrow bool

	// matchVague
	vague vagueKind
}

// ---------- Regex patterns ----------

const weekdayAlt = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
const monthAlt = `january|february|march|april|may|june|july|august|september|october|november|december`

var (
	reDiscordToken = regexp.MustCompile(`<t:(\d+):([FfDdTtRr])>`)

	reImmediate = regexp.MustCompile(`(?i)\b(?:right\s+now|now|immediately)\b`)

	// Timed variants are ordered before bare ones so "today 8pm" never
	// loses its time to the looser day-only rule.
	reTodayTimed    = regexp.MustCompile(`(?i)\btoday\s+(?:at\s+)?(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?\b`)
	reTodayBare     = regexp.MustCompile(`(?i)\btoday(?:\s+(?:anytime|any\s+time|at\s+any\s+time|sometime))?\b`)
	reTomorrowTimed = regexp.MustCompile(`(?i)\btomorrow\s+(?:at\s+)?(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?\b`)
	reTomorrowBare  = regexp.MustCompile(`(?i)\btomorrow(?:\s+(?:anytime|any\s+time|at\s+any\s+time|sometime))?\b`)

	reNextWeek  = regexp.MustCompile(`(?i)\bnext\s+week(?:\s+(?:anytime|any\s+time|sometime))?\b`)
	reThisWeek  = regexp.MustCompile(`(?i)\bthis\s+week(?:\s+(?:anytime|any\s+time|sometime))?\b`)
	reLastWeek  = regexp.MustCompile(`(?i)\blast\s+week(?:\s+(?:anytime|any\s+time|sometime))?\b`)
	reEndWeek   = regexp.MustCompile(`(?i)\bend\s+of\s+(?:this\s+|the\s+)?week\b`)
	reBeginWeek = regexp.MustCompile(`(?i)\b(?:beginning|start)\s+of\s+(?:this\s+|the\s+|next\s+)?week\b`)

	reNextMonth  = regexp.MustCompile(`(?i)\bnext\s+month(?:\s+(?:anytime|any\s+time|sometime))?\b`)
	reThisMonth  = regexp.MustCompile(`(?i)\bthis\s+month(?:\s+(?:anytime|any\s+time|sometime))?\b`)
	reEndMonth   = regexp.MustCompile(`(?i)\bend\s+of\s+(?:this\s+|the\s+|next\s+)?month\b`)
	reBeginMonth = regexp.MustCompile(`(?i)\b(?:beginning|start)\s+of\s+(?:this\s+|the\s+|next\s+)?month\b`)

	reMonthDay = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?(?:\s+(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)?)?\b`)

	reWeekdayTimed = regexp.MustCompile(`(?i)\b(?:(next|this|last)\s+)?(` + weekdayAlt + `)\s+(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	reWeekdayBare  = regexp.MustCompile(`(?i)\b(?:(next|this|last)\s+)?(` + weekdayAlt + `)(?:\s+(?:anytime|any\s+time|sometime))?\b`)

	reRelCombo   = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+hours?\s+(?:and\s+)?(\d+)\s+(?:minutes?|mins?)\b`)
	reRelIn      = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?)\b`)
	reRelFromNow = regexp.MustCompile(`(?i)\b(\d+)\s+(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?)\s+from\s+now\b`)

	// The prefixed variant outranks bare today/tomorrow so "tomorrow
	// morning" anchors to 09:00 instead of the noon day default; the bare
	// variant runs after weekday rules so "monday morning" stays a weekday
	// reference.
	reTimeOfDayPrefixed = regexp.MustCompile(`(?i)\b(this|tomorrow|next)\s+(morning|afternoon|evening|night)(?:\s+sometime)?\b`)
	reTimeOfDayBare     = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|night|tonight)(?:\s+sometime)?\b`)

	reSometimeThisWeek = regexp.MustCompile(`(?i)\bsometime\s+this\s+week\b`)
	reSometimeNextWeek = regexp.MustCompile(`(?i)\bsometime\s+next\s+week\b`)
	reSoon             = regexp.MustCompile(`(?i)\b(?:soon|later(?:\s+today)?|sometime\s+(?:today|soon))\b`)

	// The clock rule is anchored to the whole string: "8:30pm" alone is a
	// time, but "starts at 8:30pm" must fall through to context-phrase
	// extraction so the result is tagged with its provenance.
	reClockOnly = regexp.MustCompile(`(?i)^(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm)?$`)

	reNextWord = regexp.MustCompile(`(?i)\bnext\b`)
)

// contradictoryPairs are qualifier pairs that can never appear together.
// Matched on word boundaries so "lastly" or "nextdoor" do not trip them.
var contradictoryPairs = [][2]string{
	{"tomorrow", "yesterday"},
	{"next", "last"},
	{"today", "yesterday"},
	{"today", "tomorrow"},
}

var wordRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, pair := range contradictoryPairs {
		for _, w := range pair {
			if _, ok := m[w]; !ok {
				m[w] = regexp.MustCompile(`(?i)\b` + w + `\b`)
			}
		}
	}
	return m
}()

// findContradiction reports the first contradictory qualifier pair present
// in text, if any.
func findContradiction(text string) (string, string, bool) {
	for _, pair := range contradictoryPairs {
		if wordRes[pair[0]].MatchString(text) && wordRes[pair[1]].MatchString(text) {
			return pair[0], pair[1], true
		}
	}
	return "", "", false
}

// ---------- Rule table ----------

// rule pairs a matcher function with its position in the precedence order.
type rule func(text string) (match, bool)

// extendedRules is the fixed-precedence table for natural-language shapes
// (layers below native tokens and contradiction detection, above standard
// typed formats). Built once; never mutated.
var extendedRules = []rule{
	matchMonthDayRule,
	matchRelComboRule,
	matchRelInRule,
	matchRelFromNowRule,
	matchTodayTimedRule,
	matchTomorrowTimedRule,
	matchTimeOfDayPrefixedRule,
	// Soon outranks the bare day rules so "later today" and "sometime
	// today" mean shortly, not the noon day default.
	matchSoonRule,
	matchTodayBareRule,
	matchTomorrowBareRule,
	matchSometimeRule,
	matchWeekRefRule,
	matchMonthRefRule,
	matchWeekdayTimedRule,
	matchWeekdayBareRule,
	matchTimeOfDayBareRule,
	matchImmediateRule,
	matchClockRule,
}

// matchExtended walks the rule table in precedence order and returns the
// first applicable match.
func matchExtended(text string) (match, bool) {
	for _, r := range extendedRules {
		if m, ok := r(text); ok {
			return m, true
		}
	}
	return match{}, false
}

// matchDiscordToken finds a platform-native timestamp token in text.
func matchDiscordTokenIn(text string) (match, bool) {
	m := reDiscordToken.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	epoch, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return match{}, false
	}
	return match{
		kind:   matchDiscordToken,
		source: SourceDiscordTimestamp,
		epoch:  epoch,
		style:  Style(m[2]),
	}, true
}

// ---------- Individual rules ----------

func matchMonthDayRule(text string) (match, bool) {
	m := reMonthDay.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	month := monthNumbers[strings.ToLower(m[1])]
	day, _ := strconv.Atoi(m[2])
	year := 0
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	clock := clockFromGroups(m[4], m[5], m[6])
	return match{
		kind:   matchMonthDay,
		source: SourceMonthDay,
		month:  month,
		day:    day,
		year:   year,
		clock:  clock,
	}, true
}

func matchRelComboRule(text string) (match, bool) {
	m := reRelCombo.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return match{
		kind:     matchRelative,
		source:   SourceRelativeOffset,
		amount:   hours,
		unit:     unitHour,
		extraMin: mins,
		hasExtra: true,
	}, true
}

func matchRelInRule(text string) (match, bool) {
	m := reRelIn.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return relMatch(m[1], m[2])
}

func matchRelFromNowRule(text string) (match, bool) {
	m := reRelFromNow.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return relMatch(m[1], m[2])
}

func relMatch(amountStr, unitStr string) (match, bool) {
	amount, _ := strconv.Atoi(amountStr)
	unit, ok := offsetUnitFromWord(unitStr)
	if !ok {
		return match{}, false
	}
	return match{
		kind:   matchRelative,
		source: SourceRelativeOffset,
		amount: amount,
		unit:   unit,
	}, true
}

func matchTodayTimedRule(text string) (match, bool) {
	return dayTimedMatch(reTodayTimed, text, 0, SourceTodayTimed)
}

func matchTomorrowTimedRule(text string) (match, bool) {
	return dayTimedMatch(reTomorrowTimed, text, 1, SourceTomorrowTimed)
}

func dayTimedMatch(re *regexp.Regexp, text string, offset int, source Source) (match, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return match{
		kind:      matchDayRef,
		source:    source,
		dayOffset: offset,
		clock:     clockFromGroups(m[1], m[2], m[3]),
	}, true
}

func matchTodayBareRule(text string) (match, bool) {
	if !reTodayBare.MatchString(text) {
		return match{}, false
	}
	return match{kind: matchDayRef, source: SourceTodayFlexible, dayOffset: 0}, true
}

func matchTomorrowBareRule(text string) (match, bool) {
	if !reTomorrowBare.MatchString(text) {
		return match{}, false
	}
	return match{kind: matchDayRef, source: SourceTomorrowFlexible, dayOffset: 1}, true
}

func matchTimeOfDayPrefixedRule(text string) (match, bool) {
	m := reTimeOfDayPrefixed.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return match{
		kind:     matchTimeOfDay,
		source:   SourceTimeOfDay,
		anchor:   anchorFromWord(m[2]),
		tomorrow: strings.EqualFold(m[1], "tomorrow"),
	}, true
}

func matchTimeOfDayBareRule(text string) (match, bool) {
	m := reTimeOfDayBare.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return match{
		kind:   matchTimeOfDay,
		source: SourceTimeOfDay,
		anchor: anchorFromWord(m[1]),
	}, true
}

func anchorFromWord(w string) anchor {
	switch strings.ToLower(w) {
	case "morning":
		return anchorMorning
	case "afternoon":
		return anchorAfternoon
	case "evening":
		return anchorEvening
	default: // night, tonight
		return anchorNight
	}
}

func matchSometimeRule(text string) (match, bool) {
	if reSometimeThisWeek.MatchString(text) {
		return match{kind: matchVague, source: SourceVague, vague: vagueSometimeThisWeek}, true
	}
	if reSometimeNextWeek.MatchString(text) {
		return match{kind: matchVague, source: SourceVague, vague: vagueSometimeNextWeek}, true
	}
	return match{}, false
}

func matchSoonRule(text string) (match, bool) {
	if !reSoon.MatchString(text) {
		return match{}, false
	}
	return match{kind: matchVague, source: SourceVague, vague: vagueSoon}, true
}

func matchWeekRefRule(text string) (match, bool) {
	switch {
	case reEndWeek.MatchString(text):
		return match{kind: matchWeekRef, source: SourceWeekBoundary, bound: boundaryEnd}, true
	case reBeginWeek.MatchString(text):
		// "start of next week" rolls the anchor a week forward.
		m := match{kind: matchWeekRef, source: SourceWeekBoundary, bound: boundaryBegin}
		if reNextWord.MatchString(text) {
			m.qual = qualNext
		}
		return m, true
	case reNextWeek.MatchString(text):
		return match{kind: matchWeekRef, source: SourceWeekBoundary, bound: boundaryNext}, true
	case reThisWeek.MatchString(text):
		return match{kind: matchWeekRef, source: SourceWeekBoundary, bound: boundaryThis}, true
	case reLastWeek.MatchString(text):
		return match{kind: matchWeekRef, source: SourceWeekBoundary, bound: boundaryLast}, true
	}
	return match{}, false
}

func matchMonthRefRule(text string) (match, bool) {
	next := reNextWord.MatchString(text)
	switch {
	case reEndMonth.MatchString(text):
		m := match{kind: matchMonthRef, source: SourceMonthBoundary, bound: boundaryEnd}
		if next {
			m.qual = qualNext
		}
		return m, true
	case reBeginMonth.MatchString(text):
		m := match{kind: matchMonthRef, source: SourceMonthBoundary, bound: boundaryBegin}
		if next {
			m.qual = qualNext
		}
		return m, true
	case reNextMonth.MatchString(text):
		return match{kind: matchMonthRef, source: SourceMonthBoundary, bound: boundaryNext}, true
	case reThisMonth.MatchString(text):
		return match{kind: matchMonthRef, source: SourceMonthBoundary, bound: boundaryThis}, true
	}
	return match{}, false
}

func matchWeekdayTimedRule(text string) (match, bool) {
	m := reWeekdayTimed.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return match{
		kind:    matchWeekday,
		source:  SourceWeekdayTimed,
		qual:    qualifierFromWord(m[1]),
		weekday: weekdayNumbers[strings.ToLower(m[2])],
		clock:   clockFromGroups(m[3], m[4], m[5]),
	}, true
}

func matchWeekdayBareRule(text string) (match, bool) {
	m := reWeekdayBare.FindStringSubmatch(text)
	if m == nil {
		return match{}, false
	}
	return match{
		kind:    matchWeekday,
		source:  SourceWeekdayFlexible,
		qual:    qualifierFromWord(m[1]),
		weekday: weekdayNumbers[strings.ToLower(m[2])],
	}, true
}

func matchImmediateRule(text string) (match, bool) {
	if !reImmediate.MatchString(text) {
		return match{}, false
	}
	return match{kind: matchImmediate, source: SourceImmediate}, true
}

func matchClockRule(text string) (match, bool) {
	m := reClockOnly.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return match{}, false
	}
	source := SourceClockTime
	if m[2] == "" && m[3] == "" {
		// Digits only, e.g. "8" or "14".
		source = SourceBareHour
	}
	return match{
		kind:   matchClock,
		source: source,
		clock:  clockFromGroups(m[1], m[2], m[3]),
	}, true
}

// ---------- Component helpers ----------

var weekdayNumbers = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

func qualifierFromWord(w string) qualifier {
	switch strings.ToLower(w) {
	case "next":
		return qualNext
	case "this":
		return qualThis
	case "last":
		return qualLast
	default:
		return qualNone
	}
}

func offsetUnitFromWord(w string) (offsetUnit, bool) {
	switch strings.TrimSuffix(strings.ToLower(w), "s") {
	case "second", "sec":
		return unitSecond, true
	case "minute", "min":
		return unitMinute, true
	case "hour", "hr":
		return unitHour, true
	case "day":
		return unitDay, true
	case "week":
		return unitWeek, true
	default:
		return 0, false
	}
}

// clockFromGroups builds a clockSpec from captured hour/minute/ampm groups.
// The hour group may be empty (no time present in the expression).
func clockFromGroups(hourStr, minStr, ampm string) clockSpec {
	if hourStr == "" {
		return clockSpec{}
	}
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	if minStr == "" {
		return biasedClock(hour, minute, ampm)
	}
	return clockSpec{Hour: applyMeridiem(hour, ampm), Minute: minute, Set: true}
}

// biasedClock applies the evening bias for bare hours: without am/pm and
// without minutes, hours 1-7 overwhelmingly mean evening in a
// community-scheduling setting, so they resolve to PM. 8-12 and unambiguous
// 24-hour values pass through unchanged.
func biasedClock(hour, minute int, ampm string) clockSpec {
	if ampm == "" && hour >= 1 && hour <= 7 {
		hour += 12
	} else {
		hour = applyMeridiem(hour, ampm)
	}
	return clockSpec{Hour: hour, Minute: minute, Set: true}
}

// applyMeridiem converts a 12-hour value to 24-hour using an am/pm marker.
func applyMeridiem(hour int, ampm string) int {
	switch strings.ToLower(ampm) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}
