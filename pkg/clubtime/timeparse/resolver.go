// Package timeparse – resolver.go turns matched patterns into concrete
// moments. Given the current time and a usage context it walks the pattern
// layers in fixed precedence order, fills defaulted fields (time-of-day,
// year rollover, weekday direction), validates literal ranges, and packages
// everything as a Result with a confidence score and provenance tag.
package timeparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	naturaldate "github.com/tj/go-naturaldate"
)

// Confidence tiers. Machine-originated formats always outrank vague
// natural language; the ordering matters more than the exact values.
const (
	confidenceNative   = 1.0
	confidenceStandard = 0.9
	confidencePattern  = 0.8
	confidenceAnchor   = 0.7
	confidenceVague    = 0.6
	confidenceFallback = 0.5
	confidenceCtxCap   = 0.7
)

// Anchors are the default hours used when an expression names a part of
// day without an explicit time.
type Anchors struct {
	Morning   int
	Afternoon int
	Evening   int
	Night     int
}

// DefaultAnchors returns the stock anchor hours: 09:00, 14:00, 18:00, 20:00.
func DefaultAnchors() Anchors {
	return Anchors{Morning: 9, Afternoon: 14, Evening: 18, Night: 20}
}

func (a Anchors) hour(an anchor) int {
	switch an {
	case anchorMorning:
		return a.Morning
	case anchorAfternoon:
		return a.Afternoon
	case anchorEvening:
		return a.Evening
	default:
		return a.Night
	}
}

// Parser resolves free-text time expressions. The zero value is not usable;
// construct with New. Parser holds no mutable state and may be shared
// across goroutines.
type Parser struct {
	// Now supplies the current moment. Tests inject a fixed clock here;
	// New defaults it to time.Now.
	Now func() time.Time

	// Renderer produces platform timestamp tokens. Defaults to
	// DiscordRenderer.
	Renderer TokenRenderer

	// Anchors are the part-of-day default hours.
	Anchors Anchors
}

// New returns a Parser with the system clock, Discord token rendering and
// default anchors.
func New() *Parser {
	return &Parser{
		Now:      time.Now,
		Renderer: DiscordRenderer{},
		Anchors:  DefaultAnchors(),
	}
}

// Parse resolves one time expression under the given context. It never
// returns an error for unparseable user input: ordinary failures come back
// as Result{Valid: false} with a human-readable ErrDetail.
func (p *Parser) Parse(input string, ctx Context) Result {
	text := strings.TrimSpace(input)
	if text == "" {
		return invalid(input, "", "time expression is empty")
	}
	ctx = ctx.normalize()
	now := p.now()

	// Contradictions short-circuit before any positive match can commit;
	// "tomorrow yesterday 8pm" must surface the input error, not parse.
	if a, b, ok := findContradiction(text); ok {
		return invalid(input, SourceContradiction,
			fmt.Sprintf("contradictory terms: %q and %q cannot be used together", a, b))
	}

	// Already-formatted platform tokens are trusted completely.
	if m, ok := matchDiscordTokenIn(text); ok {
		return Result{
			Moment:     time.Unix(m.epoch, 0),
			Source:     m.source,
			Confidence: confidenceNative,
			Valid:      true,
			Input:      input,
		}
	}

	if m, ok := matchExtended(text); ok {
		return p.resolve(m, now, input)
	}

	if r, ok := p.parseStandard(text, now, input); ok {
		return r
	}

	if r, ok := p.parseContextPhrase(text, ctx, input); ok {
		return r
	}

	if r, ok := p.parseNaturalFallback(text, now, input); ok {
		return r
	}

	return invalid(input, "", fmt.Sprintf("could not understand time expression %q", text))
}

// ParseAll extracts every platform token in text plus at most one
// natural-language expression from the remaining words.
func (p *Parser) ParseAll(text string, ctx Context) []Result {
	var results []Result
	for _, m := range reDiscordToken.FindAllStringSubmatch(text, -1) {
		if r := p.Parse(m[0], ctx); r.Valid {
			results = append(results, r)
		}
	}
	rest := strings.TrimSpace(reDiscordToken.ReplaceAllString(text, ""))
	if rest != "" {
		if r := p.Parse(rest, ctx); r.Valid {
			results = append(results, r)
		}
	}
	return results
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// ---------- Resolution ----------

// resolve maps a tagged match onto a concrete moment.
func (p *Parser) resolve(m match, now time.Time, input string) Result {
	switch m.kind {
	case matchImmediate:
		return valid(now, m.source, confidenceStandard, input)

	case matchDayRef:
		return p.resolveDayRef(m, now, input)

	case matchWeekRef:
		return p.resolveWeekRef(m, now, input)

	case matchMonthRef:
		return p.resolveMonthRef(m, now, input)

	case matchWeekday:
		return p.resolveWeekday(m, now, input)

	case matchMonthDay:
		return p.resolveMonthDay(m, now, input)

	case matchRelative:
		return p.resolveRelative(m, now, input)

	case matchTimeOfDay:
		day := now
		if m.tomorrow {
			day = now.AddDate(0, 0, 1)
		}
		return valid(atHour(day, p.Anchors.hour(m.anchor), 0), m.source, confidenceAnchor, input)

	case matchVague:
		return p.resolveVague(m, now, input)

	case matchClock:
		if detail, ok := checkClock(m.clock); !ok {
			return invalid(input, m.source, detail)
		}
		conf := confidenceStandard
		if m.source == SourceBareHour {
			conf = confidenceAnchor
		}
		return valid(atHour(now, m.clock.Hour, m.clock.Minute), m.source, conf, input)
	}
	return invalid(input, m.source, "unsupported time expression")
}

func (p *Parser) resolveDayRef(m match, now time.Time, input string) Result {
	day := now.AddDate(0, 0, m.dayOffset)
	if m.clock.Set {
		if detail, ok := checkClock(m.clock); !ok {
			return invalid(input, m.source, detail)
		}
		return valid(atHour(day, m.clock.Hour, m.clock.Minute), m.source, confidenceStandard, input)
	}
	if m.dayOffset == 0 {
		// Bare "today": noon while the morning lasts, otherwise the top of
		// the next hour so the moment stays ahead of now.
		if now.Hour() < 12 {
			return valid(atHour(now, 12, 0), m.source, confidenceStandard, input)
		}
		next := now.Add(time.Hour)
		return valid(atHour(next, next.Hour(), 0), m.source, confidenceStandard, input)
	}
	return valid(atHour(day, 12, 0), m.source, confidenceStandard, input)
}

func (p *Parser) resolveWeekRef(m match, now time.Time, input string) Result {
	switch m.bound {
	case boundaryNext:
		// Monday of next week at noon.
		return valid(atHour(nextMonday(now), 12, 0), m.source, confidencePattern, input)
	case boundaryThis:
		// Friday of the current week at noon.
		days := int((time.Friday - now.Weekday() + 7) % 7)
		return valid(atHour(now.AddDate(0, 0, days), 12, 0), m.source, confidencePattern, input)
	case boundaryLast:
		// Monday of the previous week at noon.
		return valid(atHour(nextMonday(now).AddDate(0, 0, -14), 12, 0), m.source, confidencePattern, input)
	case boundaryEnd:
		// Sunday at 17:00; on a Sunday this means the following one.
		days := int((time.Sunday - now.Weekday() + 7) % 7)
		if days == 0 {
			days = 7
		}
		return valid(atHour(now.AddDate(0, 0, days), 17, 0), m.source, confidencePattern, input)
	default: // boundaryBegin
		// Monday at 09:00. A Monday "now" keeps today; any later day has
		// already started its week and rolls to the next one. "next"
		// anchors to next week's Monday in both cases, landing in the
		// same week as a plain "next week".
		monday := now
		if m.qual == qualNext || now.Weekday() != time.Monday {
			monday = nextMonday(now)
		}
		return valid(atHour(monday, 9, 0), m.source, confidencePattern, input)
	}
}

func (p *Parser) resolveMonthRef(m match, now time.Time, input string) Result {
	year, month, _ := now.Date()
	switch m.bound {
	case boundaryNext:
		return valid(time.Date(year, month+1, 1, 12, 0, 0, 0, now.Location()), m.source, confidenceVague, input)
	case boundaryThis:
		// Mid-month, or the last day once the 15th has passed.
		day := 15
		if now.Day() > 15 {
			day = daysInMonth(year, month)
		}
		return valid(time.Date(year, month, day, 12, 0, 0, 0, now.Location()), m.source, confidenceVague, input)
	case boundaryEnd:
		if m.qual == qualNext {
			month++
			if month > time.December {
				month = time.January
				year++
			}
		}
		return valid(time.Date(year, month, daysInMonth(year, month), 17, 0, 0, 0, now.Location()), m.source, confidenceAnchor, input)
	default: // boundaryBegin
		// The 1st keeps the current month; any later day rolls forward.
		// "next" anchors to the start of next month in both cases.
		if m.qual == qualNext || now.Day() != 1 {
			month++
		}
		return valid(time.Date(year, month, 1, 9, 0, 0, 0, now.Location()), m.source, confidenceAnchor, input)
	}
}

func (p *Parser) resolveWeekday(m match, now time.Time, input string) Result {
	if m.clock.Set {
		if detail, ok := checkClock(m.clock); !ok {
			return invalid(input, m.source, detail)
		}
	}
	hour, minute := 12, 0
	if m.clock.Set {
		hour, minute = m.clock.Hour, m.clock.Minute
	}

	diff := int(m.weekday) - int(now.Weekday())
	var days int
	switch m.qual {
	case qualNext:
		// "next" always jumps past the current week.
		days = diff + 7
	case qualThis:
		days = diff
		if days <= 0 {
			days += 7
		}
	case qualLast:
		// Most recent past occurrence: 1-7 days back.
		days = ((diff+7)%7 - 7)
	default:
		// Bare weekday: next occurrence, today included only while the
		// target time is still ahead.
		days = (diff + 7) % 7
		if days == 0 && !atHour(now, hour, minute).After(now) {
			days = 7
		}
	}
	return valid(atHour(now.AddDate(0, 0, days), hour, minute), m.source, confidencePattern, input)
}

func (p *Parser) resolveMonthDay(m match, now time.Time, input string) Result {
	if m.clock.Set {
		if detail, ok := checkClock(m.clock); !ok {
			return invalid(input, m.source, detail)
		}
	}
	year := m.year
	if year == 0 {
		// Year omitted: current year unless that calendar date has already
		// passed, then next year.
		year = now.Year()
		if monthDayPassed(now, m.month, m.day) {
			year++
		}
	}
	if m.day < 1 || m.day > daysInMonth(year, m.month) {
		return invalid(input, m.source,
			fmt.Sprintf("day %d is out of range for %s %d", m.day, m.month, year))
	}
	hour, minute := 12, 0
	if m.clock.Set {
		hour, minute = m.clock.Hour, m.clock.Minute
	}
	moment := time.Date(year, m.month, m.day, hour, minute, 0, 0, now.Location())
	return valid(moment, m.source, confidencePattern, input)
}

func (p *Parser) resolveRelative(m match, now time.Time, input string) Result {
	var d time.Duration
	switch m.unit {
	case unitSecond:
		d = time.Duration(m.amount) * time.Second
	case unitMinute:
		d = time.Duration(m.amount) * time.Minute
	case unitHour:
		d = time.Duration(m.amount) * time.Hour
	case unitDay:
		d = time.Duration(m.amount) * 24 * time.Hour
	case unitWeek:
		d = time.Duration(m.amount) * 7 * 24 * time.Hour
	}
	if m.hasExtra {
		d += time.Duration(m.extraMin) * time.Minute
	}
	return valid(now.Add(d), m.source, confidencePattern, input)
}

func (p *Parser) resolveVague(m match, now time.Time, input string) Result {
	switch m.vague {
	case vagueSoon:
		return valid(now.Add(90*time.Minute), m.source, confidenceVague, input)
	case vagueSometimeThisWeek:
		// Midweek: Wednesday at 14:00, or tomorrow if today is Wednesday.
		days := int((time.Wednesday - now.Weekday() + 7) % 7)
		if days == 0 {
			days = 1
		}
		return valid(atHour(now.AddDate(0, 0, days), 14, 0), m.source, confidenceVague, input)
	default: // vagueSometimeNextWeek
		wednesday := nextMonday(now).AddDate(0, 0, 2)
		return valid(atHour(wednesday, 14, 0), m.source, confidenceVague, input)
	}
}

// ---------- Standard typed formats ----------

// Layouts mirror the strptime table this parser grew out of: ISO first,
// then slash dates (month-first, then day-first), then textual months.
var standardLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04 PM",
	"January 2, 2006 15:04:05",
	"January 2, 2006 15:04",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
}

// Time-only layouts combine with today's date.
var timeOnlyLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
}

func (p *Parser) parseStandard(text string, now time.Time, input string) (Result, bool) {
	for _, layout := range timeOnlyLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			moment := time.Date(now.Year(), now.Month(), now.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, now.Location())
			return valid(moment, SourceStandardFormat, confidenceStandard, input), true
		}
	}
	for _, layout := range standardLayouts {
		if t, err := time.ParseInLocation(layout, text, now.Location()); err == nil {
			return valid(t, SourceStandardFormat, confidenceStandard, input), true
		}
	}
	// Lenient fallback for typed formats the explicit table misses.
	if t, err := dateparse.ParseIn(text, now.Location()); err == nil {
		return valid(t, SourceStandardFormat, confidenceStandard, input), true
	}
	return Result{}, false
}

// ---------- Context-specific phrase extraction ----------

// phraseRule unwraps "due by <X>"-style wrappers; the inner text is
// re-parsed from the top and the result retagged with the phrase used.
type phraseRule struct {
	tag string
	re  *regexp.Regexp
}

var eventPhrases = []phraseRule{
	{"starts_at", regexp.MustCompile(`(?i)\bstarts?\s+(?:at|on)\s+(.+)$`)},
	{"begins_at", regexp.MustCompile(`(?i)\bbegins?\s+(?:at|on)\s+(.+)$`)},
	{"scheduled_for", regexp.MustCompile(`(?i)\bscheduled\s+for\s+(.+)$`)},
}

var duesPhrases = []phraseRule{
	{"due_by", regexp.MustCompile(`(?i)\bdue\s+by\s+(.+)$`)},
	{"deadline", regexp.MustCompile(`(?i)\bdeadline:?\s*(.+)$`)},
	{"expires", regexp.MustCompile(`(?i)\bexpires?\s+(?:on|at)?\s*(.+)$`)},
}

// phraseSets returns the phrase tables tried for a context, in order.
// Event and dues bias toward their own phrases; reminder and general try
// everything.
func phraseSets(ctx Context) [][]phraseRule {
	switch ctx {
	case ContextEvent:
		return [][]phraseRule{eventPhrases, duesPhrases}
	case ContextDues:
		return [][]phraseRule{duesPhrases, eventPhrases}
	default:
		return [][]phraseRule{duesPhrases, eventPhrases}
	}
}

func (p *Parser) parseContextPhrase(text string, ctx Context, input string) (Result, bool) {
	for _, set := range phraseSets(ctx) {
		for _, pr := range set {
			m := pr.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			inner := strings.TrimSpace(m[1])
			sub := p.Parse(inner, ContextGeneral)
			if !sub.Valid {
				continue
			}
			// Extraction adds uncertainty: cap confidence below the
			// sub-result's own score and prefix the provenance tag.
			sub.Confidence = min(sub.Confidence, confidenceCtxCap)
			sub.Source = Source(string(ctx) + "_" + pr.tag)
			sub.Input = input
			return sub, true
		}
	}
	return Result{}, false
}

// ---------- Natural-language fallback ----------

// parseNaturalFallback hands inputs nothing else claimed to go-naturaldate
// at low confidence. A result equal to the base time means the library
// skipped the input without an error, so it is treated as no match.
func (p *Parser) parseNaturalFallback(text string, now time.Time, input string) (Result, bool) {
	t, err := naturaldate.Parse(text, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil || t.Equal(now) {
		return Result{}, false
	}
	return valid(t, SourceNaturalFallback, confidenceFallback, input), true
}

// ---------- Helpers ----------

func valid(moment time.Time, source Source, confidence float64, input string) Result {
	return Result{
		Moment:     moment,
		Source:     source,
		Confidence: confidence,
		Valid:      true,
		Input:      input,
	}
}

// atHour returns day's date at the given wall-clock time.
func atHour(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// checkClock validates literal hour/minute ranges; out-of-range values fail
// with a specific message instead of silently wrapping.
func checkClock(c clockSpec) (string, bool) {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Sprintf("hour %d is out of range (0-23)", c.Hour), false
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Sprintf("minute %d is out of range (0-59)", c.Minute), false
	}
	return "", true
}

// nextMonday returns the Monday of the week after now's week.
func nextMonday(now time.Time) time.Time {
	days := int((time.Monday - now.Weekday() + 7) % 7)
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthDayPassed reports whether month/day has already gone by this year,
// comparing calendar dates only.
func monthDayPassed(now time.Time, month time.Month, day int) bool {
	if month != now.Month() {
		return month < now.Month()
	}
	return day < now.Day()
}
