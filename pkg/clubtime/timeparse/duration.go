// Package timeparse – duration.go parses human duration strings ("2 weeks,
// 3 days", "1.5 hours") into concrete spans with a canonical display label.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is a parsed time span plus its canonical human label, distinct
// from a resolved absolute moment.
//
// Months and years are fixed approximations (30.44 and 365.25 days), not
// calendar arithmetic: adding "1 month" to Jan 31 will not land on the
// last day of February. Callers presenting month/year spans should say so.
type Duration struct {
	// Delta is the total span.
	Delta time.Duration

	// Label is the normalized display form, e.g. "2 weeks 3 days".
	Label string
}

// EndOf returns the moment the span ends when started at start.
func (d Duration) EndOf(start time.Time) time.Time {
	return start.Add(d.Delta)
}

// durationUnit describes one parseable unit: its span and canonical
// singular name.
type durationUnit struct {
	span time.Duration
	name string
}

var durationUnits = map[string]durationUnit{
	"second": {time.Second, "second"},
	"minute": {time.Minute, "minute"},
	"hour":   {time.Hour, "hour"},
	"day":    {24 * time.Hour, "day"},
	"week":   {7 * 24 * time.Hour, "week"},
	"month":  {time.Duration(30.44 * 24 * float64(time.Hour)), "month"},
	"year":   {time.Duration(365.25 * 24 * float64(time.Hour)), "year"},
}

// durationAliases maps every accepted unit spelling to its canonical name.
var durationAliases = map[string]string{
	"s": "second", "sec": "second", "second": "second",
	"m": "minute", "min": "minute", "minute": "minute",
	"h": "hour", "hr": "hour", "hour": "hour",
	"d": "day", "day": "day",
	"w": "week", "week": "week",
	"mo": "month", "month": "month",
	"y": "year", "yr": "year", "year": "year",
}

var (
	reDurationComponent = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)$`)
	reDurationBareNum   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// ParseDuration parses a duration string of comma-separated components,
// each a number plus unit ("2 weeks, 3 days", "90m", "1.5 hours").
// Bare numbers without a unit are rejected rather than guessed.
func ParseDuration(input string) (Duration, error) {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return Duration{}, fmt.Errorf("duration cannot be empty")
	}

	var total time.Duration
	var labels []string
	matched := false

	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if reDurationBareNum.MatchString(part) {
			return Duration{}, fmt.Errorf("duration %q must include a unit (s, m, h, d, w, mo, y)", part)
		}
		m := reDurationComponent.FindStringSubmatch(part)
		if m == nil {
			return Duration{}, fmt.Errorf("could not parse duration %q", part)
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Duration{}, fmt.Errorf("could not parse duration %q", part)
		}
		canonical, ok := durationAliases[strings.TrimSuffix(m[2], "s")]
		if !ok {
			canonical, ok = durationAliases[m[2]]
		}
		if !ok {
			return Duration{}, fmt.Errorf("unknown time unit %q", m[2])
		}
		unit := durationUnits[canonical]
		total += time.Duration(value * float64(unit.span))
		labels = append(labels, componentLabel(value, unit.name))
		matched = true
	}

	if !matched {
		return Duration{}, fmt.Errorf("could not parse duration %q", input)
	}
	return Duration{Delta: total, Label: strings.Join(labels, " ")}, nil
}

// reArticleOffset matches article-form spans like "an hour" or "a day".
var reArticleOffset = regexp.MustCompile(`^an?\s+(second|minute|hour|day|week|month|year)$`)

// ParseReminderOffset interprets input as a lead time before event and
// returns the moment the reminder should fire. It accepts the same
// component syntax as ParseDuration plus the wrappers people type when
// asked how early to be reminded: "in 30 minutes", "1 hour before",
// "an hour".
func ParseReminderOffset(input string, event time.Time) (time.Time, error) {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return time.Time{}, fmt.Errorf("reminder offset cannot be empty")
	}
	text = strings.TrimPrefix(text, "in ")
	for _, suffix := range []string{" before the event", " before"} {
		text = strings.TrimSuffix(text, suffix)
	}
	text = strings.TrimSpace(text)
	if m := reArticleOffset.FindStringSubmatch(text); m != nil {
		text = "1 " + m[1]
	}
	d, err := ParseDuration(text)
	if err != nil {
		return time.Time{}, err
	}
	if d.Delta <= 0 {
		return time.Time{}, fmt.Errorf("reminder offset must be positive")
	}
	return event.Add(-d.Delta), nil
}

// componentLabel formats one component, keeping integers whole and
// singular units unsuffixed: "1 hour", "2 weeks", "1.5 hours".
func componentLabel(value float64, name string) string {
	num := strconv.FormatFloat(value, 'f', -1, 64)
	if value == 1 {
		return num + " " + name
	}
	return num + " " + name + "s"
}
