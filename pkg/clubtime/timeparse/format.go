// Package timeparse – format.go renders resolved moments back into
// platform timestamp tokens and human-readable durations. Every operation
// here is a stateless pure function over its inputs and "now".
package timeparse

import (
	"fmt"
	"time"
)

// Style selects how a downstream rendering surface expands a timestamp
// token. The letters follow the Discord convention, which the default
// renderer emits verbatim.
type Style string

const (
	StyleFull      Style = "F" // December 15, 2024 3:30 PM
	StyleFullShort Style = "f" // Dec 15, 2024 3:30 PM
	StyleDateLong  Style = "D" // December 15, 2024
	StyleDateShort Style = "d" // 12/15/2024
	StyleTimeLong  Style = "T" // 3:30:45 PM
	StyleTimeShort Style = "t" // 3:30 PM
	StyleRelative  Style = "R" // in 2 hours (live countdown)
)

// Styles lists every supported style in display order.
var Styles = []Style{
	StyleFull, StyleFullShort,
	StyleDateLong, StyleDateShort,
	StyleTimeLong, StyleTimeShort,
	StyleRelative,
}

// ValidStyle reports whether s is one of the seven style letters.
func ValidStyle(s string) bool {
	for _, st := range Styles {
		if string(st) == s {
			return true
		}
	}
	return false
}

// TokenRenderer turns an epoch and style into a platform timestamp token.
// Targets other than Discord plug in their own implementation.
type TokenRenderer interface {
	Render(epoch int64, style Style) string
}

// DiscordRenderer emits Discord-native `<t:EPOCH:STYLE>` tokens.
type DiscordRenderer struct{}

func (DiscordRenderer) Render(epoch int64, style Style) string {
	return fmt.Sprintf("<t:%d:%s>", epoch, style)
}

func (p *Parser) renderer() TokenRenderer {
	if p.Renderer != nil {
		return p.Renderer
	}
	return DiscordRenderer{}
}

// Token renders moment as a platform timestamp token in the given style.
func (p *Parser) Token(moment time.Time, style Style) string {
	return p.renderer().Render(moment.Unix(), style)
}

// AllStyles renders moment in every supported style at once, for
// "pick your preferred format" flows.
func (p *Parser) AllStyles(moment time.Time) map[Style]string {
	out := make(map[Style]string, len(Styles))
	for _, st := range Styles {
		out[st] = p.Token(moment, st)
	}
	return out
}

// EventToken renders moment as a full date-time followed by a live
// countdown, the display used for event announcements.
func (p *Parser) EventToken(moment time.Time) string {
	return fmt.Sprintf("%s (%s)", p.Token(moment, StyleFull), p.Token(moment, StyleRelative))
}

// ReminderToken renders moment as a live countdown only.
func (p *Parser) ReminderToken(moment time.Time) string {
	return p.Token(moment, StyleRelative)
}

// HumanDuration renders a span as a comma-joined, "and"-terminated list of
// its non-zero units, with seconds suppressed once the span exceeds an
// hour. A zero span renders as "0 seconds", never an empty string.
func HumanDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int(d / time.Second)

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if seconds > 0 && days == 0 && hours == 0 {
		parts = append(parts, plural(seconds, "second"))
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		joined := ""
		for _, part := range parts[:len(parts)-1] {
			joined += part + ", "
		}
		return joined + "and " + parts[len(parts)-1]
	}
}

// Countdown describes how far target is from now: "2 hours remaining" or
// "Expired 1 day ago".
func Countdown(target, now time.Time) string {
	d := target.Sub(now)
	if d < 0 {
		return fmt.Sprintf("Expired %s ago", HumanDuration(-d))
	}
	return fmt.Sprintf("%s remaining", HumanDuration(d))
}

// ValidateEventTime applies the scheduling policy check: moments closer
// than minAdvanceMinutes or farther than maxAdvanceDays are rejected with a
// reason. This is a business rule, separate from parse validity: a moment
// can parse perfectly and still fail here.
func ValidateEventTime(moment, now time.Time, minAdvanceMinutes, maxAdvanceDays int) (bool, string) {
	if moment.Before(now.Add(time.Duration(minAdvanceMinutes) * time.Minute)) {
		return false, fmt.Sprintf("must be scheduled at least %d minutes in advance", minAdvanceMinutes)
	}
	if moment.After(now.AddDate(0, 0, maxAdvanceDays)) {
		return false, fmt.Sprintf("cannot be scheduled more than %d days in advance", maxAdvanceDays)
	}
	return true, ""
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
