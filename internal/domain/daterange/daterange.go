// Package daterange implements the report date-range model: an active
// [from, to] interval plus a named preset, recomputed from "now" on preset
// change. All bounds are normalized to calendar-day boundaries.
package daterange

import (
	"fmt"
	"time"
)

// Preset is a named date-range shortcut.
type Preset string

const (
	PresetHeute       Preset = "heute"
	PresetDieseWoche  Preset = "diese-woche"
	PresetDieserMonat Preset = "dieser-monat"
	PresetCustom      Preset = "custom"
)

// Range is an inclusive [From, To] interval. From is always the start of a
// calendar day and To the end of one.
type Range struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Preset Preset    `json:"preset"`
}

// StartOfDay returns t collapsed to 00:00:00.000 of its calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t collapsed to 23:59:59.999 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// ForPreset computes the range for a named preset relative to now. The week
// preset covers the ISO week (Monday through Sunday) containing now; the
// month preset covers now's calendar month.
func ForPreset(p Preset, now time.Time) (Range, error) {
	switch p {
	case PresetHeute:
		return Range{From: StartOfDay(now), To: EndOfDay(now), Preset: p}, nil
	case PresetDieseWoche:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := StartOfDay(now).AddDate(0, 0, 1-weekday)
		return Range{From: monday, To: EndOfDay(monday.AddDate(0, 0, 6)), Preset: p}, nil
	case PresetDieserMonat:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)
		return Range{From: first, To: EndOfDay(last), Preset: p}, nil
	default:
		return Range{}, fmt.Errorf("unknown date range preset: %q", p)
	}
}

// New normalizes both bounds to day boundaries and tags the range with the
// given preset. Callers that picked explicit calendar days pass
// PresetCustom; preset buttons recomputing their own bounds pass their name
// so the selection does not fall back to "custom".
func New(from, to time.Time, preset Preset) Range {
	if preset == "" {
		preset = PresetCustom
	}
	return Range{From: StartOfDay(from), To: EndOfDay(to), Preset: preset}
}
