package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"drillpay/bundling"
)

// Field grammars are strict and checked before any transaction opens: dates
// are YYYY-MM-DD and must name a real calendar day, times are 24-hour HH:MM,
// manual hours are finite and within [0, 24].

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	maxNoteLen = 500
	maxHours   = 24.0
)

// parseWorkDate parses a strict YYYY-MM-DD date and pins it to UTC midnight
// so the calendar day is timezone-independent.
func parseWorkDate(s string) (time.Time, error) {
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseClock parses a strict 24-hour HH:MM time of day.
func parseClock(s string) (hour, minute int, err error) {
	if len(s) != len(clockLayout) {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func parseManualHours(s string) (float64, error) {
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	if hours < 0 || hours > maxHours {
		return 0, fmt.Errorf("hours must be between 0 and 24")
	}
	return bundling.Round2(hours), nil
}

func cleanNote(s string) (string, error) {
	note := strings.TrimSpace(s)
	if len(note) > maxNoteLen {
		return "", fmt.Errorf("note must be at most %d characters", maxNoteLen)
	}
	return note, nil
}

// logEntryRequest is the validated input for creating or updating a log
// entry. A timed entry gives start_time and end_time on the work date; a
// manual entry gives manual_hours instead, carrying its duration only in the
// hours field.
type logEntryRequest struct {
	WorkDate    string `json:"work_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	ManualHours string `json:"manual_hours"`
	Note        string `json:"note"`
}

// build validates the request and derives hours, start and end. Timed spans
// that cross midnight (end-of-day clock earlier than start) advance the end
// one calendar day.
func (req *logEntryRequest) build() (hours float64, start, end time.Time, note string, err error) {
	day, err := parseWorkDate(req.WorkDate)
	if err != nil {
		return 0, time.Time{}, time.Time{}, "", err
	}
	note, err = cleanNote(req.Note)
	if err != nil {
		return 0, time.Time{}, time.Time{}, "", err
	}

	timed := req.StartTime != "" || req.EndTime != ""
	if timed {
		if req.ManualHours != "" {
			return 0, time.Time{}, time.Time{}, "", fmt.Errorf("give either start/end times or manual hours, not both")
		}
		sh, sm, err := parseClock(req.StartTime)
		if err != nil {
			return 0, time.Time{}, time.Time{}, "", err
		}
		eh, em, err := parseClock(req.EndTime)
		if err != nil {
			return 0, time.Time{}, time.Time{}, "", err
		}
		start = day.Add(time.Duration(sh)*time.Hour + time.Duration(sm)*time.Minute)
		end = day.Add(time.Duration(eh)*time.Hour + time.Duration(em)*time.Minute)
		if end.Before(start) {
			// Wrapped past midnight
			end = end.AddDate(0, 0, 1)
		}
		if end.Equal(start) {
			return 0, time.Time{}, time.Time{}, "", fmt.Errorf("end time must differ from start time")
		}
		hours = bundling.Round2(end.Sub(start).Hours())
		return hours, start, end, note, nil
	}

	hours, err = parseManualHours(req.ManualHours)
	if err != nil {
		return 0, time.Time{}, time.Time{}, "", err
	}
	// Manual entries carry the duration only in hours
	return hours, day, day, note, nil
}
