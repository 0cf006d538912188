package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownPolicy = errors.New("unknown relay policy")

// RelayState is the logical state of the grow light relay.
type RelayState bool

const (
	Off RelayState = false
	On  RelayState = true
)

func (s RelayState) String() string {
	if s == On {
		return "ON"
	}
	return "OFF"
}

// Variant selects how the relay reacts to time of day and light quality.
type Variant string

const (
	// Daylight switches the light on during the day window when it is too dark.
	Daylight Variant = "daylight"
	// Schedule switches the light on outside the day window regardless of light.
	Schedule Variant = "schedule"
)

// ParseVariant accepts the configured policy name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Daylight, Schedule:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// ClockTime is a wall clock time of day with minute resolution.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// Window is the half-open day window [Start, End) in local time.
type Window struct {
	Start ClockTime
	End   ClockTime
}

// Contains reports whether now falls inside the window.
func (w Window) Contains(now time.Time) bool {
	tod := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second
	return tod >= w.Start.offset() && tod < w.End.offset()
}

// Relay decides the relay state for one tick.
type Relay struct {
	Variant Variant
	Day     Window
}

func (r Relay) Decide(now time.Time, c Classification) RelayState {
	switch r.Variant {
	case Daylight:
		return RelayState(r.Day.Contains(now) && c.NeedsLight())
	default:
		return RelayState(!r.Day.Contains(now))
	}
}
