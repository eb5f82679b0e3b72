// Package availability computes bookable slots from recurring weekly windows,
// existing appointments, and one-off blocked ranges.
package availability

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindowDays is the rolling window shown to patients.
	DefaultWindowDays = 7
	// DefaultSlotCap bounds the number of slots returned per query.
	DefaultSlotCap = 100

	dateLayout = "2006-01-02"
)

// Window is a per-doctor recurring weekly availability range. Each window row
// represents one bookable slot starting at StartTime.
type Window struct {
	ID        int64        `json:"id"`
	DoctorID  int64        `json:"doctorId"`
	DayOfWeek time.Weekday `json:"dayOfWeek"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	IsActive  bool         `json:"isActive"`
}

// TakenSlot marks a (date, time) already held by a non-cancelled appointment.
type TakenSlot struct {
	Date string
	Time string
}

// Block is a one-off date + time range override that removes availability
// regardless of the recurring template. Both bounds are inclusive.
type Block struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Slot is a bookable (doctor, date, time) combination.
type Slot struct {
	DoctorID int64  `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// Ref identifies a slot on the wire. It replaces the ad hoc
// "doctorId,date,time" composite with a validated record.
type Ref struct {
	DoctorID int64
	Date     string
	Time     string
}

// ErrBadSlotRef indicates a composite that does not parse into a valid Ref.
var ErrBadSlotRef = errors.New("availability: malformed slot reference")

// ParseRef strictly parses a "doctorId,date,time" composite.
func ParseRef(composite string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(composite), ",")
	if len(parts) != 3 {
		return Ref{}, fmt.Errorf("%w: want doctorId,date,time", ErrBadSlotRef)
	}
	doctorID, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || doctorID < 1 {
		return Ref{}, fmt.Errorf("%w: bad doctor id %q", ErrBadSlotRef, parts[0])
	}
	date := strings.TrimSpace(parts[1])
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Ref{}, fmt.Errorf("%w: bad date %q", ErrBadSlotRef, parts[1])
	}
	clock, err := NormalizeTime(strings.TrimSpace(parts[2]))
	if err != nil {
		return Ref{}, fmt.Errorf("%w: bad time %q", ErrBadSlotRef, parts[2])
	}
	return Ref{DoctorID: doctorID, Date: date, Time: clock}, nil
}

// Composite renders the Ref back to the wire form consumed by the selection
// endpoints.
func (r Ref) Composite() string {
	return fmt.Sprintf("%d,%s,%s", r.DoctorID, r.Date, r.Time)
}

// Weekday returns the day-of-week of the Ref's date.
func (r Ref) Weekday() (time.Weekday, error) {
	d, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return 0, fmt.Errorf("%w: bad date %q", ErrBadSlotRef, r.Date)
	}
	return d.Weekday(), nil
}

// NormalizeTime canonicalizes HH:MM or HH:MM:SS clock strings to HH:MM:SS so
// lexicographic comparison orders them correctly.
func NormalizeTime(clock string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("availability: bad clock value %q", clock)
}

// ComputeOpenSlots derives the open slots for one doctor over a rolling window
// of days starting at from. Each active weekly window contributes a slot at
// its start time; slots already taken by a non-cancelled appointment, or
// falling inside a blocked range (bounds inclusive), are excluded. Results are
// ordered by date then time and capped.
func ComputeOpenSlots(doctorID int64, windows []Window, taken []TakenSlot, blocks []Block, from time.Time, days, limit int) []Slot {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if limit <= 0 {
		limit = DefaultSlotCap
	}

	byDay := make(map[time.Weekday][]Window)
	for _, w := range windows {
		if !w.IsActive {
			continue
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}
	takenSet := make(map[TakenSlot]struct{}, len(taken))
	for _, ts := range taken {
		takenSet[ts] = struct{}{}
	}

	slots := []Slot{}
	for offset := 0; offset < days; offset++ {
		day := from.AddDate(0, 0, offset)
		date := day.Format(dateLayout)
		dayWindows := byDay[day.Weekday()]
		sort.Slice(dayWindows, func(i, j int) bool { return dayWindows[i].StartTime < dayWindows[j].StartTime })

		for _, w := range dayWindows {
			slot := Slot{DoctorID: doctorID, Date: date, Time: w.StartTime}
			if _, held := takenSet[TakenSlot{Date: date, Time: w.StartTime}]; held {
				continue
			}
			if blocked(blocks, date, w.StartTime) {
				continue
			}
			slots = append(slots, slot)
			if len(slots) >= limit {
				return slots
			}
		}
	}
	return slots
}

// blocked reports whether clock falls inside any block for the date, treating
// both range bounds as inclusive.
func blocked(blocks []Block, date, clock string) bool {
	for _, b := range blocks {
		if b.Date != date {
			continue
		}
		if b.StartTime <= clock && clock <= b.EndTime {
			return true
		}
	}
	return false
}
