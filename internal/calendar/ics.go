// Package calendar renders booked appointments as iCalendar (RFC 5545)
// events for the download link returned with a booking confirmation.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Event carries the joined appointment, doctor, and patient fields needed to
// render a calendar entry.
type Event struct {
	AppointmentID    int64
	ConfirmationCode string
	Date             string // 2006-01-02
	Time             string // 15:04:05
	DurationMinutes  int
	DoctorName       string
	Specialty        string
	Location         string
	PatientName      string
	Reason           string
}

const icsTimestamp = "20060102T150405"

// BuildICS renders the event as a VCALENDAR document. Times are emitted as
// floating local time, matching how the clinic publishes its schedule.
func BuildICS(ev Event, now time.Time) (string, error) {
	start, err := time.Parse("2006-01-02 15:04:05", ev.Date+" "+ev.Time)
	if err != nil {
		return "", fmt.Errorf("calendar: bad appointment datetime: %w", err)
	}
	duration := time.Duration(ev.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = 30 * time.Minute
	}
	end := start.Add(duration)

	summary := "Appointment with " + escapeText(ev.DoctorName)
	description := "Patient: " + escapeText(ev.PatientName)
	if ev.Reason != "" {
		description += "\\nReason: " + escapeText(ev.Reason)
	}
	description += "\\nConfirmation: " + escapeText(ev.ConfirmationCode)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Oakpoint Clinic//Booking//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + ev.ConfirmationCode + "@oakpointclinic",
		"DTSTAMP:" + now.UTC().Format(icsTimestamp) + "Z",
		"DTSTART:" + start.Format(icsTimestamp),
		"DTEND:" + end.Format(icsTimestamp),
		"SUMMARY:" + summary,
		"DESCRIPTION:" + description,
		"LOCATION:" + escapeText(ev.Location),
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(foldLine(line))
		b.WriteString("\r\n")
	}
	return b.String(), nil
}

// maxLineOctets is the RFC 5545 content line limit before folding.
const maxLineOctets = 75

// foldLine splits a content line into 75-octet chunks joined by CRLF plus a
// single space, without splitting a UTF-8 sequence.
func foldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}
	var b strings.Builder
	width := 0
	limit := maxLineOctets
	for _, r := range line {
		n := utf8.RuneLen(r)
		if width+n > limit {
			b.WriteString("\r\n ")
			width = 0
			// continuation lines lose one octet to the leading space
			limit = maxLineOctets - 1
		}
		b.WriteRune(r)
		width += n
	}
	return b.String()
}

// escapeText escapes commas, semicolons, and backslashes per RFC 5545.
func escapeText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
