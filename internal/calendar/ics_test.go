package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestBuildICSEncodesStartAndEnd(t *testing.T) {
	ev := Event{
		AppointmentID:    42,
		ConfirmationCode: "9f1c2d3e",
		Date:             "2025-09-16",
		Time:             "14:00:00",
		DurationMinutes:  30,
		DoctorName:       "Dr. Maria Alvarez",
		PatientName:      "Jordan Lee",
		Location:         "12 Harbor St, Portland",
	}
	now := time.Date(2025, 9, 15, 8, 0, 0, 0, time.UTC)

	body, err := BuildICS(ev, now)
	if err != nil {
		t.Fatalf("BuildICS: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"DTSTART:20250916T140000",
		"DTEND:20250916T143000",
		"UID:9f1c2d3e@oakpointclinic",
		"DTSTAMP:20250915T080000Z",
		"SUMMARY:Appointment with Dr. Maria Alvarez",
		"LOCATION:12 Harbor St\\, Portland",
		"END:VCALENDAR",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}
	if !strings.Contains(body, "\r\n") {
		t.Error("expected CRLF line endings")
	}
}

func TestBuildICSDefaultsDuration(t *testing.T) {
	ev := Event{
		ConfirmationCode: "abc",
		Date:             "2025-09-16",
		Time:             "09:00:00",
		DoctorName:       "Dr. Chen",
		PatientName:      "Sam",
	}
	body, err := BuildICS(ev, time.Now())
	if err != nil {
		t.Fatalf("BuildICS: %v", err)
	}
	if !strings.Contains(body, "DTEND:20250916T093000") {
		t.Errorf("expected 30 minute default duration, got:\n%s", body)
	}
}

func TestBuildICSEscapesDescriptionFields(t *testing.T) {
	ev := Event{
		ConfirmationCode: "code;1",
		Date:             "2025-09-16",
		Time:             "09:00:00",
		DoctorName:       "Dr. Lee, MD",
		PatientName:      "Doe, Jane",
	}
	body, err := BuildICS(ev, time.Now())
	if err != nil {
		t.Fatalf("BuildICS: %v", err)
	}
	for _, want := range []string{
		"SUMMARY:Appointment with Dr. Lee\\, MD",
		"DESCRIPTION:Patient: Doe\\, Jane\\nConfirmation: code\\;1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in:\n%s", want, body)
		}
	}
}

func TestBuildICSFoldsLongLines(t *testing.T) {
	ev := Event{
		ConfirmationCode: "abc",
		Date:             "2025-09-16",
		Time:             "09:00:00",
		DoctorName:       "Dr. Chen",
		PatientName:      "Sam",
		Reason:           strings.Repeat("follow up on lab work ", 10),
	}
	body, err := BuildICS(ev, time.Now())
	if err != nil {
		t.Fatalf("BuildICS: %v", err)
	}
	for _, line := range strings.Split(body, "\r\n") {
		if len(line) > 75 {
			t.Errorf("unfolded line of %d octets: %q", len(line), line)
		}
	}
	unfolded := strings.ReplaceAll(body, "\r\n ", "")
	if !strings.Contains(unfolded, "Reason: "+strings.Repeat("follow up on lab work ", 10)) {
		t.Error("folding must not change the unfolded content")
	}
}

func TestBuildICSRejectsBadDate(t *testing.T) {
	if _, err := BuildICS(Event{Date: "tomorrow", Time: "09:00:00"}, time.Now()); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
