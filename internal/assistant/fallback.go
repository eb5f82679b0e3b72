package assistant

import (
	"fmt"
	"strings"

	"github.com/oakpointclinic/booking-ai/internal/doctors"
)

// specialtyKeywords maps lay phrasing to the specialty it implies. Ordered so
// a message touching two specialties always resolves the same way.
var specialtyKeywords = []struct {
	keyword   string
	specialty string
}{
	{"cardiologist", "Cardiology"},
	{"cardiology", "Cardiology"},
	{"heart", "Cardiology"},
	{"dermatologist", "Dermatology"},
	{"dermatology", "Dermatology"},
	{"skin", "Dermatology"},
	{"pediatrician", "Pediatrics"},
	{"pediatrics", "Pediatrics"},
	{"child", "Pediatrics"},
	{"kid", "Pediatrics"},
	{"orthopedic", "Orthopedics"},
	{"bone", "Orthopedics"},
	{"joint", "Orthopedics"},
	{"neurologist", "Neurology"},
	{"neurology", "Neurology"},
	{"headache", "Neurology"},
	{"family doctor", "General Medicine"},
	{"general", "General Medicine"},
	{"checkup", "General Medicine"},
	{"check-up", "General Medicine"},
}

const slotActionCap = 6

// Fallback produces a deterministic reply from the snapshot alone. It is the
// answer of record whenever the model is unreachable, times out, or returns
// something unparseable, so the patient always gets a usable next step.
func Fallback(message string, snap *Snapshot) Response {
	if snap == nil {
		snap = &Snapshot{}
	}
	text := strings.ToLower(strings.TrimSpace(message))

	matched := matchDoctors(text, snap.Doctors)

	switch {
	case len(matched) == 1:
		return slotOffer(matched[0], snap)
	case len(matched) > 1:
		return doctorMenu(
			fmt.Sprintf("We have %d doctors who may fit. Who would you like to see?", len(matched)),
			matched,
		)
	case text == "" || isGreeting(text):
		return doctorMenu("Hi! I can help you book an appointment. Which doctor would you like to see?", snap.Doctors)
	default:
		return doctorMenu("I couldn't match that to one of our doctors. Here is who is available:", snap.Doctors)
	}
}

// matchDoctors finds doctors implied by the message, by specialty keyword or
// by name substring in either direction.
func matchDoctors(text string, all []doctors.Doctor) []doctors.Doctor {
	if text == "" {
		return nil
	}

	var wantSpecialty string
	for _, kw := range specialtyKeywords {
		if strings.Contains(text, kw.keyword) {
			wantSpecialty = kw.specialty
			break
		}
	}

	var matched []doctors.Doctor
	for _, d := range all {
		name := strings.ToLower(d.Name)
		if wantSpecialty != "" && strings.EqualFold(d.Specialty, wantSpecialty) {
			matched = append(matched, d)
			continue
		}
		if strings.Contains(text, name) || strings.Contains(name, text) {
			matched = append(matched, d)
		}
	}
	return matched
}

func slotOffer(d doctors.Doctor, snap *Snapshot) Response {
	slots := snap.Slots[d.ID]
	if len(slots) == 0 {
		return Response{
			Content: fmt.Sprintf("%s has no open slots in the next week. Would you like to see another doctor?", d.Name),
			Actions: doctorActions(snap.Doctors),
		}
	}

	actions := make([]Action, 0, slotActionCap)
	for _, s := range slots {
		if len(actions) == slotActionCap {
			break
		}
		actions = append(actions, Action{
			Type: ActionSelectAppointment,
			Text: fmt.Sprintf("%s at %s", s.Date, shortClock(s.Time)),
			Data: fmt.Sprintf("%d,%s,%s", s.DoctorID, s.Date, s.Time),
		})
	}
	return Response{
		Content: fmt.Sprintf("%s (%s) has these openings. Pick a time that works for you.", d.Name, d.Specialty),
		Actions: actions,
	}
}

func doctorMenu(content string, list []doctors.Doctor) Response {
	if len(list) == 0 {
		return Response{Content: "No doctors are currently accepting bookings. Please check back soon."}
	}
	return Response{Content: content, Actions: doctorActions(list)}
}

func doctorActions(list []doctors.Doctor) []Action {
	actions := make([]Action, 0, len(list))
	for _, d := range list {
		actions = append(actions, Action{
			Type: ActionSelectDoctor,
			Text: fmt.Sprintf("%s (%s)", d.Name, d.Specialty),
			Data: fmt.Sprintf("%d", d.ID),
		})
	}
	return actions
}

func isGreeting(text string) bool {
	for _, g := range []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"} {
		if text == g || strings.HasPrefix(text, g+" ") || strings.HasPrefix(text, g+",") || strings.HasPrefix(text, g+"!") {
			return true
		}
	}
	return false
}

// shortClock trims seconds off a HH:MM:SS clock for display.
func shortClock(clock string) string {
	if len(clock) == 8 {
		return clock[:5]
	}
	return clock
}
