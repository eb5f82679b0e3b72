package assistant

import (
	"fmt"
	"strings"
)

const replyContract = `You are the online booking assistant for %s.
Help patients find a doctor and book an appointment. Be warm and brief.

Respond ONLY with a JSON object of this exact shape, no prose outside it:
{"content": "<message to the patient>", "actions": [{"type": "...", "text": "...", "data": "..."}]}

Allowed action types:
- "select_doctor": data is the doctor id as a string
- "select_appointment": data is "doctorId,date,time" for one of the open slots listed below
- "collect_contact": data is "" (use when the patient has picked a slot and you need their details)
- "restart": data is ""

Rules:
- Only offer slots that appear in the schedule below. Never invent times.
- When the patient names a specialty or doctor, offer matching doctors or their slots.
- When nothing matches, say so and offer the doctor list.
- Do not give medical advice.`

// BuildPrompt renders the system instruction for one conversational turn,
// embedding the live schedule so the model can only offer real slots.
func BuildPrompt(clinicName string, snap *Snapshot) []string {
	if strings.TrimSpace(clinicName) == "" {
		clinicName = "the clinic"
	}

	var sched strings.Builder
	sched.WriteString("Current schedule (next 7 days):\n")
	if snap == nil || len(snap.Doctors) == 0 {
		sched.WriteString("No doctors are currently accepting bookings.\n")
	}
	if snap != nil {
		for _, d := range snap.Doctors {
			fmt.Fprintf(&sched, "Doctor %d: %s, %s", d.ID, d.Name, d.Specialty)
			if d.Location != "" {
				fmt.Fprintf(&sched, " (%s)", d.Location)
			}
			sched.WriteString("\n")
			slots := snap.Slots[d.ID]
			if len(slots) == 0 {
				sched.WriteString("  no open slots\n")
				continue
			}
			for _, s := range slots {
				fmt.Fprintf(&sched, "  %s %s\n", s.Date, s.Time)
			}
		}
	}

	return []string{
		fmt.Sprintf(replyContract, clinicName),
		sched.String(),
	}
}
