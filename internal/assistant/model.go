// Package assistant turns free-text patient messages into structured replies
// with clickable follow-up actions, backed by a hosted language model and a
// deterministic rule fallback.
package assistant

// Action types the web widget knows how to render.
const (
	ActionSelectDoctor      = "select_doctor"
	ActionSelectAppointment = "select_appointment"
	ActionCollectContact    = "collect_contact"
	ActionDownloadCalendar  = "download_calendar"
	ActionRestart           = "restart"
)

// Action is a single clickable follow-up offered to the patient. Data is the
// opaque payload the widget posts back, e.g. a doctor id or a slot reference.
type Action struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Data string `json:"data"`
}

// Response is the assistant's reply for one conversational turn.
type Response struct {
	Content string   `json:"content"`
	Actions []Action `json:"actions"`
}

// Turn is one prior exchange supplied by the client for context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound payload for a conversational turn.
type ChatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}
