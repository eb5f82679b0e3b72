package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/booking"
	"github.com/oakpointclinic/booking-ai/internal/observability/metrics"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

var tracer = otel.Tracer("clinic.internal.assistant")

const (
	defaultTurnTimeout = 30 * time.Second
	maxReplyTokens     = 1024
)

type snapshotProvider interface {
	Get(ctx context.Context) (*Snapshot, error)
	Invalidate(ctx context.Context)
}

type booker interface {
	Book(ctx context.Context, req *booking.Request) (*booking.Confirmation, error)
}

// Service drives the conversational booking flow. Every turn is stateless on
// the server side: the client replays history, the schedule snapshot supplies
// the facts, and the model (or the rule fallback) picks the reply.
type Service struct {
	snapshots  snapshotProvider
	llm        LLMClient
	model      string
	timeout    time.Duration
	clinicName string
	booking    booker
	metrics    *metrics.AssistantMetrics
	logger     *logging.Logger
}

// Config carries the assistant wiring. LLM may be nil, which forces the rule
// fallback on every turn.
type Config struct {
	Snapshots  snapshotProvider
	LLM        LLMClient
	Model      string
	Timeout    time.Duration
	ClinicName string
	Booking    booker
	Metrics    *metrics.AssistantMetrics
	Logger     *logging.Logger
}

func NewService(cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTurnTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		snapshots:  cfg.Snapshots,
		llm:        cfg.LLM,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		clinicName: cfg.ClinicName,
		booking:    cfg.Booking,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Chat answers one free-text turn. The model is given a bounded slice of the
// conversation plus the live schedule; any model failure degrades to the
// deterministic fallback rather than an error.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (Response, error) {
	ctx, span := tracer.Start(ctx, "assistant.chat")
	defer span.End()

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		s.metrics.ObserveChat("chat", "error")
		return Response{}, fmt.Errorf("assistant: load schedule: %w", err)
	}

	if s.llm == nil {
		span.SetAttributes(attribute.String("clinic.assistant.path", "fallback"))
		s.metrics.ObserveChat("chat", "fallback")
		return Fallback(req.Message, snap), nil
	}

	resp, ok := s.askModel(ctx, req, snap)
	if !ok {
		span.SetAttributes(attribute.String("clinic.assistant.path", "fallback"))
		s.metrics.ObserveChat("chat", "fallback")
		return Fallback(req.Message, snap), nil
	}
	span.SetAttributes(attribute.String("clinic.assistant.path", "llm"))
	s.metrics.ObserveChat("chat", "llm")
	return resp, nil
}

func (s *Service) askModel(ctx context.Context, req ChatRequest, snap *Snapshot) (Response, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := make([]ChatMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := ChatRoleUser
		if turn.Role == ChatRoleAssistant {
			role = ChatRoleAssistant
		}
		messages = append(messages, ChatMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: req.Message})

	start := time.Now()
	llmResp, err := s.llm.Complete(ctx, LLMRequest{
		System:      BuildPrompt(s.clinicName, snap),
		Messages:    messages,
		MaxTokens:   maxReplyTokens,
		Temperature: 0.4,
	})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.ObserveLLMLatency(s.model, "error", elapsed)
		s.logger.Warn("assistant: model call failed, using fallback", "model", s.model, "error", err)
		return Response{}, false
	}
	s.metrics.ObserveLLMLatency(s.model, "ok", elapsed)
	s.logger.Debug("assistant: model reply",
		"model", s.model,
		"input_tokens", llmResp.Usage.InputTokens,
		"output_tokens", llmResp.Usage.OutputTokens,
	)

	resp, ok := parseModelReply(llmResp.Text)
	if !ok {
		s.logger.Warn("assistant: unparseable model reply, using fallback", "model", s.model)
	}
	return resp, ok
}

// parseModelReply extracts the structured reply from raw model output,
// tolerating markdown fences and prose around the JSON object.
func parseModelReply(raw string) (Response, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	jsonText := raw
	if !strings.HasPrefix(jsonText, "{") {
		start := strings.Index(jsonText, "{")
		end := strings.LastIndex(jsonText, "}")
		if start >= 0 && end > start {
			jsonText = jsonText[start : end+1]
		}
	}

	var resp Response
	if err := json.Unmarshal([]byte(jsonText), &resp); err != nil {
		return Response{}, false
	}
	if strings.TrimSpace(resp.Content) == "" {
		return Response{}, false
	}

	kept := resp.Actions[:0]
	for _, a := range resp.Actions {
		switch a.Type {
		case ActionSelectDoctor, ActionSelectAppointment, ActionCollectContact, ActionDownloadCalendar, ActionRestart:
			kept = append(kept, a)
		}
	}
	resp.Actions = kept
	return resp, true
}

// SelectDoctor answers a doctor-button click with that doctor's open slots.
func (s *Service) SelectDoctor(ctx context.Context, doctorID int64) (Response, error) {
	s.metrics.ObserveChat("select_doctor", "direct")

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("assistant: load schedule: %w", err)
	}
	d, ok := snap.DoctorByID(doctorID)
	if !ok {
		return Response{
			Content: "That doctor is no longer accepting bookings. Here is who is available:",
			Actions: doctorActions(snap.Doctors),
		}, nil
	}
	return slotOffer(d, snap), nil
}

// SelectAppointment answers a slot-button click. The slot is re-checked
// against the current snapshot; a slot that has since closed comes back as a
// normal reply offering alternatives, with ok=false.
func (s *Service) SelectAppointment(ctx context.Context, slotRef string) (Response, bool, error) {
	s.metrics.ObserveChat("select_appointment", "direct")

	ref, err := availability.ParseRef(slotRef)
	if err != nil {
		return Response{}, false, err
	}

	snap, err := s.snapshots.Get(ctx)
	if err != nil {
		return Response{}, false, fmt.Errorf("assistant: load schedule: %w", err)
	}

	if !snapshotHasSlot(snap, ref) {
		actions := make([]Action, 0, slotActionCap+1)
		for _, alt := range snap.Slots[ref.DoctorID] {
			if len(actions) == slotActionCap {
				break
			}
			actions = append(actions, Action{
				Type: ActionSelectAppointment,
				Text: fmt.Sprintf("%s at %s", alt.Date, shortClock(alt.Time)),
				Data: fmt.Sprintf("%d,%s,%s", alt.DoctorID, alt.Date, alt.Time),
			})
		}
		actions = append(actions, Action{Type: ActionRestart, Text: "Start over"})
		return Response{
			Content: "That time is no longer available. Here are the current openings:",
			Actions: actions,
		}, false, nil
	}

	doctorName := "the doctor"
	if d, ok := snap.DoctorByID(ref.DoctorID); ok {
		doctorName = d.Name
	}
	return Response{
		Content: fmt.Sprintf("Great, %s on %s at %s. I just need your name, email, and phone number to finish.",
			doctorName, ref.Date, shortClock(ref.Time)),
		Actions: []Action{
			{Type: ActionCollectContact, Text: "Enter your details", Data: ref.Composite()},
			{Type: ActionRestart, Text: "Start over"},
		},
	}, true, nil
}

func snapshotHasSlot(snap *Snapshot, ref availability.Ref) bool {
	for _, s := range snap.Slots[ref.DoctorID] {
		if s.Date == ref.Date && s.Time == ref.Time {
			return true
		}
	}
	return false
}

// CompleteRequest is the final step: contact details plus the chosen slot.
type CompleteRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	AppointmentData string `json:"appointmentData"` // slot reference "doctorId,date,time"
	Reason          string `json:"reason"`
}

// CompleteBooking runs the booking workflow for a conversational session and
// shapes the outcome as a chat reply. A lost slot comes back as a normal
// Response offering alternatives, with ok=false.
func (s *Service) CompleteBooking(ctx context.Context, req CompleteRequest) (Response, bool, error) {
	s.metrics.ObserveChat("complete_booking", "direct")

	ref, err := availability.ParseRef(req.AppointmentData)
	if err != nil {
		return Response{}, false, err
	}

	conf, err := s.booking.Book(ctx, &booking.Request{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		DoctorID: ref.DoctorID,
		Date:     ref.Date,
		Time:     ref.Time,
		Reason:   req.Reason,
	})

	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		actions := make([]Action, 0, len(conflict.Alternatives)+1)
		for _, alt := range conflict.Alternatives {
			actions = append(actions, Action{
				Type: ActionSelectAppointment,
				Text: fmt.Sprintf("%s at %s", alt.Date, shortClock(alt.Time)),
				Data: fmt.Sprintf("%d,%s,%s", alt.DoctorID, alt.Date, alt.Time),
			})
		}
		actions = append(actions, Action{Type: ActionRestart, Text: "Start over"})
		return Response{
			Content: "That time was just taken. Here are the nearest openings:",
			Actions: actions,
		}, false, nil
	}
	if err != nil {
		return Response{}, false, err
	}

	s.snapshots.Invalidate(ctx)

	return Response{
		Content: fmt.Sprintf("You're booked with %s on %s at %s. Your confirmation code is %s.",
			conf.DoctorName, conf.Date, shortClock(conf.Time), conf.ConfirmationCode),
		Actions: []Action{
			{Type: ActionDownloadCalendar, Text: "Add to calendar", Data: fmt.Sprintf("%d", conf.AppointmentID)},
			{Type: ActionRestart, Text: "Book another appointment"},
		},
	}, true, nil
}
