package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
	"github.com/oakpointclinic/booking-ai/internal/patients"
)

func newHandlerFixture(open bool) (*Handler, *stubWriter) {
	writer := &stubWriter{id: 11}
	svc := NewService(
		&stubSlots{open: open},
		&stubPatients{patient: &patients.Patient{ID: 7, Name: "Jordan Lee", Email: "jordan@example.com"}},
		&stubDoctors{doctor: &doctors.Doctor{ID: 1, Name: "Dr. Chen", IsActive: true}},
		writer,
		nil, nil, nil,
	)
	return NewHandler(svc, nil), writer
}

func postBody(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/book-appointment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Book(rec, req)
	return rec
}

func TestBookHandlerMissingFieldsIs400(t *testing.T) {
	h, _ := newHandlerFixture(true)

	rec := postBody(h, `{"name": "Jordan Lee"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing required fields") {
		t.Errorf("body should name the missing fields: %s", rec.Body.String())
	}
}

func TestBookHandlerMalformedBodyIs400(t *testing.T) {
	h, _ := newHandlerFixture(true)

	rec := postBody(h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookHandlerSuccess(t *testing.T) {
	h, writer := newHandlerFixture(true)

	rec := postBody(h, `{"name":"Jordan Lee","email":"jordan@example.com","phone":"555-0100","doctorId":1,"date":"2025-09-16","time":"14:00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if writer.callCount != 1 {
		t.Fatalf("want one insert, got %d", writer.callCount)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			AppointmentID    int64  `json:"appointmentId"`
			ConfirmationCode string `json:"confirmationId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.Data.AppointmentID != 11 || envelope.Data.ConfirmationCode == "" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestBookHandlerConflictIs200SuccessFalse(t *testing.T) {
	writer := &stubWriter{id: 11}
	svc := NewService(
		&stubSlots{open: false, alternatives: []availability.Slot{
			{DoctorID: 1, Date: "2025-09-17", Time: "09:00:00"},
		}},
		&stubPatients{patient: &patients.Patient{ID: 7}},
		&stubDoctors{doctor: &doctors.Doctor{ID: 1, Name: "Dr. Chen", IsActive: true}},
		writer,
		nil, nil, nil,
	)
	h := NewHandler(svc, nil)

	rec := postBody(h, `{"name":"Jordan Lee","email":"jordan@example.com","phone":"555-0100","doctorId":1,"date":"2025-09-16","time":"14:00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("conflicts ride on 200, got %d", rec.Code)
	}

	var payload conflictPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Success || payload.Available {
		t.Error("conflict body must report success=false available=false")
	}
	if len(payload.Alternatives) != 1 {
		t.Errorf("want 1 alternative, got %d", len(payload.Alternatives))
	}
}
