package notify

import (
	"context"
	"strings"
	"testing"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "clinic@example.com"}, nil)
	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "clinic@example.com"}, nil)
	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Oakpoint Clinic" {
		t.Errorf("expected default from name, got %q", sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{}
	err := sender.Send(context.Background(), EmailMessage{To: "p@example.com", Subject: "Test", Body: "Body"})
	if err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestBookingConfirmationEmail(t *testing.T) {
	msg := BookingConfirmationEmail("Jane Roe", "jane@example.com", "Dr. Maya Chen", "2025-09-16", "14:00:00", "abc-123")
	if msg.To != "jane@example.com" {
		t.Errorf("unexpected recipient %q", msg.To)
	}
	if !strings.Contains(msg.Body, "Dr. Maya Chen") || !strings.Contains(msg.Body, "abc-123") {
		t.Errorf("body missing booking details: %s", msg.Body)
	}
	if !strings.Contains(msg.Subject, "2025-09-16") {
		t.Errorf("subject missing date: %s", msg.Subject)
	}
}
