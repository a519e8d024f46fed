package main

import (
	"strings"
	"testing"
)

func TestReminderKind(t *testing.T) {
	if got := reminderKind("rental.reminder.delivery.due.v1"); got != "delivery" {
		t.Fatalf("kind = %q, want delivery", got)
	}
	if got := reminderKind("rental.reminder.pickup.due.v1"); got != "pickup" {
		t.Fatalf("kind = %q, want pickup", got)
	}
	if got := reminderKind(""); got != "delivery" {
		t.Fatalf("kind = %q, want delivery fallback", got)
	}
}

func TestBuildMessageDelivery(t *testing.T) {
	subject, body := buildMessage("delivery", reminderPayload{
		ClientName: "João Silva",
		Site:       "Centro de Convenções Anhembi",
		Address:    "Av. Olavo Fontoura, 1209",
		HoldStart:  "2024-06-10T03:00:00Z",
		HoldEnd:    "2024-06-12T15:00:00Z",
	})
	if !strings.Contains(subject, "entrega") {
		t.Fatalf("subject = %q, want delivery wording", subject)
	}
	if !strings.Contains(body, "João Silva") || !strings.Contains(body, "10/06/2024 03:00") {
		t.Fatalf("body = %q, want client name and formatted hold start", body)
	}
	if !strings.Contains(body, "Av. Olavo Fontoura") {
		t.Fatalf("body = %q, want address", body)
	}
}

func TestBuildMessagePickupUsesHoldEnd(t *testing.T) {
	subject, body := buildMessage("pickup", reminderPayload{
		ClientName: "Maria Santos",
		Site:       "Villa Country",
		HoldStart:  "2024-06-10T03:00:00Z",
		HoldEnd:    "2024-06-12T15:00:00Z",
	})
	if !strings.Contains(subject, "retirada") {
		t.Fatalf("subject = %q, want pickup wording", subject)
	}
	if !strings.Contains(body, "12/06/2024 15:00") {
		t.Fatalf("body = %q, want formatted hold end", body)
	}
}

func TestBuildMessageDefaultsName(t *testing.T) {
	_, body := buildMessage("delivery", reminderPayload{Site: "Galpão", HoldStart: "2024-06-10T03:00:00Z"})
	if !strings.Contains(body, "Olá cliente") {
		t.Fatalf("body = %q, want generic greeting", body)
	}
}
