package sender

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/smallbiznis/loanhub/internal/config"
	"github.com/smallbiznis/loanhub/internal/notification/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSelectsTransport(t *testing.T) {
	cfg := config.Config{}
	if _, ok := New(Params{Cfg: cfg, Log: zap.NewNop()}).(*LogSender); !ok {
		t.Fatal("expected log sender when smtp disabled")
	}

	cfg.SMTP.Enabled = true
	if _, ok := New(Params{Cfg: cfg, Log: zap.NewNop()}).(*SMTPSender); !ok {
		t.Fatal("expected smtp sender when enabled")
	}
}

func TestSMTPSenderWithoutHostIsDisabled(t *testing.T) {
	s := &SMTPSender{cfg: config.SMTPConfig{Enabled: true}, log: zap.NewNop()}
	err := s.Send(context.Background(), domain.EmailMessage{To: "applicant@example.com"})
	if !errors.Is(err, domain.ErrSenderDisabled) {
		t.Fatalf("expected ErrSenderDisabled, got %v", err)
	}
}

func TestLogSenderRejectsInvalidRecipient(t *testing.T) {
	s := &LogSender{log: zap.NewNop()}
	err := s.Send(context.Background(), domain.EmailMessage{To: "not-an-address"})
	if !errors.Is(err, domain.ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}

func TestLogSenderRecordsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := &LogSender{log: zap.New(core)}

	err := s.Send(context.Background(), domain.EmailMessage{
		To:      "applicant@example.com",
		Subject: "Application received",
		Body:    "body",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	entries := logs.FilterMessage("email suppressed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["to"] != "applicant@example.com" {
		t.Fatalf("unexpected recipient field: %v", entries[0].ContextMap()["to"])
	}
}

func TestBuildPayloadSanitizesSubject(t *testing.T) {
	payload := string(buildPayload("noreply@loanhub.test", "a@b.test", domain.EmailMessage{
		Subject: "line one\r\nBcc: attacker@evil.test",
		Body:    "hello",
	}))
	if want := "Subject: line one  Bcc: attacker@evil.test\r\n"; !strings.Contains(payload, want) {
		t.Fatalf("subject not sanitized:\n%s", payload)
	}
}
