package email

import (
	"context"
	"strings"
	"testing"

	"pipeline_backend/internal/events"
	"pipeline_backend/platform/logger"

	"github.com/google/uuid"
)

func TestWelcomeTemplateEscapesName(t *testing.T) {
	html, err := renderEmailTemplate("vendedor_welcome.html", vendedorWelcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    subjectVendedorWelcome,
			Heading:  "Sua conta de vendedor está pronta",
			CTALabel: "Acessar o Pipeline",
			CTAURL:   "https://pipeline.example.com/auth",
		},
		Name:  "<b>Ana</b>",
		Email: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("expected template to render, got %v", err)
	}

	if strings.Contains(html, "<b>Ana</b>") {
		t.Fatalf("expected name to be escaped")
	}
	if !strings.Contains(html, "ana@example.com") || !strings.Contains(html, "https://pipeline.example.com/auth") {
		t.Fatalf("expected email and sign-in link in body")
	}
}

func TestBuildMessageRejectsBadRecipient(t *testing.T) {
	s := NewSMTPSender("localhost", 25, "", "", "no-reply@example.com", "Pipeline")
	if _, err := s.buildMessage("not-an-address", subjectVendedorWelcome, "<p>x</p>"); err == nil {
		t.Fatalf("expected invalid recipient to fail")
	}
	if _, err := s.buildMessage("ana@example.com", subjectVendedorWelcome, "<p>x</p>"); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
}

type recordingSender struct {
	to, name, url string
}

func (r *recordingSender) SendVendedorWelcomeEmail(_ context.Context, toEmail, name, signInURL string) error {
	r.to, r.name, r.url = toEmail, name, signInURL
	return nil
}

type captureBus struct {
	handlers map[string]events.Handler
}

func (b *captureBus) Publish(context.Context, events.Event) {}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	if h, ok := b.handlers[event.EventName()]; ok {
		return h.Handle(ctx, event)
	}
	return nil
}

func (b *captureBus) Subscribe(name string, handler events.Handler) {
	b.handlers[name] = handler
}

func TestNotifierSendsWelcomeOnProvision(t *testing.T) {
	sender := &recordingSender{}
	bus := &captureBus{handlers: make(map[string]events.Handler)}
	NewNotifier(sender, "https://pipeline.example.com/", bus, logger.Discard())

	err := bus.PublishSync(context.Background(), events.VendedorProvisioned{
		BaseEvent: events.NewBaseEvent(),
		UserID:    uuid.New(),
		Email:     "ana@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sender.to != "ana@example.com" || sender.name != "ana@example.com" {
		t.Fatalf("expected email used as name fallback, got to=%q name=%q", sender.to, sender.name)
	}
	if sender.url != "https://pipeline.example.com/auth" {
		t.Fatalf("expected sign-in url, got %q", sender.url)
	}
}
