package email

import (
	"context"
	"strings"

	"pipeline_backend/internal/events"
	"pipeline_backend/platform/logger"
)

// Notifier turns domain events into emails.
type Notifier struct {
	sender  Sender
	baseURL string
	log     *logger.Logger
}

// NewNotifier subscribes the notifier to the events it mails on.
func NewNotifier(sender Sender, appBaseURL string, bus events.Bus, log *logger.Logger) *Notifier {
	n := &Notifier{
		sender:  sender,
		baseURL: strings.TrimRight(appBaseURL, "/"),
		log:     log,
	}
	bus.Subscribe(events.VendedorProvisioned{}.EventName(), events.HandlerFunc(n.handleVendedorProvisioned))
	return n
}

func (n *Notifier) handleVendedorProvisioned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.VendedorProvisioned)
	if !ok {
		return nil
	}

	name := e.Name
	if name == "" {
		name = e.Email
	}

	if err := n.sender.SendVendedorWelcomeEmail(ctx, e.Email, name, n.baseURL+"/auth"); err != nil {
		n.log.Error("failed to send vendedor welcome email", "userId", e.UserID, "error", err)
		return err
	}

	n.log.Info("vendedor welcome email sent", "userId", e.UserID)
	return nil
}
