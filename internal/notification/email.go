package notification

import (
	"context"
	"fmt"
	"grocery_store/internal/config"

	"github.com/wneessen/go-mail"
)

// EmailNotifier mails the admin address configured in SMTPConfig, and the
// customer for payment-started events.
type EmailNotifier struct {
	cfg config.SMTPConfig
}

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Notify(ctx context.Context, order OrderSnapshot) error {
	msg, err := n.adminMessage(order)
	if err != nil {
		return err
	}
	msgs := []*mail.Msg{msg}
	if order.NotifiesCustomer() {
		customer, err := n.customerMessage(order)
		if err != nil {
			return err
		}
		msgs = append(msgs, customer)
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to send order email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) adminMessage(order OrderSnapshot) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(n.cfg.AdminEmail); err != nil {
		return nil, fmt.Errorf("invalid admin address: %w", err)
	}
	if order.CustomerEmail != "" {
		if err := msg.ReplyTo(order.CustomerEmail); err != nil {
			return nil, fmt.Errorf("invalid customer address: %w", err)
		}
	}
	msg.Subject(order.Subject())
	msg.SetBodyString(mail.TypeTextPlain, order.Body())
	return msg, nil
}

func (n *EmailNotifier) customerMessage(order OrderSnapshot) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(order.CustomerEmail); err != nil {
		return nil, fmt.Errorf("invalid customer address: %w", err)
	}
	msg.Subject(order.CustomerSubject())
	msg.SetBodyString(mail.TypeTextPlain, order.CustomerBody())
	return msg, nil
}
