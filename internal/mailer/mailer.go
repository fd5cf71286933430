// Package mailer delivers invoices over authenticated SMTP with implicit TLS.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"invoice-backend/internal/config"
)

const pdfContentType mail.ContentType = "application/pdf"

// ErrDisabled is returned when no SMTP server is configured.
var ErrDisabled = errors.New("email delivery is not configured")

// Message is one plain text email with an optional PDF attachment.
type Message struct {
	From           string
	To             string
	Subject        string
	Body           string
	Attachment     []byte
	AttachmentName string
}

// Sender hands a built message to the mail server.
type Sender interface {
	Send(ctx context.Context, msg *mail.Msg) error
}

type Mailer struct {
	sender Sender
}

func New(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// Send builds msg as multipart/mixed and delivers it.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	built, err := Build(msg)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, built); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	return nil
}

// Build assembles the MIME message.
func Build(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if msg.Attachment != nil {
		err := m.AttachReader(msg.AttachmentName, bytes.NewReader(msg.Attachment),
			mail.WithFileContentType(pdfContentType))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", msg.AttachmentName, err)
		}
	}
	return m, nil
}

// SMTPSender opens one SMTPS connection per message.
type SMTPSender struct {
	client *mail.Client
}

func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.SMTP.Host,
		mail.WithPort(cfg.SMTP.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTP.Username),
		mail.WithPassword(cfg.SMTP.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("configure smtp client: %w", err)
	}
	return &SMTPSender{client: client}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg *mail.Msg) error {
	return s.client.DialAndSendWithContext(ctx, msg)
}
