// Package mailer отправляет письма активации учётной записи.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/lib/smtp"
)

const activationSubject = "Account activation"

var activationTemplate = template.Must(template.New("activation").Parse(`<div>
  <b>Please click below link to activate your account</b>
</div>
<div>
  <a href="{{.Link}}">Activate</a>
</div>
`))

// Mailer формирует и отправляет письма через SMTP транспорт.
type Mailer struct {
	transport     smtp.TransportInterface
	log           *slog.Logger
	activationURL string
}

// New создает новый экземпляр Mailer. activationURL содержит один глагол %s
// для подстановки токена.
func New(transport smtp.TransportInterface, log *slog.Logger, activationURL string) *Mailer {
	return &Mailer{
		transport:     transport,
		log:           log,
		activationURL: activationURL,
	}
}

// SendActivationEmail отправляет письмо со ссылкой активации на адрес to.
// Возвращает ошибку, если письмо не было принято SMTP сервером.
func (m *Mailer) SendActivationEmail(ctx context.Context, to, token string) error {
	const op = "mailer.SendActivationEmail"

	var body bytes.Buffer
	if err := activationTemplate.Execute(&body, struct{ Link string }{
		Link: fmt.Sprintf(m.activationURL, token),
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.send(ctx, to, activationSubject, body.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sender := m.transport.Sender()
	from, err := mail.ParseAddress(sender)
	if err != nil {
		return fmt.Errorf("invalid sender address %q: %w", sender, err)
	}

	msg := strings.Join([]string{
		"From: " + from.String(),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		html,
	}, "\r\n")

	client, err := m.transport.Connect(ctx)
	if err != nil {
		m.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err = client.Mail(from.Address); err != nil {
		m.log.Error("failed to set MAIL FROM", slog.String("from", from.Address), sl.Err(err))
		return err
	}
	if err = client.Rcpt(to); err != nil {
		m.log.Error("failed to set RCPT TO", sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		m.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		m.log.Error("failed to write email body", sl.Err(err))
		_ = wc.Close()
		return err
	}
	if err = wc.Close(); err != nil {
		m.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		m.log.Warn("failed to quit SMTP client", sl.Err(err))
	}

	m.log.Info("activation email sent")
	return nil
}
