package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/report"
)

// Dialer sends fully built messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	dialer Dialer
	from   string
}

// NewMailer returns a Mailer for the SMTP relay at host. An empty host
// yields a Mailer whose sends always fail with ErrEmailDelivery.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	if strings.TrimSpace(host) == "" {
		return &Mailer{from: from}
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func NewMailerWithDialer(dialer Dialer, from string) *Mailer {
	return &Mailer{dialer: dialer, from: from}
}

func (m *Mailer) Configured() bool {
	return m != nil && m.dialer != nil
}

// Send renders data in format and mails it to the given address. Only PDF and
// Excel attachments are supported. Failures are reported once; nothing is
// retried.
func (m *Mailer) Send(ctx context.Context, to string, data report.Data, format Format) error {
	if format != FormatPDF && format != FormatExcel {
		return fmt.Errorf("%w: email supports pdf or excel, got %q", ErrUnknownFormat, format)
	}
	if !m.Configured() {
		return fmt.Errorf("%w: smtp is not configured", domain.ErrEmailDelivery)
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("%w: no recipient address", domain.ErrEmailDelivery)
	}

	file, err := Render(format, data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", Subject(data.Kind))
	msg.SetBody("text/plain", Body(data.Kind))
	msg.Attach(file.Name,
		gomail.SetHeader(map[string][]string{"Content-Type": {file.ContentType}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(file.Body)
			return err
		}),
	)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmailDelivery, err)
	}
	return nil
}

func Subject(kind report.Kind) string {
	return kind.Title()
}

func Body(kind report.Kind) string {
	return fmt.Sprintf("Please find attached the %s report.", kind)
}
