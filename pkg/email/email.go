package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sender delivers a plain text email. A nil error means the message was
// accepted by the mail server.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds the credentials of the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
	// FromName is shown as the display name of the sender.
	FromName string
}

// SMTPSender sends mail through an SMTP server with PLAIN auth.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.FromName == "" {
		cfg.FromName = "Habit Tracker"
	}
	return &SMTPSender{cfg: cfg}
}

// Send delivers the message. The context bounds dialing and the whole
// SMTP conversation.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("failed to send email: empty recipient")
	}

	msg, err := BuildMessage(s.cfg.FromName, s.cfg.From, to, subject, body)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	address := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsConfig(s.cfg.Host)); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	if s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return client.Quit()
}

// ErrInvalidHeader is returned when a header value would break out of its
// header line.
var ErrInvalidHeader = errors.New("invalid email header value")

// BuildMessage renders a multipart/alternative message with the plain
// text body and an HTML version of it. The subject and sender name are
// RFC 2047 encoded.
func BuildMessage(fromName, from, to, subject, body string) ([]byte, error) {
	for name, value := range map[string]string{"From": from, "From name": fromName, "To": to, "Subject": subject} {
		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("%w: %s contains a line break", ErrInvalidHeader, name)
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 {
		domain = from[i+1:]
	}

	headers := []string{
		fmt.Sprintf("From: %s <%s>", mime.QEncoding.Encode("utf-8", fromName), from),
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + time.Now().Format(time.RFC1123Z),
		fmt.Sprintf("Message-ID: <%s@%s>", uuid.NewString(), domain),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%s", mw.Boundary()),
	}
	buf.WriteString(strings.Join(headers, "\r\n") + "\r\n\r\n")

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", body},
		{"text/html; charset=UTF-8", renderHTML(body)},
	}
	for _, p := range parts {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(p.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderHTML(body string) string {
	text := strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")
	return `<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">` +
		`<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">` +
		`<h2 style="color: #4F46E5;">Habit Tracker</h2>` +
		`<div style="margin: 20px 0; line-height: 1.6; color: #333;">` + text + `</div>` +
		`<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">` +
		`<p style="color: #666; font-size: 12px; text-align: center;">Keep building great habits!</p>` +
		`</div></div>`
}
