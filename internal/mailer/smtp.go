package mailer

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends plain-text mail. Port 465 uses implicit TLS, any other
// port upgrades with STARTTLS when the server offers it.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendResetCode(ctx context.Context, email, code string) error {
	errb := oops.Code("SMTP_SEND_FAILED").With("host", s.cfg.Host).With("to", email)

	client, err := s.dial(ctx)
	if err != nil {
		return errb.Wrap(err)
	}
	defer client.Close()

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return errb.With("step", "auth").Wrap(err)
		}
	}
	if err := client.Mail(parseAddress(s.cfg.From)); err != nil {
		return errb.With("step", "mail").Wrap(err)
	}
	if err := client.Rcpt(email); err != nil {
		return errb.With("step", "rcpt").Wrap(err)
	}
	w, err := client.Data()
	if err != nil {
		return errb.With("step", "data").Wrap(err)
	}
	if _, err := w.Write([]byte(buildMessage(s.cfg.From, email, resetSubject, resetBody(code)))); err != nil {
		_ = w.Close()
		return errb.With("step", "write").Wrap(err)
	}
	if err := w.Close(); err != nil {
		return errb.With("step", "data").Wrap(err)
	}
	return client.Quit()
}

func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host}

	if s.cfg.Port == 465 {
		d := &tls.Dialer{Config: tlsCfg}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, s.cfg.Host)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsCfg); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from, to, subject, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}
	return strings.Join(headers, "\r\n")
}

// parseAddress extracts the bare address from "Name <addr>".
func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
