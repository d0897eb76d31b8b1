// Package sender provides the email transports behind the
// notification domain.
package sender

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/smallbiznis/loanhub/internal/config"
	"github.com/smallbiznis/loanhub/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// New selects the transport for the current environment. SMTP must be
// explicitly enabled; otherwise messages are logged and dropped.
func New(p Params) domain.Sender {
	if p.Cfg.SMTP.Enabled {
		return &SMTPSender{
			cfg: p.Cfg.SMTP,
			log: p.Log.Named("notification.smtp"),
		}
	}
	return &LogSender{log: p.Log.Named("notification.log")}
}

// SMTPSender delivers messages over plain SMTP with optional auth.
type SMTPSender struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func (s *SMTPSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	to := strings.TrimSpace(msg.To)
	if to == "" || !strings.Contains(to, "@") {
		return domain.ErrInvalidRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// Enabled without a host is a misconfiguration, not a delivery error.
	if strings.TrimSpace(s.cfg.Host) == "" {
		return domain.ErrSenderDisabled
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	payload := buildPayload(s.cfg.From, to, msg)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, payload); err != nil {
		s.log.Warn("smtp delivery failed",
			zap.String("to", to),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return err
	}
	s.log.Debug("email delivered", zap.String("to", to), zap.String("subject", msg.Subject))
	return nil
}

func buildPayload(from, to string, msg domain.EmailMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// sanitizeHeader strips CRLF so message fields cannot inject headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// LogSender records messages on the application log instead of
// delivering them. Used in development and tests.
type LogSender struct {
	log *zap.Logger
}

func (s *LogSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	to := strings.TrimSpace(msg.To)
	if to == "" || !strings.Contains(to, "@") {
		return domain.ErrInvalidRecipient
	}
	s.log.Info("email suppressed",
		zap.String("to", to),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return nil
}
