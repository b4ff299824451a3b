// Package mailer delivers plain-text campaign emails over SMTP.
package mailer

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/sells-group/campaign-cli/internal/config"
)

// SMTPSender sends each message on its own SMTP connection.
type SMTPSender struct {
	host     string
	port     int
	from     string
	username string
	password string
	startTLS bool
	timeout  time.Duration
}

// New creates an SMTPSender from configuration.
func New(cfg config.SMTPConfig) *SMTPSender {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
		startTLS: cfg.StartTLS,
		timeout:  timeout,
	}
}

// Send delivers one plain-text UTF-8 message to a single recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return eris.Wrapf(err, "mailer: invalid from address %q", s.from)
	}
	if err := msg.To(strings.TrimSpace(to)); err != nil {
		return eris.Wrapf(err, "mailer: invalid recipient %q", to)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return eris.Wrap(err, "mailer: create client")
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return eris.Wrapf(err, "mailer: send to %s", to)
	}

	zap.L().Debug("mailer: message sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTimeout(s.timeout),
	}
	if s.startTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if s.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}
	return opts
}

// Addr returns host:port of the relay.
func (s *SMTPSender) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}
