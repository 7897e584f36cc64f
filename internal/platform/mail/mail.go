// Package mail composes account emails and hands them to an SMTP relay.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them. Used when no
// SMTP credentials are configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "mail not delivered, smtp not configured",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	timeout  time.Duration
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		timeout:  30 * time.Second,
	}
}

// Send delivers one message. The whole SMTP conversation, greeting included,
// is bound to ctx: its deadline is set on the connection and cancelling ctx
// closes it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm, err := m.compose(msg)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(m.host, m.options(ctx)...)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, gm); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) options(ctx context.Context) []gomail.Option {
	opts := []gomail.Option{
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithPort(m.port),
		gomail.WithTimeout(m.timeout),
		gomail.WithDialContextFunc(boundDialer(ctx)),
	}
	if m.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.user),
			gomail.WithPassword(m.password),
		)
	}
	return opts
}

func (m *SMTPMailer) compose(msg Message) (*gomail.Msg, error) {
	if strings.ContainsAny(msg.To, "\r\n") || strings.ContainsAny(msg.Subject, "\r\n") {
		return nil, fmt.Errorf("mail: header injection in recipient or subject")
	}
	gm := gomail.NewMsg(gomail.WithEncoding(gomail.NoEncoding))
	if err := gm.FromFormat("CFB Poll", m.from); err != nil {
		return nil, fmt.Errorf("mail: from %q: %w", m.from, err)
	}
	if err := gm.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail: recipient %q: %w", msg.To, err)
	}
	gm.Subject(msg.Subject)
	gm.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return gm, nil
}

// boundDialer ties each connection to the lifetime of one Send call.
func boundDialer(sendCtx context.Context) gomail.DialContextFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if deadline, ok := sendCtx.Deadline(); ok {
			if err := conn.SetDeadline(deadline); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}
		stop := context.AfterFunc(sendCtx, func() { _ = conn.Close() })
		return &boundConn{Conn: conn, stop: stop}, nil
	}
}

type boundConn struct {
	net.Conn
	stop func() bool
}

func (c *boundConn) Close() error {
	c.stop()
	return c.Conn.Close()
}

func VerificationMessage(appURL, to, name, token string) Message {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", appURL, token)
	return Message{
		To:      to,
		Subject: "Verify your email - CFB Poll",
		Body: fmt.Sprintf("Hi %s,\n\nThanks for registering. Confirm your email address to start voting:\n\n%s\n\n"+
			"If you did not create an account you can ignore this message.\n", name, link),
	}
}

func PasswordResetMessage(appURL, to, name, token string) Message {
	link := fmt.Sprintf("%s/update-password?token=%s", appURL, token)
	return Message{
		To:      to,
		Subject: "Reset your password - CFB Poll",
		Body: fmt.Sprintf("Hi %s,\n\nA password reset was requested for your account. The link below is valid for one hour:\n\n%s\n\n"+
			"If you did not ask for this, no action is needed.\n", name, link),
	}
}
