// Package mail — отправка писем через SMTP-релей.
package mail

import (
	"bytes"
	"io"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"cartlock/internal/logs"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type Mailer struct {
	cfg Config
	cb  *gobreaker.CircuitBreaker
}

func New(cfg Config) *Mailer {
	// брейкер не меняет семантику "отправили и забыли" — он лишь
	// перестаёт долбить лежащий релей
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "smtp",
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logs.Logger.Warnf("mail: breaker %s: %s -> %s", name, from, to)
		},
	})
	return &Mailer{cfg: cfg, cb: cb}
}

// Send отправляет HTML-письмо с одним вложением. Каждый вызов —
// отдельный SMTP-диалог; получатель ошибки сам решает, что логировать.
func (m *Mailer) Send(to, subject, htmlBody, attName string, attBytes []byte, attMIME string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if len(attBytes) > 0 {
		msg.Attach(attName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(attBytes))
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {attMIME}}),
		)
	}

	_, err := m.cb.Execute(func() (interface{}, error) {
		d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
		return nil, d.DialAndSend(msg)
	})
	return err
}
